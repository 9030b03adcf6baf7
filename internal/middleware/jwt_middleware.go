package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"pasar/internal/apperrors"
	"pasar/internal/models"
	"pasar/internal/services"
)

// SessionCookie is the name of the HTTP-only cookie carrying the session token.
const SessionCookie = "token"

// UserKey is the locals key under which AuthRequired stores the resolved user.
const UserKey = "user"

// AuthRequired is a Fiber middleware that checks the session cookie,
// resolves the user it belongs to and stores it in the request locals.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(SessionCookie)
		if tokenString == "" {
			return unauthenticated(c)
		}

		user, err := authService.ValidateSession(tokenString)
		if err != nil {
			log.Printf("Session validation failed: %v", err)
			return unauthenticated(c)
		}

		c.Locals(UserKey, user)
		return c.Next()
	}
}

// AdminOnly requires the resolved user to carry the given role.
// It must run after AuthRequired.
func AdminOnly(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals(UserKey).(*models.User)
		if !ok {
			return unauthenticated(c)
		}
		if user.Role != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success":    false,
				"message":    apperrors.ErrForbidden.Error(),
				"statusCode": fiber.StatusForbidden,
			})
		}
		return c.Next()
	}
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success":    false,
		"message":    apperrors.ErrUnauthenticated.Error(),
		"statusCode": fiber.StatusUnauthorized,
	})
}
