package handlers

import (
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"pasar/internal/apperrors"
	"pasar/internal/middleware"
	"pasar/internal/models"
	"pasar/internal/services"
)

// UserHandler handles the HTTP surface of the user subsystem.
type UserHandler struct {
	authService    *services.AuthService
	profileService *services.ProfileService
	adminService   *services.AdminService
	validate       *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, profileService *services.ProfileService, adminService *services.AdminService) *UserHandler {
	return &UserHandler{
		authService:    authService,
		profileService: profileService,
		adminService:   adminService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/user")

	// Public routes
	userRoutes.Post("/create-user", h.HandleCreateUser)
	userRoutes.Post("/activation", h.HandleActivation)
	userRoutes.Post("/login-user", h.HandleLogin)
	userRoutes.Get("/user-info/:id", h.HandleUserInfo)

	// Session-protected routes
	protected := userRoutes.Group("", middleware.AuthRequired(h.authService))
	protected.Get("/get-user", h.HandleGetUser)
	protected.Get("/logout", h.HandleLogout)
	protected.Put("/update-user-info", h.HandleUpdateInfo)
	protected.Put("/update-avatar", h.HandleUpdateAvatar)
	protected.Put("/update-user-addresses", h.HandleUpdateAddresses)
	protected.Delete("/delete-user-address/:id", h.HandleDeleteAddress)
	protected.Put("/update-user-password", h.HandleUpdatePassword)

	// Admin-only routes
	adminRoutes := protected.Group("", middleware.AdminOnly(models.RoleAdmin))
	adminRoutes.Get("/admin-all-users", h.HandleAdminAllUsers)
	adminRoutes.Delete("/delete-user/:id", h.HandleDeleteUser)
}

// respondError translates a domain error into the failure envelope. This is
// the single boundary between the error taxonomy and HTTP.
func respondError(c *fiber.Ctx, err error) error {
	statusCode := apperrors.StatusCode(err)
	if statusCode == fiber.StatusInternalServerError {
		log.Printf("Unclassified error on %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(statusCode).JSON(fiber.Map{
		"success":    false,
		"message":    err.Error(),
		"statusCode": statusCode,
	})
}

// respondValidationError reports request validation failures field by field.
func respondValidationError(c *fiber.Ctx, err error) error {
	errorMessages := make(map[string]string)
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success":    false,
		"message":    "Validation failed",
		"statusCode": fiber.StatusBadRequest,
		"errors":     errorMessages,
	})
}

func respondBadBody(c *fiber.Ctx, err error) error {
	log.Printf("Error parsing request body: %v", err)
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success":    false,
		"message":    "Invalid request body",
		"statusCode": fiber.StatusBadRequest,
	})
}

// setSessionCookie delivers the session token as an HTTP-only cookie.
func (h *UserHandler) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Expires:  time.Now().Add(h.authService.SessionTTL()),
		HTTPOnly: true,
	})
}

// clearSessionCookie overwrites the session cookie with an already-expired
// value. The token itself stays valid until expiry; logout is advisory.
func clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Expires:  time.Now(),
		HTTPOnly: true,
	})
}

// currentUser returns the user resolved by the AuthRequired middleware.
func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(middleware.UserKey).(*models.User)
	return user
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Avatar   string `json:"avatar" validate:"required"`
}

// HandleCreateUser stages a registration and mails the activation link.
func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	if _, err := h.authService.Register(c.UserContext(), req.Name, req.Email, req.Password, req.Avatar); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Please check your email:- %s to activate your account", req.Email),
	})
}

// ActivationRequest represents the request body for account activation.
type ActivationRequest struct {
	ActivationToken string `json:"activation_token" validate:"required"`
}

// HandleActivation confirms an activation token, creates the user and
// issues a session.
func (h *UserHandler) HandleActivation(c *fiber.Ctx) error {
	var req ActivationRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	user, sessionToken, err := h.authService.Activate(req.ActivationToken)
	if err != nil {
		return respondError(c, err)
	}

	h.setSessionCookie(c, sessionToken)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user":    user,
		"token":   sessionToken,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin verifies credentials and issues a session cookie.
func (h *UserHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	user, sessionToken, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	h.setSessionCookie(c, sessionToken)
	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
		"token":   sessionToken,
	})
}

// HandleGetUser returns the caller's own account.
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"user":    currentUser(c),
	})
}

// HandleLogout clears the session cookie.
func (h *UserHandler) HandleLogout(c *fiber.Ctx) error {
	clearSessionCookie(c)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Log out successful",
	})
}

// UpdateInfoRequest represents the request body for a basic info update.
// Password is required as a reauthentication step.
type UpdateInfoRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	PhoneNumber string `json:"phone_number"`
}

// HandleUpdateInfo updates name, email and phone number.
func (h *UserHandler) HandleUpdateInfo(c *fiber.Ctx) error {
	var req UpdateInfoRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	user, err := h.profileService.UpdateInfo(currentUser(c).ID, req.Email, req.Password, req.PhoneNumber, req.Name)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// UpdateAvatarRequest represents the request body for an avatar swap.
type UpdateAvatarRequest struct {
	Avatar string `json:"avatar"`
}

// HandleUpdateAvatar swaps the avatar resource.
func (h *UserHandler) HandleUpdateAvatar(c *fiber.Ctx) error {
	var req UpdateAvatarRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}

	user, err := h.profileService.UpdateAvatar(c.UserContext(), currentUser(c).ID, req.Avatar)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// HandleUpdateAddresses upserts one address of the caller.
func (h *UserHandler) HandleUpdateAddresses(c *fiber.Ctx) error {
	var address models.Address
	if err := c.BodyParser(&address); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(address); err != nil {
		return respondValidationError(c, err)
	}

	user, err := h.profileService.UpsertAddress(currentUser(c).ID, address)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// HandleDeleteAddress removes one address of the caller by id.
func (h *UserHandler) HandleDeleteAddress(c *fiber.Ctx) error {
	user, err := h.profileService.DeleteAddress(currentUser(c).ID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// UpdatePasswordRequest represents the request body for a password rotation.
type UpdatePasswordRequest struct {
	OldPassword     string `json:"old_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// HandleUpdatePassword rotates the caller's password.
func (h *UserHandler) HandleUpdatePassword(c *fiber.Ctx) error {
	var req UpdatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	if err := h.profileService.UpdatePassword(currentUser(c).ID, req.OldPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password updated successfully!",
	})
}

// HandleUserInfo returns a user's public profile by id.
func (h *UserHandler) HandleUserInfo(c *fiber.Ctx) error {
	user, err := h.adminService.GetPublicProfile(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// HandleAdminAllUsers lists every user, newest first.
func (h *UserHandler) HandleAdminAllUsers(c *fiber.Ctx) error {
	users, err := h.adminService.ListUsers()
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"users":   users,
	})
}

// HandleDeleteUser cascades an account deletion to the blob store.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	if err := h.adminService.DeleteUser(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User deleted successfully!",
	})
}
