// Package apperrors defines the domain error taxonomy shared by services,
// middleware and handlers. Every failure a handler reports to a client is
// one of these sentinels (possibly wrapped); anything else maps to 500.
package apperrors

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

var (
	// User errors
	ErrUserExists           = errors.New("user already exists")                    // 400
	ErrUserNotFound         = errors.New("user not found")                         // 400
	ErrInvalidCredentials   = errors.New("please provide the correct information") // 400
	ErrPasswordMismatch     = errors.New("passwords do not match with each other") // 400
	ErrDuplicateAddressType = errors.New("address type already exists")            // 400

	// Token / session errors
	ErrInvalidToken    = errors.New("invalid or expired token") // 400
	ErrUnauthenticated = errors.New("please login to continue") // 401
	ErrForbidden       = errors.New("access denied")            // 403

	// External capability errors
	ErrNotificationFailed = errors.New("failed to send activation mail") // 500
	ErrBlobStoreFailure   = errors.New("blob store operation failed")    // 500
)

// StatusCode maps a domain error to the HTTP status the original API used.
// Missing users are reported as 400, not 404.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrUserExists),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrPasswordMismatch),
		errors.Is(err, ErrDuplicateAddressType),
		errors.Is(err, ErrInvalidToken):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}
