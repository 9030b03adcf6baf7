// Package tokens signs and verifies the two bearer tokens the service uses:
// short-lived activation tokens carrying an unconfirmed registration, and
// session tokens carrying an authenticated user id. The two kinds are signed
// with independent secrets so one can never be replayed as the other.
package tokens

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"

	"pasar/internal/apperrors"
	"pasar/internal/models"
)

// ActivationTTL is how long an activation token stays valid. Registrations
// not confirmed within this window simply expire; nothing is persisted.
const ActivationTTL = 5 * time.Minute

// PendingRegistration is the payload of an activation token. It is never
// written to the database; confirming the token creates the user.
// Password holds the bcrypt hash, not the plaintext.
type PendingRegistration struct {
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Password string        `json:"password"`
	Avatar   models.Avatar `json:"avatar"`
}

type activationClaims struct {
	PendingRegistration
	jwt.StandardClaims
}

// Codec issues and verifies activation and session tokens.
type Codec struct {
	activationSecret []byte
	sessionSecret    []byte
	sessionTTL       time.Duration
}

// NewCodec creates a Codec. sessionTTL controls how long issued sessions
// (and the cookie carrying them) stay valid.
func NewCodec(activationSecret, sessionSecret string, sessionTTL time.Duration) *Codec {
	return &Codec{
		activationSecret: []byte(activationSecret),
		sessionSecret:    []byte(sessionSecret),
		sessionTTL:       sessionTTL,
	}
}

// SessionTTL returns the configured session lifetime.
func (c *Codec) SessionTTL() time.Duration {
	return c.sessionTTL
}

// IssueActivation signs a pending registration into an activation token.
func (c *Codec) IssueActivation(pending PendingRegistration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, activationClaims{
		PendingRegistration: pending,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(ActivationTTL).Unix(),
			IssuedAt:  now.Unix(),
		},
	})

	tokenString, err := token.SignedString(c.activationSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign activation token: %w", err)
	}
	return tokenString, nil
}

// VerifyActivation validates an activation token and returns its payload.
func (c *Codec) VerifyActivation(tokenString string) (*PendingRegistration, error) {
	claims := &activationClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, c.keyFunc(c.activationSecret))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: activation token rejected", apperrors.ErrInvalidToken)
	}
	return &claims.PendingRegistration, nil
}

// IssueSession signs a session token for the given user id.
func (c *Codec) IssueSession(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     now.Add(c.sessionTTL).Unix(),
		"iat":     now.Unix(),
	})

	tokenString, err := token.SignedString(c.sessionSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return tokenString, nil
}

// VerifySession validates a session token and returns the user id it carries.
func (c *Codec) VerifySession(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, c.keyFunc(c.sessionSecret))
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: session token rejected", apperrors.ErrInvalidToken)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("%w: unexpected claims type", apperrors.ErrInvalidToken)
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("%w: missing user id claim", apperrors.ErrInvalidToken)
	}
	return userID, nil
}

// keyFunc returns a jwt keyfunc that enforces the HMAC signing method.
func (c *Codec) keyFunc(secret []byte) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}
}
