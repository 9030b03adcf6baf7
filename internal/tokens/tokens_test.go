package tokens_test

import (
	"errors"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"

	"pasar/internal/apperrors"
	"pasar/internal/models"
	"pasar/internal/tokens"
)

const (
	testActivationSecret = "test_activation_secret"
	testSessionSecret    = "test_session_secret"
)

func newTestCodec() *tokens.Codec {
	return tokens.NewCodec(testActivationSecret, testSessionSecret, time.Hour)
}

func TestCodec_ActivationRoundTrip(t *testing.T) {
	codec := newTestCodec()

	pending := tokens.PendingRegistration{
		Name:     "testuser",
		Email:    "test@example.com",
		Password: "$2a$10$somebcrypthash",
		Avatar: models.Avatar{
			PublicID: "avatars/2024/1/1/abc",
			URL:      "https://blobs.example.com/avatars/2024/1/1/abc",
		},
	}

	tokenString, err := codec.IssueActivation(pending)
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	decoded, err := codec.VerifyActivation(tokenString)
	assert.NoError(t, err)
	assert.Equal(t, pending, *decoded)
}

func TestCodec_ExpiredActivationRejected(t *testing.T) {
	codec := newTestCodec()

	// Craft a token that expired in the past, signed with the right secret.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"name":     "testuser",
		"email":    "test@example.com",
		"password": "$2a$10$somebcrypthash",
		"exp":      time.Now().Add(-time.Minute).Unix(),
	})
	tokenString, err := expired.SignedString([]byte(testActivationSecret))
	assert.NoError(t, err)

	_, err = codec.VerifyActivation(tokenString)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
}

func TestCodec_SessionRoundTrip(t *testing.T) {
	codec := newTestCodec()

	tokenString, err := codec.IssueSession("user-123")
	assert.NoError(t, err)

	userID, err := codec.VerifySession(tokenString)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestCodec_SecretsAreIndependent(t *testing.T) {
	codec := newTestCodec()

	activationToken, err := codec.IssueActivation(tokens.PendingRegistration{
		Name:  "testuser",
		Email: "test@example.com",
	})
	assert.NoError(t, err)

	sessionToken, err := codec.IssueSession("user-123")
	assert.NoError(t, err)

	// An activation token must never pass as a session and vice versa.
	_, err = codec.VerifySession(activationToken)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))

	_, err = codec.VerifyActivation(sessionToken)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
}

func TestCodec_GarbageRejected(t *testing.T) {
	codec := newTestCodec()

	_, err := codec.VerifyActivation("invalid.token.string")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))

	_, err = codec.VerifySession("invalid.token.string")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
}
