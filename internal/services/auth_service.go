package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"pasar/internal/apperrors"
	"pasar/internal/blobstore"
	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/internal/tokens"
	"pasar/pkg/rabbitmq"
)

// Mailer is the notify capability. The RabbitMQ client satisfies it.
type Mailer interface {
	SendActivationMail(mail rabbitmq.ActivationMail) error
}

// AuthService handles registration, account activation and login.
// A registration is not persisted: it is staged as a signed activation token
// and only becomes a user row once that token is confirmed.
type AuthService struct {
	userRepo  repositories.UserRepository
	codec     *tokens.Codec
	blobs     blobstore.Store
	mailer    Mailer
	clientURL string
}

// NewAuthService creates a new AuthService. clientURL is the frontend base
// URL embedded in activation links.
func NewAuthService(userRepo repositories.UserRepository, codec *tokens.Codec, blobs blobstore.Store, mailer Mailer, clientURL string) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		codec:     codec,
		blobs:     blobs,
		mailer:    mailer,
		clientURL: clientURL,
	}
}

// Register stages a new registration: it uploads the avatar, signs the
// pending account data into an activation token and mails the activation
// link. Nothing is written to the database until Activate.
// A failed mail send is reported as such; the uploaded avatar and the token
// are not rolled back, the caller can simply register again.
func (s *AuthService) Register(ctx context.Context, name, email, password, avatarSource string) (string, error) {
	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return "", fmt.Errorf("email '%s': %w", email, apperrors.ErrUserExists)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	resource, err := s.blobs.Upload(ctx, avatarSource)
	if err != nil {
		return "", err
	}

	pending := tokens.PendingRegistration{
		Name:     name,
		Email:    email,
		Password: string(hashedPassword),
		Avatar: models.Avatar{
			PublicID: resource.PublicID,
			URL:      resource.URL,
		},
	}

	activationToken, err := s.codec.IssueActivation(pending)
	if err != nil {
		return "", err
	}

	activationURL := fmt.Sprintf("%s/activation/%s", s.clientURL, activationToken)
	mail := rabbitmq.ActivationMail{
		To:      email,
		Subject: "Activate your account",
		Body:    fmt.Sprintf("Hello %s, please click on the link to activate your account: %s", name, activationURL),
	}
	if err := s.mailer.SendActivationMail(mail); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrNotificationFailed, err)
	}

	return activationToken, nil
}

// Activate verifies an activation token and persists the user it carries.
// The email uniqueness check runs again here: another registration for the
// same address may have been confirmed between issuance and activation.
// Returns the created user together with a fresh session token.
func (s *AuthService) Activate(activationToken string) (*models.User, string, error) {
	pending, err := s.codec.VerifyActivation(activationToken)
	if err != nil {
		return nil, "", err
	}

	if existing, err := s.userRepo.GetByEmail(pending.Email); err == nil && existing != nil {
		return nil, "", fmt.Errorf("email '%s': %w", pending.Email, apperrors.ErrUserExists)
	}

	user := &models.User{
		Name:     pending.Name,
		Email:    pending.Email,
		Password: pending.Password,
		Avatar:   pending.Avatar,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", err
	}

	sessionToken, err := s.codec.IssueSession(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, sessionToken, nil
}

// Login verifies the credentials and issues a session token.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	sessionToken, err := s.codec.IssueSession(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, sessionToken, nil
}

// ValidateSession verifies a session token and resolves its user.
func (s *AuthService) ValidateSession(tokenString string) (*models.User, error) {
	userID, err := s.codec.VerifySession(tokenString)
	if err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(userID)
}

// SessionTTL exposes the session lifetime for cookie expiry.
func (s *AuthService) SessionTTL() time.Duration {
	return s.codec.SessionTTL()
}
