package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"pasar/internal/apperrors"
	"pasar/internal/blobstore"
	"pasar/internal/models"
	"pasar/internal/repositories"
)

// ProfileService mutates an existing user: basic fields, password, avatar
// and the address collection.
type ProfileService struct {
	userRepo repositories.UserRepository
	blobs    blobstore.Store
}

// NewProfileService creates a new ProfileService.
func NewProfileService(userRepo repositories.UserRepository, blobs blobstore.Store) *ProfileService {
	return &ProfileService{
		userRepo: userRepo,
		blobs:    blobs,
	}
}

// UpdateInfo changes name, email and phone number. The supplied password is
// re-verified against the stored hash as a reauthentication step.
func (s *ProfileService) UpdateInfo(userID, email, password, phoneNumber, name string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	user.Name = name
	user.Email = email
	user.PhoneNumber = phoneNumber

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePassword replaces the stored hash after verifying the old password
// and that the new password was typed the same twice.
func (s *ProfileService) UpdatePassword(userID, oldPassword, newPassword, confirmPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return apperrors.ErrInvalidCredentials
	}
	if newPassword != confirmPassword {
		return apperrors.ErrPasswordMismatch
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)

	return s.userRepo.Update(user)
}

// UpdateAvatar swaps the avatar resource. The old blob is destroyed before
// the new one is uploaded; an upload failure after the destroy leaves the
// user without a valid avatar and is surfaced to the caller.
// An empty source leaves the avatar untouched.
func (s *ProfileService) UpdateAvatar(ctx context.Context, userID, avatarSource string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if avatarSource != "" {
		if user.Avatar.PublicID != "" {
			if err := s.blobs.Destroy(ctx, user.Avatar.PublicID); err != nil {
				return nil, err
			}
		}

		resource, err := s.blobs.Upload(ctx, avatarSource)
		if err != nil {
			return nil, err
		}
		user.Avatar = models.Avatar{
			PublicID: resource.PublicID,
			URL:      resource.URL,
		}
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpsertAddress adds or overwrites an address. Each address type may appear
// at most once per user: a new entry whose type collides with an existing
// one under a different id is rejected. Matching ids are overwritten in
// place, so the order of the collection never changes on update.
func (s *ProfileService) UpsertAddress(userID string, address models.Address) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	for _, existing := range user.Addresses {
		if existing.AddressType == address.AddressType && existing.ID != address.ID {
			return nil, fmt.Errorf("%s: %w", address.AddressType, apperrors.ErrDuplicateAddressType)
		}
	}

	if address.ID == "" {
		address.ID = uuid.New().String()
	}

	updated := false
	for i, existing := range user.Addresses {
		if existing.ID == address.ID {
			user.Addresses[i] = address
			updated = true
			break
		}
	}
	if !updated {
		user.Addresses = append(user.Addresses, address)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAddress removes the address with the given id. Deleting an id that
// is not present is a no-op, so the call is idempotent.
func (s *ProfileService) DeleteAddress(userID, addressID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	kept := user.Addresses[:0]
	for _, address := range user.Addresses {
		if address.ID != addressID {
			kept = append(kept, address)
		}
	}
	user.Addresses = kept

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
