package services

import (
	"context"

	"pasar/internal/blobstore"
	"pasar/internal/models"
	"pasar/internal/repositories"
)

// AdminService handles privileged listing and account deletion, plus the
// unauthenticated public profile lookup.
type AdminService struct {
	userRepo repositories.UserRepository
	blobs    blobstore.Store
}

// NewAdminService creates a new AdminService.
func NewAdminService(userRepo repositories.UserRepository, blobs blobstore.Store) *AdminService {
	return &AdminService{
		userRepo: userRepo,
		blobs:    blobs,
	}
}

// ListUsers returns every user, most recently created first.
func (s *AdminService) ListUsers() ([]models.User, error) {
	return s.userRepo.GetAllNewestFirst()
}

// GetPublicProfile looks up a user by id for public display.
func (s *AdminService) GetPublicProfile(userID string) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

// DeleteUser cascades an account deletion to the blob store: the avatar
// resource is destroyed first, and only then is the row deleted. A failed
// destroy aborts the whole operation so the record never references a blob
// whose fate is unknown.
func (s *AdminService) DeleteUser(ctx context.Context, userID string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}

	if user.Avatar.PublicID != "" {
		if err := s.blobs.Destroy(ctx, user.Avatar.PublicID); err != nil {
			return err
		}
	}

	return s.userRepo.Delete(userID)
}
