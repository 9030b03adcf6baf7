package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"pasar/internal/apperrors"
	"pasar/internal/models"
	"pasar/internal/services"
)

func TestAdminService_ListUsers(t *testing.T) {
	mockRepo := new(MockUserRepository)
	adminService := services.NewAdminService(mockRepo, new(MockBlobStore))

	now := time.Now()
	users := []models.User{
		{ID: "user-2", CreatedAt: now},
		{ID: "user-1", CreatedAt: now.Add(-time.Hour)},
	}
	mockRepo.On("GetAllNewestFirst").Return(users, nil).Once()

	listed, err := adminService.ListUsers()
	assert.NoError(t, err)
	assert.Equal(t, users, listed)

	mockRepo.AssertExpectations(t)
}

func TestAdminService_GetPublicProfile(t *testing.T) {
	mockRepo := new(MockUserRepository)
	adminService := services.NewAdminService(mockRepo, new(MockBlobStore))

	user := &models.User{ID: "user-123", Name: "testuser"}
	mockRepo.On("GetByID", "user-123").Return(user, nil).Once()

	found, err := adminService.GetPublicProfile("user-123")
	assert.NoError(t, err)
	assert.Equal(t, user, found)

	mockRepo.On("GetByID", "ghost").Return(nil, apperrors.ErrUserNotFound).Once()
	_, err = adminService.GetPublicProfile("ghost")
	assert.True(t, errors.Is(err, apperrors.ErrUserNotFound))

	mockRepo.AssertExpectations(t)
}

func TestAdminService_DeleteUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockBlobs := new(MockBlobStore)
	adminService := services.NewAdminService(mockRepo, mockBlobs)

	user := &models.User{ID: "user-123", Avatar: models.Avatar{PublicID: "avatars/abc"}}

	mockRepo.On("GetByID", "user-123").Return(user, nil).Once()
	mockBlobs.On("Destroy", mock.Anything, "avatars/abc").Return(nil).Once()
	mockRepo.On("Delete", "user-123").Return(nil).Once()

	err := adminService.DeleteUser(context.Background(), "user-123")
	assert.NoError(t, err)

	mockRepo.AssertExpectations(t)
	mockBlobs.AssertExpectations(t)
}

// A failed blob destroy aborts the cascade: the row must stay.
func TestAdminService_DeleteUser_BlobFailureKeepsRecord(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockBlobs := new(MockBlobStore)
	adminService := services.NewAdminService(mockRepo, mockBlobs)

	user := &models.User{ID: "user-123", Avatar: models.Avatar{PublicID: "avatars/abc"}}

	mockRepo.On("GetByID", "user-123").Return(user, nil).Once()
	mockBlobs.On("Destroy", mock.Anything, "avatars/abc").
		Return(fmt.Errorf("%w: destroy avatars/abc", apperrors.ErrBlobStoreFailure)).Once()

	err := adminService.DeleteUser(context.Background(), "user-123")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrBlobStoreFailure))

	mockRepo.AssertNotCalled(t, "Delete", mock.Anything)
	mockRepo.AssertExpectations(t)
	mockBlobs.AssertExpectations(t)
}

func TestAdminService_DeleteUser_NotFound(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockBlobs := new(MockBlobStore)
	adminService := services.NewAdminService(mockRepo, mockBlobs)

	mockRepo.On("GetByID", "ghost").Return(nil, apperrors.ErrUserNotFound).Once()

	err := adminService.DeleteUser(context.Background(), "ghost")
	assert.True(t, errors.Is(err, apperrors.ErrUserNotFound))

	mockBlobs.AssertNotCalled(t, "Destroy", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything)
	mockRepo.AssertExpectations(t)
}
