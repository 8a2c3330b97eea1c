package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/taskflow/taskflow-api/internal/constants"
	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/repository"
	"github.com/taskflow/taskflow-api/internal/storage"
	"gorm.io/gorm"
)

// UserService manages the signed-in user's own account.
type UserService struct {
	userRepo repository.UserRepository
	blobs    storage.BlobStorage
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, blobs storage.BlobStorage) *UserService {
	return &UserService{
		userRepo: userRepo,
		blobs:    blobs,
	}
}

// UpdateProfileInput is a partial profile update. Nil fields are left as they are.
type UpdateProfileInput struct {
	Username        *string
	FirstName       *string
	LastName        *string
	Email           *string
	NewPassword     *string
	CurrentPassword string
}

// UpdateProfile validates every requested change before writing anything, so a
// rejected request leaves the stored account untouched.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint64, input UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	updated := *user

	if input.Username != nil {
		username, err := normalizeUsername(*input.Username)
		if err != nil {
			return nil, err
		}
		if username != user.Username {
			if err := ensureUsernameFree(ctx, s.userRepo, username, user.ID); err != nil {
				return nil, err
			}
		}
		updated.Username = username
	}
	if input.FirstName != nil {
		updated.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		updated.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email == "" {
			return nil, ErrEmailRequired
		}
		if email != user.Email {
			if err := ensureEmailFree(ctx, s.userRepo, email, user.ID); err != nil {
				return nil, err
			}
		}
		updated.Email = email
	}
	if input.NewPassword != nil {
		if input.CurrentPassword == "" {
			return nil, ErrCurrentPasswordRequired
		}
		if !checkPassword(user.PasswordHash, input.CurrentPassword) {
			return nil, ErrWrongPassword
		}
		if len(*input.NewPassword) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hash, err := hashPassword(*input.NewPassword)
		if err != nil {
			return nil, err
		}
		updated.PasswordHash = hash
	}

	if err := s.userRepo.Update(ctx, &updated); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateAccountError(ctx, s.userRepo, &updated)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return &updated, nil
}

// DeleteAccount removes the user and everything they own once the password is confirmed.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint64, password string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}
	if !checkPassword(user.PasswordHash, password) {
		return ErrWrongPassword
	}

	keys, err := s.userRepo.Delete(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	removeBlobs(ctx, s.blobs, keys)
	return nil
}

// removeBlobs deletes content whose metadata rows are already gone. Failures
// leave orphaned files behind, so each one is logged with its key.
func removeBlobs(ctx context.Context, blobs storage.BlobStorage, keys []string) {
	for _, key := range keys {
		if err := blobs.Delete(ctx, key); err != nil {
			log.Printf("orphaned attachment content %q: %v", key, err)
		}
	}
}
