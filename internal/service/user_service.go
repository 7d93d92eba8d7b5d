package service

import (
	"context"
	"time"

	"github.com/TheBreeze12/lifehub-backend/internal/errors"
	"github.com/TheBreeze12/lifehub-backend/internal/model"
	"github.com/TheBreeze12/lifehub-backend/internal/repository"
)

// UpdateProfileRequest represents the profile update request data
type UpdateProfileRequest struct {
	Email    *string `json:"email" validate:"omitempty,email,max=100"`
	Nickname *string `json:"nickname" validate:"omitempty,min=1,max=50"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	Avatar   *string `json:"avatar" validate:"omitempty,avatar"`
}

// UserService interface defines methods for user profile operations
type UserService interface {
	GetProfile(ctx context.Context, userID int64) (*model.User, error)
	UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) (*model.User, error)
}

// userService implements the UserService interface
type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new instance of UserService
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// GetProfile retrieves a user's profile information
func (s *userService) GetProfile(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDatabase, "failed to get user profile")
	}
	if user == nil {
		return nil, errors.ErrResourceNotFound
	}

	// Remove password hash from response
	user.PasswordHash = ""

	return user, nil
}

// UpdateProfile updates a user's profile information with validation
func (s *userService) UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) (*model.User, error) {
	// Get existing user
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDatabase, "failed to get user")
	}
	if user == nil {
		return nil, errors.ErrResourceNotFound
	}

	// Update fields if provided
	if req.Email != nil {
		// Check if email is already taken by another user
		existingUser, err := s.userRepo.GetByEmail(ctx, *req.Email)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrDatabase, "failed to check email")
		}
		if existingUser != nil && existingUser.ID != userID {
			return nil, errors.ErrEmailExists
		}
		user.Email = *req.Email
	}

	if req.Phone != nil {
		user.Phone = req.Phone
	}

	if req.Nickname != nil {
		user.Nickname = req.Nickname
	}

	if req.Avatar != nil {
		user.Avatar = req.Avatar
	}

	user.UpdatedAt = time.Now()

	// Save updated user
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Wrap(err, errors.ErrDatabase, "failed to update user profile")
	}

	// Remove password hash from response
	user.PasswordHash = ""

	return user, nil
}
