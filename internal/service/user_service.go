package service

import (
	"context"

	"wayfarer/internal/models"
	"wayfarer/internal/repository"
	"wayfarer/internal/validation"
)

type UserService struct {
	userRepo repository.UserRepository
}

type UpdateUserInput struct {
	RequesterID uint
	TargetID    uint
	Username    string
	Bio         *string
	Avatar      *string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User")
	}
	return user, nil
}

// UpdateUser applies profile changes. Accounts are mutated only by their
// owner; like comment deletion, the original API answers this failure with
// 401 rather than 403, which is preserved.
func (s *UserService) UpdateUser(ctx context.Context, in UpdateUserInput) (*models.User, error) {
	user, err := s.GetUser(ctx, in.TargetID)
	if err != nil {
		return nil, err
	}

	if !models.IsOwner(user, in.RequesterID) {
		return nil, models.NewUnauthorizedError("Not authorized to update this profile")
	}

	if in.Username != "" {
		if err := validation.ValidateUsername(in.Username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Username = in.Username
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
