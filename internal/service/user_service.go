package service

import (
	"context"
	"errors"

	"ripple/internal/models"
	"ripple/internal/repository"

	"gorm.io/gorm"
)

// UserService handles profile lookups and the block list.
type UserService struct {
	userRepo  repository.UserRepository
	blockRepo repository.BlockRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, blockRepo repository.BlockRepository) *UserService {
	return &UserService{userRepo: userRepo, blockRepo: blockRepo}
}

func (s *UserService) GetProfile(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, err
	}
	return user, nil
}

// BlockUser records userID blocking targetID. Blocking is idempotent; the
// returned bool is false when the block already existed.
func (s *UserService) BlockUser(ctx context.Context, userID, targetID uint) (bool, error) {
	if userID == targetID {
		return false, models.NewValidationError("You cannot block yourself")
	}
	if _, err := s.GetProfile(ctx, targetID); err != nil {
		return false, err
	}
	return s.blockRepo.Block(ctx, userID, targetID)
}

// UnblockUser removes the block if present. Unblocking someone who was never
// blocked is not an error.
func (s *UserService) UnblockUser(ctx context.Context, userID, targetID uint) error {
	if userID == targetID {
		return models.NewValidationError("You cannot unblock yourself")
	}
	return s.blockRepo.Unblock(ctx, userID, targetID)
}
