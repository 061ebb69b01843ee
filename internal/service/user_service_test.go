package service

import (
	"context"
	"testing"

	"ripple/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type userRepoStub struct {
	createFn  func(ctx context.Context, u *models.User) error
	getByIDFn func(ctx context.Context, id uint) (*models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, u *models.User) error {
	if s.createFn != nil {
		return s.createFn(ctx, u)
	}
	u.ID = 1
	return nil
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return &models.User{ID: id, Username: "someone"}, nil
}

func TestBlockUser(t *testing.T) {
	ctx := context.Background()

	t.Run("cannot block yourself", func(t *testing.T) {
		svc := NewUserService(&userRepoStub{}, &blockRepoStub{})
		_, err := svc.BlockUser(ctx, 1, 1)
		assertValidationError(t, err)
	})

	t.Run("missing target is not found", func(t *testing.T) {
		users := &userRepoStub{getByIDFn: func(ctx context.Context, id uint) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		}}
		svc := NewUserService(users, &blockRepoStub{})
		_, err := svc.BlockUser(ctx, 1, 2)
		assertNotFoundError(t, err)
	})

	t.Run("block is idempotent", func(t *testing.T) {
		blocks := &blockRepoStub{blockFn: func(ctx context.Context, blockerID, blockedID uint) (bool, error) {
			return false, nil
		}}
		svc := NewUserService(&userRepoStub{}, blocks)
		created, err := svc.BlockUser(ctx, 1, 2)
		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("records the right direction", func(t *testing.T) {
		var gotBlocker, gotBlocked uint
		blocks := &blockRepoStub{blockFn: func(ctx context.Context, blockerID, blockedID uint) (bool, error) {
			gotBlocker, gotBlocked = blockerID, blockedID
			return true, nil
		}}
		svc := NewUserService(&userRepoStub{}, blocks)
		created, err := svc.BlockUser(ctx, 1, 2)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, uint(1), gotBlocker)
		assert.Equal(t, uint(2), gotBlocked)
	})
}

func TestUnblockUser(t *testing.T) {
	ctx := context.Background()

	t.Run("cannot unblock yourself", func(t *testing.T) {
		svc := NewUserService(&userRepoStub{}, &blockRepoStub{})
		err := svc.UnblockUser(ctx, 1, 1)
		assertValidationError(t, err)
	})

	t.Run("unblock of absent block is fine", func(t *testing.T) {
		svc := NewUserService(&userRepoStub{}, &blockRepoStub{})
		assert.NoError(t, svc.UnblockUser(ctx, 1, 2))
	})
}
