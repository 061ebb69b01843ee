package repository

import (
	"context"

	"ripple/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlockRepository defines the interface for user block data operations
type BlockRepository interface {
	Block(ctx context.Context, blockerID, blockedID uint) (bool, error)
	Unblock(ctx context.Context, blockerID, blockedID uint) error
	IsBlockedEither(ctx context.Context, userA, userB uint) (bool, error)
	BlockedSet(ctx context.Context, userID uint) ([]uint, error)
}

type blockRepository struct {
	db *gorm.DB
}

// NewBlockRepository creates a new BlockRepository
func NewBlockRepository(db *gorm.DB) BlockRepository {
	return &blockRepository{db: db}
}

// Block records blocker blocking blocked. Returns false when the block
// already existed.
func (r *blockRepository) Block(ctx context.Context, blockerID, blockedID uint) (bool, error) {
	block := models.UserBlock{BlockerID: blockerID, BlockedID: blockedID}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "blocker_id"}, {Name: "blocked_id"}},
			DoNothing: true,
		}).
		Create(&block)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *blockRepository) Unblock(ctx context.Context, blockerID, blockedID uint) error {
	return r.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&models.UserBlock{}).Error
}

// IsBlockedEither reports whether a block exists in either direction between
// the two users.
func (r *blockRepository) IsBlockedEither(ctx context.Context, userA, userB uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UserBlock{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)",
			userA, userB, userB, userA).
		Count(&count).Error
	return count > 0, err
}

// BlockedSet returns every user id the given user has blocked or been blocked
// by. Thread listings exclude comments authored by anyone in this set.
func (r *blockRepository) BlockedSet(ctx context.Context, userID uint) ([]uint, error) {
	var blocked []uint
	err := r.db.WithContext(ctx).
		Model(&models.UserBlock{}).
		Where("blocker_id = ?", userID).
		Pluck("blocked_id", &blocked).Error
	if err != nil {
		return nil, err
	}

	var blockedBy []uint
	err = r.db.WithContext(ctx).
		Model(&models.UserBlock{}).
		Where("blocked_id = ?", userID).
		Pluck("blocker_id", &blockedBy).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]struct{}, len(blocked)+len(blockedBy))
	out := make([]uint, 0, len(blocked)+len(blockedBy))
	for _, id := range append(blocked, blockedBy...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
