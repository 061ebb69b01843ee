// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"ripple/internal/cache"
	"ripple/internal/models"
	"ripple/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListCommentsParams narrows a thread page query.
type ListCommentsParams struct {
	PostID uint
	// ParentID nil means top-level comments only (parent_id IS NULL).
	ParentID *uint
	// ExcludeAuthors removes comments authored by these users (block set).
	ExcludeAuthors []uint
	Limit          int
	Offset         int
}

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, postID, id uint) (*models.Comment, error)
	ListPage(ctx context.Context, p ListCommentsParams) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error

	ReplyCounts(ctx context.Context, postID uint, parentIDs, excludeAuthors []uint) (map[uint]int64, error)
	LikeCounts(ctx context.Context, commentIDs []uint) (map[uint]int64, error)
	LikedSet(ctx context.Context, userID uint, commentIDs []uint) (map[uint]bool, error)

	Like(ctx context.Context, userID, commentID uint) (bool, error)
	Unlike(ctx context.Context, userID, commentID uint) error
	LikeCount(ctx context.Context, commentID uint) (int64, error)

	DescendantIDs(ctx context.Context, postID, commentID uint) ([]uint, error)
	SoftDeleteSubtree(ctx context.Context, postID uint, ids []uint) (int64, error)
}

type commentRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db, log: observability.NewRepoLogger("comments")}
}

func orderedMentions(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// Create inserts the comment (with its mention rows) and bumps the owning
// post's comment counter in the same transaction.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", comment.PostID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + 1")).Error
	})
	if err != nil {
		r.log.LogError(ctx, err, "create")
		return err
	}
	cache.InvalidatePost(ctx, comment.PostID)
	return nil
}

// GetByID returns the live comment scoped to the given post, with its author
// and ordered mentions loaded.
func (r *commentRepository) GetByID(ctx context.Context, postID, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Mentions", orderedMentions).
		Where("post_id = ?", postID).
		First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListPage returns one page of a thread in stable chronological order
// (created_at ASC, id ASC). Soft-deleted rows are excluded by the default
// scope; blocked authors are excluded here so pagination stays correct.
func (r *commentRepository) ListPage(ctx context.Context, p ListCommentsParams) ([]*models.Comment, error) {
	defer observability.TrackQuery("list", "comments")()

	q := r.db.WithContext(ctx).
		Preload("User").
		Preload("Mentions", orderedMentions).
		Where("post_id = ?", p.PostID)

	if p.ParentID != nil {
		q = q.Where("parent_id = ?", *p.ParentID)
	} else {
		q = q.Where("parent_id IS NULL")
	}
	if len(p.ExcludeAuthors) > 0 {
		q = q.Where("user_id NOT IN ?", p.ExcludeAuthors)
	}

	var comments []*models.Comment
	err := q.Order("created_at ASC, id ASC").
		Limit(p.Limit).
		Offset(p.Offset).
		Find(&comments).Error
	return comments, err
}

// Update persists content/media changes and replaces the mention rows in one
// transaction. Parent and root links are never written here.
func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", comment.ID).
			Delete(&models.CommentMention{}).Error; err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(comment).Error; err != nil {
			return err
		}
		if len(comment.Mentions) == 0 {
			return nil
		}
		for i := range comment.Mentions {
			comment.Mentions[i].ID = 0
			comment.Mentions[i].CommentID = comment.ID
		}
		return tx.Create(&comment.Mentions).Error
	})
	if err != nil {
		r.log.LogError(ctx, err, "update")
	}
	return err
}

type countRow struct {
	GroupID uint  `gorm:"column:group_id"`
	N       int64 `gorm:"column:n"`
}

// ReplyCounts returns the number of live direct replies per parent id,
// skipping replies authored by excluded (blocked) users.
func (r *commentRepository) ReplyCounts(ctx context.Context, postID uint, parentIDs, excludeAuthors []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(parentIDs))
	if len(parentIDs) == 0 {
		return counts, nil
	}

	q := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Select("parent_id AS group_id, COUNT(*) AS n").
		Where("post_id = ? AND parent_id IN ?", postID, parentIDs)
	if len(excludeAuthors) > 0 {
		q = q.Where("user_id NOT IN ?", excludeAuthors)
	}

	var rows []countRow
	if err := q.Group("parent_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.GroupID] = row.N
	}
	return counts, nil
}

// LikeCounts returns like totals per comment id.
func (r *commentRepository) LikeCounts(ctx context.Context, commentIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(commentIDs))
	if len(commentIDs) == 0 {
		return counts, nil
	}

	var rows []countRow
	err := r.db.WithContext(ctx).
		Model(&models.CommentLike{}).
		Select("comment_id AS group_id, COUNT(*) AS n").
		Where("comment_id IN ?", commentIDs).
		Group("comment_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.GroupID] = row.N
	}
	return counts, nil
}

// LikedSet returns which of the given comments the user has liked.
func (r *commentRepository) LikedSet(ctx context.Context, userID uint, commentIDs []uint) (map[uint]bool, error) {
	liked := make(map[uint]bool, len(commentIDs))
	if len(commentIDs) == 0 {
		return liked, nil
	}

	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.CommentLike{}).
		Where("user_id = ? AND comment_id IN ?", userID, commentIDs).
		Pluck("comment_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

// Like inserts the (comment, user) pairing if absent. The unique index plus
// ON CONFLICT DO NOTHING make concurrent double-clicks safe without locking.
// Returns false when the pairing already existed.
func (r *commentRepository) Like(ctx context.Context, userID, commentID uint) (bool, error) {
	like := models.CommentLike{CommentID: commentID, UserID: userID}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "comment_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&like)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Unlike removes the pairing. Deleting a non-existent pairing is not an error.
func (r *commentRepository) Unlike(ctx context.Context, userID, commentID uint) error {
	return r.db.WithContext(ctx).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Delete(&models.CommentLike{}).Error
}

// LikeCount re-queries the like total for a single comment.
func (r *commentRepository) LikeCount(ctx context.Context, commentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CommentLike{}).
		Where("comment_id = ?", commentID).
		Count(&count).Error
	return count, err
}

// DescendantIDs walks the reply tree breadth-first, re-querying the store per
// level. The returned set includes commentID itself. Replies created while
// the walk runs may or may not be picked up; this is a best-effort sweep, not
// a snapshot. The visited set guards against revisits.
func (r *commentRepository) DescendantIDs(ctx context.Context, postID, commentID uint) ([]uint, error) {
	defer observability.TrackQuery("descendants", "comments")()

	all := []uint{commentID}
	visited := map[uint]struct{}{commentID: {}}
	frontier := []uint{commentID}

	for len(frontier) > 0 {
		var next []uint
		err := r.db.WithContext(ctx).
			Model(&models.Comment{}).
			Where("post_id = ? AND parent_id IN ?", postID, frontier).
			Pluck("id", &next).Error
		if err != nil {
			return nil, err
		}

		frontier = frontier[:0]
		for _, id := range next {
			if _, ok := visited[id]; ok {
				continue
			}
			visited[id] = struct{}{}
			all = append(all, id)
			frontier = append(frontier, id)
		}
	}
	return all, nil
}

// SoftDeleteSubtree soft-deletes every still-live row in ids, removes their
// like rows, and decrements the post counter by the number of rows that
// actually transitioned (not the requested set, to stay correct under races).
// All three run in one transaction.
func (r *commentRepository) SoftDeleteSubtree(ctx context.Context, postID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	defer observability.TrackQuery("delete_subtree", "comments")()

	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND id IN ?", postID, ids).
			Delete(&models.Comment{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected

		if err := tx.Where("comment_id IN ?", ids).
			Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}

		if deleted == 0 {
			return nil
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn("comments_count", gorm.Expr("comments_count - ?", deleted)).Error
	})
	if err != nil {
		r.log.LogError(ctx, err, "delete_subtree")
		return 0, err
	}

	if deleted > 0 {
		observability.SubtreeSweepSize.Observe(float64(deleted))
		r.log.LogMutation(ctx, "delete_subtree", map[string]interface{}{
			"post_id": postID,
			"count":   deleted,
		})
		cache.InvalidatePost(ctx, postID)
	}
	return deleted, nil
}
