package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"ripple/internal/models"
	"ripple/internal/observability"
	"ripple/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

const maxCommentLen = 10000

// Thread page bounds.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 50
)

// CommentService composes the comment read and write paths: creation with
// mention parsing, paginated thread listing, subtree deletion, like toggles,
// edits, and reports.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	blockRepo   repository.BlockRepository
	reportRepo  repository.ReportRepository
}

// MediaInput is a client-supplied media attachment descriptor.
type MediaInput struct {
	Type     string          `json:"type"`
	URL      string          `json:"url"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

type CreateCommentInput struct {
	UserID   uint
	PostID   uint
	Content  string
	ParentID *uint
	Media    *MediaInput
	Mentions []MentionInput
}

// UpdateCommentInput mutates content, media, and mentions only. Parent and
// root linkage are fixed at creation. Nil pointer fields mean "keep the
// current value"; ClearMedia removes an existing attachment. A nil Mentions
// keeps the stored mentions as the extraction seed, so client-resolved user
// ids survive an edit that only touches content.
type UpdateCommentInput struct {
	UserID     uint
	PostID     uint
	CommentID  uint
	Content    *string
	Media      *MediaInput
	ClearMedia bool
	Mentions   *[]MentionInput
}

type ListCommentsInput struct {
	ViewerID uint
	PostID   uint
	Page     int
	Limit    int
	ParentID *uint
}

// NewCommentService creates a new CommentService
func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	blockRepo repository.BlockRepository,
	reportRepo repository.ReportRepository,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		blockRepo:   blockRepo,
		reportRepo:  reportRepo,
	}
}

func validateMedia(media *MediaInput) error {
	if media.Type != models.MediaTypeImage && media.Type != models.MediaTypeVideo {
		return models.NewValidationError("Media type must be image or video")
	}
	if strings.TrimSpace(media.URL) == "" {
		return models.NewValidationError("Media URL is required")
	}
	return nil
}

// resolvePost loads the post and enforces the block relationship between the
// viewer and the post owner.
func (s *CommentService) resolvePost(ctx context.Context, viewerID, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}
	if viewerID != post.UserID {
		blocked, err := s.blockRepo.IsBlockedEither(ctx, viewerID, post.UserID)
		if err != nil {
			return nil, err
		}
		if blocked {
			return nil, models.NewForbiddenError("You cannot interact with this post")
		}
	}
	return post, nil
}

func (s *CommentService) getComment(ctx context.Context, postID, commentID uint) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, postID, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", commentID)
		}
		return nil, err
	}
	return comment, nil
}

// CreateComment validates the input against the owning post, resolves the
// parent linkage for replies, extracts mentions, and inserts the comment.
// The returned comment carries zeroed engagement counts; a fresh row cannot
// have replies or likes yet.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	post, err := s.resolvePost(ctx, in.UserID, in.PostID)
	if err != nil {
		return nil, err
	}
	if !post.AllowComments {
		return nil, models.NewForbiddenError("Comments are disabled on this post")
	}

	content := strings.TrimSpace(in.Content)
	if content == "" && in.Media == nil {
		return nil, models.NewValidationError("Content or media is required")
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}
	if in.Media != nil {
		if err := validateMedia(in.Media); err != nil {
			return nil, err
		}
	}

	comment := &models.Comment{
		PostID:   in.PostID,
		UserID:   in.UserID,
		Content:  content,
		Mentions: ExtractMentions(content, in.Mentions),
	}
	if in.Media != nil {
		comment.MediaType = in.Media.Type
		comment.MediaURL = in.Media.URL
		comment.MediaMeta = string(in.Media.Metadata)
	}

	if in.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, in.PostID, *in.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("Parent comment", *in.ParentID)
			}
			return nil, err
		}
		comment.ParentID = &parent.ID
		if parent.RootID != nil {
			comment.RootID = parent.RootID
		} else {
			comment.RootID = &parent.ID
		}
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.getComment(ctx, in.PostID, comment.ID)
}

// ListComments returns one page of a post's thread: top-level comments when
// ParentID is nil, otherwise the direct replies of that parent. Each item
// carries its reply count, like count, and whether the viewer liked it, all
// batch-computed for the page. Comments by users the viewer blocks or is
// blocked by are excluded.
func (s *CommentService) ListComments(ctx context.Context, in ListCommentsInput) (*models.CommentPage, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit == 0 {
		limit = DefaultPageLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	if _, err := s.resolvePost(ctx, in.ViewerID, in.PostID); err != nil {
		return nil, err
	}

	blockedSet, err := s.blockRepo.BlockedSet(ctx, in.ViewerID)
	if err != nil {
		return nil, err
	}

	// Fetch limit+1 rows so hasMore needs no second count query.
	items, err := s.commentRepo.ListPage(ctx, repository.ListCommentsParams{
		PostID:         in.PostID,
		ParentID:       in.ParentID,
		ExcludeAuthors: blockedSet,
		Limit:          limit + 1,
		Offset:         (page - 1) * limit,
	})
	if err != nil {
		return nil, err
	}

	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	if err := s.annotate(ctx, in.ViewerID, in.PostID, blockedSet, items); err != nil {
		return nil, err
	}

	return &models.CommentPage{
		Page:    page,
		Limit:   limit,
		HasMore: hasMore,
		Items:   items,
	}, nil
}

// annotate fills the computed fields of a page of comments with three batch
// queries, keeping query count constant regardless of page size.
func (s *CommentService) annotate(ctx context.Context, viewerID, postID uint, blockedSet []uint, items []*models.Comment) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]uint, len(items))
	for i, c := range items {
		ids[i] = c.ID
	}

	replyCounts, err := s.commentRepo.ReplyCounts(ctx, postID, ids, blockedSet)
	if err != nil {
		return err
	}
	likeCounts, err := s.commentRepo.LikeCounts(ctx, ids)
	if err != nil {
		return err
	}
	likedSet, err := s.commentRepo.LikedSet(ctx, viewerID, ids)
	if err != nil {
		return err
	}

	for _, c := range items {
		c.ReplyCount = replyCounts[c.ID]
		c.LikeCount = likeCounts[c.ID]
		c.Liked = likedSet[c.ID]
		c.NormalizeMedia()
	}
	return nil
}

// UpdateComment edits content, media, and mentions. Author only: the post
// owner can delete any comment on their post but cannot edit one. Omitted
// fields keep their current values; mentions are re-extracted from the merged
// content. The returned comment carries freshly queried engagement counts.
func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.getComment(ctx, in.PostID, in.CommentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != in.UserID {
		return nil, models.NewForbiddenError("Only the author can edit this comment")
	}

	content := comment.Content
	if in.Content != nil {
		content = strings.TrimSpace(*in.Content)
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	if in.ClearMedia {
		comment.MediaType = ""
		comment.MediaURL = ""
		comment.MediaMeta = ""
	} else if in.Media != nil {
		if err := validateMedia(in.Media); err != nil {
			return nil, err
		}
		comment.MediaType = in.Media.Type
		comment.MediaURL = in.Media.URL
		comment.MediaMeta = string(in.Media.Metadata)
	}

	if content == "" && !comment.HasMedia() {
		return nil, models.NewValidationError("Content or media is required")
	}

	seed := mentionSeed(comment.Mentions)
	if in.Mentions != nil {
		seed = *in.Mentions
	}
	comment.Content = content
	comment.Mentions = ExtractMentions(content, seed)

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	updated, err := s.getComment(ctx, in.PostID, in.CommentID)
	if err != nil {
		return nil, err
	}
	blockedSet, err := s.blockRepo.BlockedSet(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.annotate(ctx, in.UserID, in.PostID, blockedSet, []*models.Comment{updated}); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteComment soft-deletes a comment and every reply beneath it. Permitted
// for the comment's author and for the post's owner, who may remove any
// comment on their post. Returns the number of comments removed.
func (s *CommentService) DeleteComment(ctx context.Context, userID, postID, commentID uint) (int64, error) {
	span, ctx := observability.NewSpan(ctx, "comment.delete_subtree")
	defer span.End()

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, models.NewNotFoundError("Post", postID)
		}
		return 0, err
	}
	comment, err := s.getComment(ctx, postID, commentID)
	if err != nil {
		return 0, err
	}
	if userID != post.UserID && userID != comment.UserID {
		return 0, models.NewForbiddenError("You cannot delete this comment")
	}

	ids, err := s.commentRepo.DescendantIDs(ctx, postID, commentID)
	if err != nil {
		span.SetError(err)
		return 0, err
	}
	count, err := s.commentRepo.SoftDeleteSubtree(ctx, postID, ids)
	if err != nil {
		span.SetError(err)
		return 0, err
	}

	span.AddAttributes(
		attribute.Int("comment.subtree_size", len(ids)),
		attribute.Int64("comment.deleted", count),
	)
	return count, nil
}

// LikeComment records the viewer's like. A repeat like is a no-op; created
// reports whether this call inserted the pairing. The returned count is
// re-queried rather than tracked incrementally, so concurrent toggles cannot
// make it drift.
func (s *CommentService) LikeComment(ctx context.Context, userID, postID, commentID uint) (created bool, count int64, err error) {
	comment, err := s.getComment(ctx, postID, commentID)
	if err != nil {
		return false, 0, err
	}
	if userID != comment.UserID {
		blocked, err := s.blockRepo.IsBlockedEither(ctx, userID, comment.UserID)
		if err != nil {
			return false, 0, err
		}
		if blocked {
			return false, 0, models.NewForbiddenError("You cannot interact with this comment")
		}
	}

	created, err = s.commentRepo.Like(ctx, userID, commentID)
	if err != nil {
		return false, 0, err
	}
	count, err = s.commentRepo.LikeCount(ctx, commentID)
	if err != nil {
		return false, 0, err
	}
	return created, count, nil
}

// UnlikeComment removes the viewer's like if present and returns the fresh
// count. Unliking a comment that was never liked is not an error. The block
// check mirrors LikeComment: a blocked pair cannot toggle either way.
func (s *CommentService) UnlikeComment(ctx context.Context, userID, postID, commentID uint) (int64, error) {
	comment, err := s.getComment(ctx, postID, commentID)
	if err != nil {
		return 0, err
	}
	if userID != comment.UserID {
		blocked, err := s.blockRepo.IsBlockedEither(ctx, userID, comment.UserID)
		if err != nil {
			return 0, err
		}
		if blocked {
			return 0, models.NewForbiddenError("You cannot interact with this comment")
		}
	}
	if err := s.commentRepo.Unlike(ctx, userID, commentID); err != nil {
		return 0, err
	}
	return s.commentRepo.LikeCount(ctx, commentID)
}

// ReportComment files a report against a comment. A reporter gets one open
// report per comment; repeats are absorbed and reported as created=false.
func (s *CommentService) ReportComment(ctx context.Context, userID, postID, commentID uint, reason string) (bool, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return false, models.NewValidationError("Report reason is required")
	}
	if _, err := s.getComment(ctx, postID, commentID); err != nil {
		return false, err
	}
	return s.reportRepo.Create(ctx, &models.CommentReport{
		ReporterID: userID,
		PostID:     postID,
		CommentID:  commentID,
		Reason:     reason,
	})
}
