package service

import (
	"context"
	"errors"
	"strings"

	"ripple/internal/models"
	"ripple/internal/repository"

	"gorm.io/gorm"
)

const maxCaptionLen = 2000

// PostService handles the minimal post surface the comment system hangs off:
// creation, lookup, and the owner's comments on/off switch.
type PostService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	UserID        uint
	Caption       string
	AllowComments *bool
}

// NewPostService creates a new PostService
func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	caption := strings.TrimSpace(in.Caption)
	if caption == "" {
		return nil, models.NewValidationError("Caption is required")
	}
	if len(caption) > maxCaptionLen {
		return nil, models.NewValidationError("Caption too long (max 2000 characters)")
	}

	post := &models.Post{
		UserID:        in.UserID,
		Caption:       caption,
		AllowComments: true,
	}
	if in.AllowComments != nil {
		post.AllowComments = *in.AllowComments
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, err
	}
	return post, nil
}

// SetAllowComments flips the post's comments switch. Owner only. Existing
// comments stay visible when comments are disabled; only creation stops.
func (s *PostService) SetAllowComments(ctx context.Context, userID, postID uint, allow bool) (*models.Post, error) {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, models.NewForbiddenError("Only the post owner can change this setting")
	}
	if err := s.postRepo.SetAllowComments(ctx, postID, allow); err != nil {
		return nil, err
	}
	return s.GetPost(ctx, postID)
}
