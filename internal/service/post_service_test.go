package service

import (
	"context"
	"strings"
	"testing"

	"ripple/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreatePost(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a caption", func(t *testing.T) {
		svc := NewPostService(&postRepoStub{})
		_, err := svc.CreatePost(ctx, CreatePostInput{UserID: 1, Caption: "   "})
		assertValidationError(t, err)
	})

	t.Run("rejects an oversized caption", func(t *testing.T) {
		svc := NewPostService(&postRepoStub{})
		_, err := svc.CreatePost(ctx, CreatePostInput{
			UserID:  1,
			Caption: strings.Repeat("a", maxCaptionLen+1),
		})
		assertValidationError(t, err)
	})

	t.Run("comments default to enabled", func(t *testing.T) {
		var created *models.Post
		posts := &postRepoStub{
			createFn: func(ctx context.Context, p *models.Post) error {
				p.ID = 1
				created = p
				return nil
			},
		}
		svc := NewPostService(posts)
		_, err := svc.CreatePost(ctx, CreatePostInput{UserID: 1, Caption: "hello"})
		require.NoError(t, err)
		assert.True(t, created.AllowComments)
	})

	t.Run("honors an explicit comments setting", func(t *testing.T) {
		var created *models.Post
		posts := &postRepoStub{
			createFn: func(ctx context.Context, p *models.Post) error {
				p.ID = 1
				created = p
				return nil
			},
		}
		svc := NewPostService(posts)
		off := false
		_, err := svc.CreatePost(ctx, CreatePostInput{UserID: 1, Caption: "hello", AllowComments: &off})
		require.NoError(t, err)
		assert.False(t, created.AllowComments)
	})
}

func TestSetAllowComments(t *testing.T) {
	ctx := context.Background()

	t.Run("owner only", func(t *testing.T) {
		svc := NewPostService(&postRepoStub{})
		_, err := svc.SetAllowComments(ctx, 2, 1, false)
		assertForbiddenError(t, err)
	})

	t.Run("owner can toggle", func(t *testing.T) {
		var setTo *bool
		posts := &postRepoStub{
			setAllowCommentsFn: func(ctx context.Context, id uint, allow bool) error {
				setTo = &allow
				return nil
			},
		}
		svc := NewPostService(posts)
		_, err := svc.SetAllowComments(ctx, 100, 1, false)
		require.NoError(t, err)
		require.NotNil(t, setTo)
		assert.False(t, *setTo)
	})

	t.Run("missing post is not found", func(t *testing.T) {
		posts := &postRepoStub{getByIDFn: func(ctx context.Context, id uint) (*models.Post, error) {
			return nil, gorm.ErrRecordNotFound
		}}
		svc := NewPostService(posts)
		_, err := svc.SetAllowComments(ctx, 1, 9, true)
		assertNotFoundError(t, err)
	})
}
