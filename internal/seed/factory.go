// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"ripple/internal/models"
	"ripple/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db    *gorm.DB
	users repository.UserRepository
	rng   *rand.Rand
	// one bcrypt hash shared by every seeded user; hashing per user makes
	// large seeds unbearably slow
	passwordHash string
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) (*Factory, error) {
	gofakeit.Seed(time.Now().UnixNano())
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Factory{
		db:           db,
		users:        repository.NewUserRepository(db),
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		passwordHash: string(hash),
	}, nil
}

// pastTime returns a timestamp up to maxDays in the past.
func (f *Factory) pastTime(maxDays int) time.Time {
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.rng.Intn(maxDays))*24*time.Hour +
		time.Duration(f.rng.Intn(24))*time.Hour +
		time.Duration(f.rng.Intn(60))*time.Minute
	return time.Now().Add(-back)
}

// CreateUser persists a user with a fake profile. The username follows the
// handle grammar so seeded mentions resolve against real accounts.
func (f *Factory) CreateUser() (*models.User, error) {
	username := fmt.Sprintf("%s_%s%d",
		gofakeit.Word(), gofakeit.Word(), f.rng.Intn(1000))
	if len(username) > 30 {
		username = username[:30]
	}
	user := &models.User{
		Username:    username,
		DisplayName: gofakeit.Name(),
		AvatarURL:   fmt.Sprintf("https://i.pravatar.cc/300?u=%s", gofakeit.UUID()),
		Bio:         gofakeit.Sentence(8),
		Password:    f.passwordHash,
		CreatedAt:   f.pastTime(365),
	}
	if err := f.users.Create(context.Background(), user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost persists a post owned by the given user. Roughly one post in
// twenty has comments turned off.
func (f *Factory) CreatePost(user *models.User) (*models.Post, error) {
	post := &models.Post{
		UserID:        user.ID,
		Caption:       gofakeit.Sentence(10),
		AllowComments: f.rng.Intn(20) != 0,
		CreatedAt:     f.pastTime(90),
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment persists a comment, optionally as a reply to parent. The
// content sometimes carries an @mention of another seeded user.
func (f *Factory) CreateComment(post *models.Post, author *models.User, parent *models.Comment, mention *models.User) (*models.Comment, error) {
	content := gofakeit.Sentence(6 + f.rng.Intn(12))
	comment := &models.Comment{
		PostID:  post.ID,
		UserID:  author.ID,
		Content: content,
	}
	if mention != nil {
		comment.Content = fmt.Sprintf("@%s %s", mention.Username, content)
		comment.Mentions = []models.CommentMention{{
			Username: mention.Username,
			UserID:   &mention.ID,
			Position: 0,
		}}
	}
	if parent != nil {
		comment.ParentID = &parent.ID
		if parent.RootID != nil {
			comment.RootID = parent.RootID
		} else {
			comment.RootID = &parent.ID
		}
		comment.CreatedAt = parent.CreatedAt.Add(time.Duration(1+f.rng.Intn(600)) * time.Minute)
	} else {
		comment.CreatedAt = post.CreatedAt.Add(time.Duration(1+f.rng.Intn(2000)) * time.Minute)
	}
	if f.rng.Intn(10) == 0 {
		comment.MediaType = models.MediaTypeImage
		comment.MediaURL = fmt.Sprintf("https://picsum.photos/seed/%s/600/400", gofakeit.UUID())
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// LikeComment records a like, ignoring duplicates.
func (f *Factory) LikeComment(user *models.User, comment *models.Comment) error {
	like := &models.CommentLike{CommentID: comment.ID, UserID: user.ID}
	err := f.db.Create(like).Error
	if err != nil && isDuplicateError(err) {
		return nil
	}
	return err
}

// BlockUser records a directional block, ignoring duplicates.
func (f *Factory) BlockUser(blocker, blocked *models.User) error {
	block := &models.UserBlock{BlockerID: blocker.ID, BlockedID: blocked.ID}
	err := f.db.Create(block).Error
	if err != nil && isDuplicateError(err) {
		return nil
	}
	return err
}
