package seed

import (
	"log"
	"strings"

	"ripple/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seeder populates the database with a realistic comment graph: users,
// posts, nested reply threads, likes, and a sprinkling of blocks.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the given DB.
func NewSeeder(db *gorm.DB) (*Seeder, error) {
	factory, err := NewFactory(db)
	if err != nil {
		return nil, err
	}
	return &Seeder{db: db, factory: factory}, nil
}

// ClearAll removes all seeded data. Order matters for foreign keys.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	for _, model := range []interface{}{
		&models.CommentReport{},
		&models.CommentLike{},
		&models.CommentMention{},
		&models.Comment{},
		&models.UserBlock{},
		&models.Post{},
		&models.User{},
	} {
		if err := s.db.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// Run seeds the database per the given options.
func (s *Seeder) Run(opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 50
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = 200
	}

	log.Printf("Seeding %d users...", opts.NumUsers)
	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			// unique collisions on generated usernames are rare; skip them
			if isDuplicateError(err) {
				continue
			}
			return err
		}
		users = append(users, user)
	}
	if len(users) < 2 {
		log.Println("Not enough users seeded, skipping content")
		return nil
	}

	pick := func() *models.User {
		return users[s.factory.rng.Intn(len(users))]
	}

	log.Printf("Seeding %d posts with comment threads...", opts.NumPosts)
	totalComments := 0
	for i := 0; i < opts.NumPosts; i++ {
		post, err := s.factory.CreatePost(pick())
		if err != nil {
			return err
		}
		if !post.AllowComments {
			continue
		}

		// a handful of top-level comments, each with a chance of a reply
		// chain a few levels deep
		numTop := s.factory.rng.Intn(6)
		for j := 0; j < numTop; j++ {
			var mention *models.User
			if s.factory.rng.Intn(4) == 0 {
				mention = pick()
			}
			top, err := s.factory.CreateComment(post, pick(), nil, mention)
			if err != nil {
				return err
			}
			totalComments++

			parent := top
			depth := s.factory.rng.Intn(4)
			for d := 0; d < depth; d++ {
				reply, err := s.factory.CreateComment(post, pick(), parent, nil)
				if err != nil {
					return err
				}
				totalComments++
				parent = reply
			}

			// likes on the top-level comment
			for k := 0; k < s.factory.rng.Intn(5); k++ {
				if err := s.factory.LikeComment(pick(), top); err != nil {
					return err
				}
			}
		}

		// counter was bypassed by direct factory inserts; fix it up
		if err := s.syncCommentsCount(post.ID); err != nil {
			return err
		}
	}

	log.Println("Seeding a few blocks...")
	for i := 0; i < len(users)/10; i++ {
		a, b := pick(), pick()
		if a.ID == b.ID {
			continue
		}
		if err := s.factory.BlockUser(a, b); err != nil {
			return err
		}
	}

	log.Printf("Done: %d users, %d posts, %d comments", len(users), opts.NumPosts, totalComments)
	return nil
}

func (s *Seeder) syncCommentsCount(postID uint) error {
	var count int64
	if err := s.db.Model(&models.Comment{}).
		Where("post_id = ?", postID).
		Count(&count).Error; err != nil {
		return err
	}
	return s.db.Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("comments_count", count).Error
}

// isDuplicateError reports whether err came from a unique constraint.
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique failed")
}
