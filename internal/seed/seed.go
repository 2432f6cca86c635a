package seed

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"glimpse/internal/models"

	"gorm.io/gorm"
)

// Options configures a seeding run.
type Options struct {
	NumUsers    int
	NumPosts    int
	MaxDays     int
	ShouldClean bool
}

// DefaultOptions are sized for a usable local demo feed.
func DefaultOptions() Options {
	return Options{
		NumUsers: 20,
		NumPosts: 120,
		MaxDays:  60,
	}
}

// Run populates the database with a social mesh: users, posts, comment
// threads, likes, follows and bookmarks. It is idempotent enough for
// repeated local runs; pass ShouldClean to start from empty tables.
func Run(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = DefaultOptions().NumUsers
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = DefaultOptions().NumPosts
	}

	if opts.ShouldClean {
		if err := clean(db); err != nil {
			return err
		}
	}

	factory := NewFactory(db)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return err
		}
		users = append(users, user)
	}
	slog.Info("seeded users", "count", len(users))

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[rng.Intn(len(users))]
		post, err := factory.CreatePost(author, opts.MaxDays)
		if err != nil {
			return err
		}
		posts = append(posts, post)
	}
	slog.Info("seeded posts", "count", len(posts))

	// Follow mesh: everyone follows a handful of others.
	for _, follower := range users {
		for i := 0; i < 3+rng.Intn(5); i++ {
			if err := factory.Follow(follower, users[rng.Intn(len(users))]); err != nil {
				return err
			}
		}
	}

	// Likes, bookmarks and two-level comment threads.
	for _, post := range posts {
		for i := 0; i < rng.Intn(8); i++ {
			if err := factory.LikePost(users[rng.Intn(len(users))], post); err != nil {
				return err
			}
		}
		if rng.Intn(4) == 0 {
			if err := factory.BookmarkPost(users[rng.Intn(len(users))], post); err != nil {
				return err
			}
		}
		for i := 0; i < rng.Intn(4); i++ {
			root, err := factory.CreateComment(users[rng.Intn(len(users))], post, nil)
			if err != nil {
				return err
			}
			for j := 0; j < rng.Intn(3); j++ {
				if _, err := factory.CreateComment(users[rng.Intn(len(users))], post, root); err != nil {
					return err
				}
			}
		}
	}

	slog.Info("seeding complete", "users", len(users), "posts", len(posts))
	return nil
}

// clean removes all seeded domain data. Hard deletes on purpose; this is
// a development helper, not a production path.
func clean(db *gorm.DB) error {
	tables := []any{
		&models.Like{}, &models.Bookmark{}, &models.Follow{},
		&models.Comment{}, &models.Post{}, &models.Image{}, &models.User{},
	}
	for _, table := range tables {
		if err := db.Unscoped().Where("1 = 1").Delete(table).Error; err != nil {
			return fmt.Errorf("clean table %T: %w", table, err)
		}
	}
	return nil
}
