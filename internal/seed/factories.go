// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"glimpse/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

var captionThemes = []string{
	"golden hour at %s",
	"finally made it to %s",
	"weekend wandering around %s",
	"%s never disappoints",
	"tiny moments in %s",
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	username := strings.ToLower(gofakeit.Username()) + fmt.Sprintf("%d", gofakeit.Number(100, 999))
	user := &models.User{
		ExternalID: "seed|" + gofakeit.UUID(),
		Username:   username,
		Bio:        gofakeit.Sentence(8),
		Avatar:     fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("seed user: %w", err)
	}
	return user, nil
}

// CreatePost constructs and persists a sample post for the given user,
// with a created_at spread over the last maxDays days.
func (f *Factory) CreatePost(user *models.User, maxDays int, overrides ...func(*models.Post)) (*models.Post, error) {
	if maxDays <= 0 {
		maxDays = 90
	}
	theme := captionThemes[f.rng.Intn(len(captionThemes))]
	post := &models.Post{
		UserID:   user.ID,
		ImageURL: fmt.Sprintf("https://picsum.photos/seed/%s/1080/1080", gofakeit.UUID()),
		Caption:  fmt.Sprintf(theme, gofakeit.City()),
	}

	back := time.Duration(f.rng.Intn(maxDays*24*60)) * time.Minute
	post.CreatedAt = time.Now().Add(-back)

	for _, override := range overrides {
		override(post)
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, fmt.Errorf("seed post: %w", err)
	}
	return post, nil
}

// CreateComment persists a comment; pass a nil parent for a root comment.
func (f *Factory) CreateComment(user *models.User, post *models.Post, parent *models.Comment) (*models.Comment, error) {
	comment := &models.Comment{
		PostID:  post.ID,
		UserID:  user.ID,
		Content: gofakeit.Sentence(f.rng.Intn(12) + 3),
	}
	if parent != nil {
		comment.ParentID = &parent.ID
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, fmt.Errorf("seed comment: %w", err)
	}
	return comment, nil
}

// LikePost records a like, ignoring duplicates.
func (f *Factory) LikePost(user *models.User, post *models.Post) error {
	like := &models.Like{UserID: user.ID, PostID: post.ID}
	if err := f.db.Where("user_id = ? AND post_id = ?", user.ID, post.ID).
		FirstOrCreate(like).Error; err != nil {
		return fmt.Errorf("seed like: %w", err)
	}
	return nil
}

// Follow records a follow edge, ignoring duplicates and self-follows.
func (f *Factory) Follow(follower, following *models.User) error {
	if follower.ID == following.ID {
		return nil
	}
	follow := &models.Follow{FollowerID: follower.ID, FollowingID: following.ID}
	if err := f.db.Where("follower_id = ? AND following_id = ?", follower.ID, following.ID).
		FirstOrCreate(follow).Error; err != nil {
		return fmt.Errorf("seed follow: %w", err)
	}
	return nil
}

// BookmarkPost records a bookmark, ignoring duplicates.
func (f *Factory) BookmarkPost(user *models.User, post *models.Post) error {
	bookmark := &models.Bookmark{UserID: user.ID, PostID: post.ID}
	if err := f.db.Where("user_id = ? AND post_id = ?", user.ID, post.ID).
		FirstOrCreate(bookmark).Error; err != nil {
		return fmt.Errorf("seed bookmark: %w", err)
	}
	return nil
}
