package service

import (
	"context"
	"net/url"
	"strings"
	"unicode/utf8"

	"glimpse/internal/models"
	"glimpse/internal/repository"
)

const maxCaptionLen = 2200

// PostService creates and deletes posts. Reads go through FeedService.
type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

type CreatePostInput struct {
	UserID   uint
	ImageURL string
	Caption  string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{postRepo: postRepo, userRepo: userRepo}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	imageURL := strings.TrimSpace(in.ImageURL)
	if imageURL == "" {
		return nil, models.NewValidationError("image_url is required")
	}
	if utf8.RuneCountInString(in.Caption) > maxCaptionLen {
		return nil, models.NewValidationError("Caption too long (max 2200 characters)")
	}

	post := &models.Post{
		UserID:    in.UserID,
		ImageURL:  imageURL,
		ImageHash: extractImageHash(imageURL),
		Caption:   strings.TrimSpace(in.Caption),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	if user, err := s.userRepo.GetByID(ctx, in.UserID); err == nil {
		post.User = user
	}
	post.Comments = []*models.Comment{}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return err
	}
	if post.UserID != in.UserID {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, in.PostID)
}

// extractImageHash pulls the content hash out of a media URL so posts can
// reference the stored image row.
func extractImageHash(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return ""
	}

	path := trimmed
	if parsed, err := url.Parse(trimmed); err == nil && parsed.Path != "" {
		path = parsed.Path
	}

	if strings.HasPrefix(path, "/media/i/") {
		parts := strings.Split(strings.TrimPrefix(path, "/media/i/"), "/")
		if len(parts) > 0 && isLikelySHA256(parts[0]) {
			return parts[0]
		}
	}
	return ""
}

func isLikelySHA256(v string) bool {
	if len(v) != 64 {
		return false
	}
	for _, r := range v {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
