package service

import (
	"context"
	"strings"

	"glimpse/internal/models"
	"glimpse/internal/repository"
)

// SearchService runs substring searches across users and posts.
type SearchService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
	feed     *FeedService
}

type SearchInput struct {
	Query    string
	Type     string // "users", "posts" or "all"
	ViewerID uint
	Limit    int
	Offset   int
}

// SearchResult always carries both result sets; a type filter leaves the
// other set as an empty array with a zero count, never absent.
type SearchResult struct {
	Users      []*models.User `json:"users"`
	UsersCount int64          `json:"users_count"`
	Posts      []*models.Post `json:"posts"`
	PostsCount int64          `json:"posts_count"`
}

func NewSearchService(userRepo repository.UserRepository, postRepo repository.PostRepository, feed *FeedService) *SearchService {
	return &SearchService{userRepo: userRepo, postRepo: postRepo, feed: feed}
}

func (s *SearchService) Search(ctx context.Context, in SearchInput) (*SearchResult, error) {
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}

	searchType := in.Type
	if searchType == "" {
		searchType = "all"
	}
	if searchType != "users" && searchType != "posts" && searchType != "all" {
		return nil, models.NewValidationError("Invalid search type")
	}

	result := &SearchResult{
		Users: []*models.User{},
		Posts: []*models.Post{},
	}

	if searchType == "users" || searchType == "all" {
		users, total, err := s.userRepo.Search(ctx, query, in.Limit, in.Offset)
		if err != nil {
			return nil, err
		}
		result.Users = users
		result.UsersCount = total
	}

	if searchType == "posts" || searchType == "all" {
		posts, total, err := s.postRepo.Search(ctx, query, in.Limit, in.Offset)
		if err != nil {
			return nil, err
		}
		if s.feed != nil {
			if err := s.feed.enrichPosts(ctx, posts, in.ViewerID); err != nil {
				return nil, err
			}
		}
		result.Posts = posts
		result.PostsCount = total
	}

	return result, nil
}
