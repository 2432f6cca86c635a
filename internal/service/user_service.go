package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"glimpse/internal/models"
	"glimpse/internal/repository"
)

// UserService resolves identities and profiles.
type UserService struct {
	userRepo     repository.UserRepository
	relationRepo repository.RelationRepository
}

type UpdateProfileInput struct {
	UserID   uint
	Username string
	Bio      string
	Avatar   string
}

func NewUserService(userRepo repository.UserRepository, relationRepo repository.RelationRepository) *UserService {
	return &UserService{userRepo: userRepo, relationRepo: relationRepo}
}

// EnsureUser maps an identity-provider subject to a local user, creating
// one on first sight. When the preferred username is taken by a different
// subject, a suffixed variant is used instead.
func (s *UserService) EnsureUser(ctx context.Context, externalID, preferredUsername string) (*models.User, error) {
	if strings.TrimSpace(externalID) == "" {
		return nil, models.NewUnauthorizedError("Missing subject")
	}

	username := normalizeUsername(preferredUsername)
	if username == "" {
		username = fmt.Sprintf("user-%s", shortSubject(externalID))
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ExternalID != externalID {
		username = fmt.Sprintf("%s-%s", username, shortSubject(externalID))
	}

	return s.userRepo.GetOrCreateByExternalID(ctx, externalID, username)
}

// GetProfile returns a user with post, follower and following counts,
// plus whether the viewer follows them.
func (s *UserService) GetProfile(ctx context.Context, userID, viewerID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	posts, err := s.userRepo.CountPosts(ctx, userID)
	if err != nil {
		return nil, err
	}
	followers, err := s.relationRepo.CountForTarget(ctx, models.RelationFollow, userID)
	if err != nil {
		return nil, err
	}
	following, err := s.relationRepo.CountForActor(ctx, models.RelationFollow, userID)
	if err != nil {
		return nil, err
	}

	user.PostsCount = int(posts)
	user.FollowersCount = int(followers)
	user.FollowingCount = int(following)

	if viewerID != 0 && viewerID != userID {
		isFollowing, err := s.relationRepo.Exists(ctx, models.RelationFollow, viewerID, userID)
		if err != nil {
			return nil, err
		}
		user.IsFollowing = isFollowing
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Username != "" {
		username := normalizeUsername(in.Username)
		if username == "" {
			return nil, models.NewValidationError("Invalid username")
		}
		user.Username = username
	}
	if utf8.RuneCountInString(in.Bio) > 500 {
		return nil, models.NewValidationError("Bio too long (max 500 characters)")
	}
	if in.Bio != "" {
		user.Bio = in.Bio
	}
	if in.Avatar != "" {
		user.Avatar = in.Avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// normalizeUsername lowercases and strips characters outside [a-z0-9_-].
func normalizeUsername(username string) string {
	lowered := strings.ToLower(strings.TrimSpace(username))
	var b strings.Builder
	for _, r := range lowered {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' || r == '.' {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if len(out) > 30 {
		out = out[:30]
	}
	return out
}

func shortSubject(externalID string) string {
	cleaned := normalizeUsername(externalID)
	if len(cleaned) > 8 {
		return cleaned[len(cleaned)-8:]
	}
	if cleaned == "" {
		return "unknown"
	}
	return cleaned
}
