package service

import (
	"context"
	"testing"

	"glimpse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchService_Validation(t *testing.T) {
	t.Parallel()

	svc := NewSearchService(noopUserRepo(), noopPostRepo(), nil)
	ctx := context.Background()

	_, err := svc.Search(ctx, SearchInput{Query: "  "})
	assertValidationError(t, err)

	_, err = svc.Search(ctx, SearchInput{Query: "x", Type: "hashtags"})
	assertValidationError(t, err)
}

func TestSearchService_UsersOnly(t *testing.T) {
	t.Parallel()

	users := noopUserRepo()
	users.searchFn = func(_ context.Context, query string, _, _ int) ([]*models.User, int64, error) {
		assert.Equal(t, "alice", query)
		return []*models.User{{ID: 1, Username: "alice"}}, 1, nil
	}
	posts := noopPostRepo()
	posts.searchFn = func(_ context.Context, _ string, _, _ int) ([]*models.Post, int64, error) {
		t.Fatal("posts must not be searched for type=users")
		return nil, 0, nil
	}

	svc := NewSearchService(users, posts, nil)
	result, err := svc.Search(context.Background(), SearchInput{Query: "alice", Type: "users", Limit: 10})
	require.NoError(t, err)
	require.Len(t, result.Users, 1)
	assert.Equal(t, int64(1), result.UsersCount)
	require.NotNil(t, result.Posts)
	assert.Empty(t, result.Posts)
	assert.Zero(t, result.PostsCount)
}

func TestSearchService_AllEnrichesPosts(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	posts.searchFn = func(_ context.Context, _ string, _, _ int) ([]*models.Post, int64, error) {
		return []*models.Post{{ID: 10, UserID: 1}}, 1, nil
	}

	feed := NewFeedService(posts, noopUserRepo(), noopCommentRepo(), noopRelationRepo())
	svc := NewSearchService(noopUserRepo(), posts, feed)

	result, err := svc.Search(context.Background(), SearchInput{Query: "sunset", Limit: 10})
	require.NoError(t, err)
	require.Len(t, result.Posts, 1)
	require.NotNil(t, result.Posts[0].User)
}
