package service

import (
	"context"
	"strings"
	"testing"

	"glimpse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_CreatePost_Validation(t *testing.T) {
	t.Parallel()

	svc := NewPostService(noopPostRepo(), noopUserRepo())
	ctx := context.Background()

	t.Run("missing image_url", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreatePost(ctx, CreatePostInput{UserID: 1, Caption: "no image"})
		assertValidationError(t, err)
	})

	t.Run("caption too long", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreatePost(ctx, CreatePostInput{
			UserID:   1,
			ImageURL: "/media/i/x/master.webp",
			Caption:  strings.Repeat("x", maxCaptionLen+1),
		})
		assertValidationError(t, err)
	})

	t.Run("multibyte caption counts runes not bytes", func(t *testing.T) {
		t.Parallel()
		// Each rune is three bytes; the caption is exactly at the limit.
		_, err := svc.CreatePost(ctx, CreatePostInput{
			UserID:   1,
			ImageURL: "/media/i/x/master.webp",
			Caption:  strings.Repeat("あ", maxCaptionLen),
		})
		require.NoError(t, err)

		_, err = svc.CreatePost(ctx, CreatePostInput{
			UserID:   1,
			ImageURL: "/media/i/x/master.webp",
			Caption:  strings.Repeat("あ", maxCaptionLen+1),
		})
		assertValidationError(t, err)
	})
}

func TestPostService_CreatePost_Success(t *testing.T) {
	t.Parallel()

	hash := strings.Repeat("ab", 32)
	posts := noopPostRepo()
	posts.createFn = func(_ context.Context, p *models.Post) error {
		p.ID = 7
		return nil
	}

	svc := NewPostService(posts, noopUserRepo())
	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:   1,
		ImageURL: "/media/i/" + hash + "/master.webp",
		Caption:  "  trimmed  ",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(7), post.ID)
	assert.Equal(t, hash, post.ImageHash)
	assert.Equal(t, "trimmed", post.Caption)
	require.NotNil(t, post.User)
	assert.NotNil(t, post.Comments)
}

func TestPostService_CreatePost_ForeignURLHasNoHash(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	svc := NewPostService(posts, noopUserRepo())
	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:   1,
		ImageURL: "https://example.com/cat.jpg",
	})
	require.NoError(t, err)
	assert.Empty(t, post.ImageHash)
}

func TestPostService_DeletePost_Ownership(t *testing.T) {
	t.Parallel()

	t.Run("owner can delete", func(t *testing.T) {
		t.Parallel()
		deleted := false
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 1}, nil
		}
		posts.deleteFn = func(_ context.Context, _ uint) error {
			deleted = true
			return nil
		}
		svc := NewPostService(posts, noopUserRepo())
		require.NoError(t, svc.DeletePost(context.Background(), DeletePostInput{UserID: 1, PostID: 10}))
		assert.True(t, deleted)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		t.Parallel()
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 99}, nil
		}
		svc := NewPostService(posts, noopUserRepo())
		err := svc.DeletePost(context.Background(), DeletePostInput{UserID: 1, PostID: 10})
		assertForbiddenError(t, err)
	})

	t.Run("missing post propagates not found", func(t *testing.T) {
		t.Parallel()
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post", id)
		}
		svc := NewPostService(posts, noopUserRepo())
		err := svc.DeletePost(context.Background(), DeletePostInput{UserID: 1, PostID: 10})
		assertNotFoundError(t, err)
	})
}
