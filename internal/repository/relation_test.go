package repository

import (
	"context"
	"regexp"
	"testing"

	"glimpse/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelationRepository_AddIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRelationRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "ext-1", "alice")
	author := createTestUser(t, db, "ext-2", "bob")
	post := createTestPost(t, db, author.ID, "hello")

	changed, err := repo.Add(ctx, models.RelationLike, user.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.Add(ctx, models.RelationLike, user.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	count, err := repo.CountForTarget(ctx, models.RelationLike, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRelationRepository_RemoveMissingReportsUnchanged(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRelationRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "ext-1", "alice")
	author := createTestUser(t, db, "ext-2", "bob")
	post := createTestPost(t, db, author.ID, "hello")

	changed, err := repo.Remove(ctx, models.RelationBookmark, user.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = repo.Add(ctx, models.RelationBookmark, user.ID, post.ID)
	require.NoError(t, err)

	changed, err = repo.Remove(ctx, models.RelationBookmark, user.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestRelationRepository_FollowRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRelationRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "ext-1", "alice")
	bob := createTestUser(t, db, "ext-2", "bob")

	changed, err := repo.Add(ctx, models.RelationFollow, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	exists, err := repo.Exists(ctx, models.RelationFollow, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	// Direction matters
	exists, err = repo.Exists(ctx, models.RelationFollow, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	followers, err := repo.CountForTarget(ctx, models.RelationFollow, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), followers)

	following, err := repo.CountForActor(ctx, models.RelationFollow, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), following)
}

func TestRelationRepository_TargetsFor(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRelationRepository(db)
	ctx := context.Background()

	viewer := createTestUser(t, db, "ext-1", "alice")
	author := createTestUser(t, db, "ext-2", "bob")

	p1 := createTestPost(t, db, author.ID, "one")
	p2 := createTestPost(t, db, author.ID, "two")
	p3 := createTestPost(t, db, author.ID, "three")

	_, err := repo.Add(ctx, models.RelationLike, viewer.ID, p1.ID)
	require.NoError(t, err)
	_, err = repo.Add(ctx, models.RelationLike, viewer.ID, p3.ID)
	require.NoError(t, err)

	liked, err := repo.TargetsFor(ctx, models.RelationLike, viewer.ID, []uint{p1.ID, p2.ID, p3.ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{p1.ID, p3.ID}, liked)

	liked, err = repo.TargetsFor(ctx, models.RelationLike, viewer.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, liked)
}

// TestRelationRepository_TargetsForQueryShape pins the batched lookup to a
// single IN query so the feed path cannot regress into per-post queries.
func TestRelationRepository_TargetsForQueryShape(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRelationRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "post_id" FROM "likes" WHERE user_id = $1 AND post_id IN ($2,$3,$4)`)).
		WithArgs(7, 1, 2, 3).
		WillReturnRows(sqlmock.NewRows([]string{"post_id"}).AddRow(1).AddRow(3))

	liked, err := repo.TargetsFor(ctx, models.RelationLike, 7, []uint{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 3}, liked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelationRepository_UnknownKind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRelationRepository(db)

	_, err := repo.Add(context.Background(), models.RelationKind("poke"), 1, 2)
	assert.Error(t, err)
}
