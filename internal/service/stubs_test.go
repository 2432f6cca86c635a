package service

import (
	"context"
	"errors"
	"testing"

	"glimpse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn         func(context.Context, *models.Post) error
	getByIDFn        func(context.Context, uint) (*models.Post, error)
	pageFn           func(context.Context, *uint, int, int) ([]*models.Post, int64, error)
	pageBookmarkedFn func(context.Context, uint, int, int) ([]*models.Post, int64, error)
	searchFn         func(context.Context, string, int, int) ([]*models.Post, int64, error)
	existsFn         func(context.Context, uint) (bool, error)
	deleteFn         func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) Page(ctx context.Context, authorID *uint, limit, offset int) ([]*models.Post, int64, error) {
	return s.pageFn(ctx, authorID, limit, offset)
}
func (s *postRepoStub) PageBookmarked(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, int64, error) {
	return s.pageBookmarkedFn(ctx, userID, limit, offset)
}
func (s *postRepoStub) Search(ctx context.Context, query string, limit, offset int) ([]*models.Post, int64, error) {
	return s.searchFn(ctx, query, limit, offset)
}
func (s *postRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		pageFn: func(_ context.Context, _ *uint, _, _ int) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		pageBookmarkedFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		searchFn: func(_ context.Context, _ string, _, _ int) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		existsFn: func(_ context.Context, _ uint) (bool, error) { return true, nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByIDsFn      func(context.Context, []uint) (map[uint]*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	getOrCreateFn   func(context.Context, string, string) (*models.User, error)
	updateFn        func(context.Context, *models.User) error
	searchFn        func(context.Context, string, int, int) ([]*models.User, int64, error)
	countPostsFn    func(context.Context, uint) (int64, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByIDs(ctx context.Context, ids []uint) (map[uint]*models.User, error) {
	return s.getByIDsFn(ctx, ids)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetOrCreateByExternalID(ctx context.Context, externalID, username string) (*models.User, error) {
	return s.getOrCreateFn(ctx, externalID, username)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Search(ctx context.Context, query string, limit, offset int) ([]*models.User, int64, error) {
	return s.searchFn(ctx, query, limit, offset)
}
func (s *userRepoStub) CountPosts(ctx context.Context, userID uint) (int64, error) {
	return s.countPostsFn(ctx, userID)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "stub"}, nil
		},
		getByIDsFn: func(_ context.Context, ids []uint) (map[uint]*models.User, error) {
			users := make(map[uint]*models.User, len(ids))
			for _, id := range ids {
				users[id] = &models.User{ID: id, Username: "stub"}
			}
			return users, nil
		},
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getOrCreateFn: func(_ context.Context, externalID, username string) (*models.User, error) {
			return &models.User{ID: 1, ExternalID: externalID, Username: username}, nil
		},
		updateFn: func(_ context.Context, _ *models.User) error { return nil },
		searchFn: func(_ context.Context, _ string, _, _ int) ([]*models.User, int64, error) {
			return nil, 0, nil
		},
		countPostsFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn        func(context.Context, *models.Comment) error
	getByIDFn       func(context.Context, uint) (*models.Comment, error)
	listByPostFn    func(context.Context, uint) ([]*models.Comment, error)
	rootsForPostsFn func(context.Context, []uint) ([]*models.Comment, error)
	deleteFn        func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) RootsForPosts(ctx context.Context, postIDs []uint) ([]*models.Comment, error) {
	return s.rootsForPostsFn(ctx, postIDs)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:        func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:       func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByPostFn:    func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		rootsForPostsFn: func(_ context.Context, _ []uint) ([]*models.Comment, error) { return nil, nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
	}
}

// relationRepoStub is a stub for repository.RelationRepository.
type relationRepoStub struct {
	addFn            func(context.Context, models.RelationKind, uint, uint) (bool, error)
	removeFn         func(context.Context, models.RelationKind, uint, uint) (bool, error)
	existsFn         func(context.Context, models.RelationKind, uint, uint) (bool, error)
	targetsForFn     func(context.Context, models.RelationKind, uint, []uint) ([]uint, error)
	countForTargetFn func(context.Context, models.RelationKind, uint) (int64, error)
	countForActorFn  func(context.Context, models.RelationKind, uint) (int64, error)
}

func (s *relationRepoStub) Add(ctx context.Context, kind models.RelationKind, actorID, targetID uint) (bool, error) {
	return s.addFn(ctx, kind, actorID, targetID)
}
func (s *relationRepoStub) Remove(ctx context.Context, kind models.RelationKind, actorID, targetID uint) (bool, error) {
	return s.removeFn(ctx, kind, actorID, targetID)
}
func (s *relationRepoStub) Exists(ctx context.Context, kind models.RelationKind, actorID, targetID uint) (bool, error) {
	return s.existsFn(ctx, kind, actorID, targetID)
}
func (s *relationRepoStub) TargetsFor(ctx context.Context, kind models.RelationKind, actorID uint, targetIDs []uint) ([]uint, error) {
	return s.targetsForFn(ctx, kind, actorID, targetIDs)
}
func (s *relationRepoStub) CountForTarget(ctx context.Context, kind models.RelationKind, targetID uint) (int64, error) {
	return s.countForTargetFn(ctx, kind, targetID)
}
func (s *relationRepoStub) CountForActor(ctx context.Context, kind models.RelationKind, actorID uint) (int64, error) {
	return s.countForActorFn(ctx, kind, actorID)
}

func noopRelationRepo() *relationRepoStub {
	return &relationRepoStub{
		addFn: func(_ context.Context, _ models.RelationKind, _, _ uint) (bool, error) {
			return true, nil
		},
		removeFn: func(_ context.Context, _ models.RelationKind, _, _ uint) (bool, error) {
			return true, nil
		},
		existsFn: func(_ context.Context, _ models.RelationKind, _, _ uint) (bool, error) {
			return false, nil
		},
		targetsForFn: func(_ context.Context, _ models.RelationKind, _ uint, _ []uint) ([]uint, error) {
			return nil, nil
		},
		countForTargetFn: func(_ context.Context, _ models.RelationKind, _ uint) (int64, error) {
			return 0, nil
		},
		countForActorFn: func(_ context.Context, _ models.RelationKind, _ uint) (int64, error) {
			return 0, nil
		},
	}
}

// imageRepoStub is a stub for repository.ImageRepository.
type imageRepoStub struct {
	nextID uint
	byHash map[string]*models.Image
}

func newImageRepoStub() *imageRepoStub {
	return &imageRepoStub{byHash: map[string]*models.Image{}}
}

func (s *imageRepoStub) Create(_ context.Context, image *models.Image) error {
	if existing, ok := s.byHash[image.Hash]; ok {
		*image = *existing
		return nil
	}
	s.nextID++
	image.ID = s.nextID
	s.byHash[image.Hash] = image
	return nil
}

func (s *imageRepoStub) GetByHash(_ context.Context, hash string) (*models.Image, error) {
	if img, ok := s.byHash[hash]; ok {
		return img, nil
	}
	return nil, models.NewNotFoundError("Image", hash)
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "NOT_FOUND")
}

func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "FORBIDDEN")
}

func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "UNAUTHORIZED")
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
