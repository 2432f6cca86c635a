// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"fmt"

	"glimpse/internal/cache"
	"glimpse/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RelationRepository persists the three toggleable social relations.
// Adds and removes are idempotent at the storage level: a duplicate add
// and a missing remove both report changed=false instead of failing, so
// concurrent toggles converge without unique-violation errors.
type RelationRepository interface {
	Add(ctx context.Context, kind models.RelationKind, actorID, targetID uint) (bool, error)
	Remove(ctx context.Context, kind models.RelationKind, actorID, targetID uint) (bool, error)
	Exists(ctx context.Context, kind models.RelationKind, actorID, targetID uint) (bool, error)
	TargetsFor(ctx context.Context, kind models.RelationKind, actorID uint, targetIDs []uint) ([]uint, error)
	CountForTarget(ctx context.Context, kind models.RelationKind, targetID uint) (int64, error)
	CountForActor(ctx context.Context, kind models.RelationKind, actorID uint) (int64, error)
}

// relationSpec describes how one relation kind maps onto its table.
type relationSpec struct {
	actorCol  string
	targetCol string
	model     func() interface{}
	record    func(actorID, targetID uint) interface{}
}

var relationSpecs = map[models.RelationKind]relationSpec{
	models.RelationLike: {
		actorCol:  "user_id",
		targetCol: "post_id",
		model:     func() interface{} { return &models.Like{} },
		record: func(actorID, targetID uint) interface{} {
			return &models.Like{UserID: actorID, PostID: targetID}
		},
	},
	models.RelationFollow: {
		actorCol:  "follower_id",
		targetCol: "following_id",
		model:     func() interface{} { return &models.Follow{} },
		record: func(actorID, targetID uint) interface{} {
			return &models.Follow{FollowerID: actorID, FollowingID: targetID}
		},
	},
	models.RelationBookmark: {
		actorCol:  "user_id",
		targetCol: "post_id",
		model:     func() interface{} { return &models.Bookmark{} },
		record: func(actorID, targetID uint) interface{} {
			return &models.Bookmark{UserID: actorID, PostID: targetID}
		},
	},
}

type relationRepository struct {
	db *gorm.DB
}

// NewRelationRepository creates a new RelationRepository.
func NewRelationRepository(db *gorm.DB) RelationRepository {
	return &relationRepository{db: db}
}

func (r *relationRepository) spec(kind models.RelationKind) (relationSpec, error) {
	s, ok := relationSpecs[kind]
	if !ok {
		return relationSpec{}, models.NewInternalError(fmt.Errorf("unknown relation kind %q", kind))
	}
	return s, nil
}

// Add inserts the relation if absent. ON CONFLICT DO NOTHING makes the
// insert race-safe; RowsAffected tells whether this call won.
func (r *relationRepository) Add(ctx context.Context, kind models.RelationKind, actorID, targetID uint) (bool, error) {
	s, err := r.spec(kind)
	if err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: s.actorCol}, {Name: s.targetCol}},
			DoNothing: true,
		}).
		Create(s.record(actorID, targetID))
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}

	changed := result.RowsAffected > 0
	if changed && kind != models.RelationFollow {
		cache.InvalidatePost(ctx, targetID)
	}
	return changed, nil
}

func (r *relationRepository) Remove(ctx context.Context, kind models.RelationKind, actorID, targetID uint) (bool, error) {
	s, err := r.spec(kind)
	if err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).
		Where(fmt.Sprintf("%s = ? AND %s = ?", s.actorCol, s.targetCol), actorID, targetID).
		Delete(s.model())
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}

	changed := result.RowsAffected > 0
	if changed && kind != models.RelationFollow {
		cache.InvalidatePost(ctx, targetID)
	}
	return changed, nil
}

func (r *relationRepository) Exists(ctx context.Context, kind models.RelationKind, actorID, targetID uint) (bool, error) {
	s, err := r.spec(kind)
	if err != nil {
		return false, err
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(s.model()).
		Where(fmt.Sprintf("%s = ? AND %s = ?", s.actorCol, s.targetCol), actorID, targetID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// TargetsFor returns which of targetIDs the actor holds the relation
// against, in a single IN query. This is the batched lookup the feed
// aggregator uses for liked and bookmarked flags.
func (r *relationRepository) TargetsFor(ctx context.Context, kind models.RelationKind, actorID uint, targetIDs []uint) ([]uint, error) {
	if len(targetIDs) == 0 {
		return nil, nil
	}
	s, err := r.spec(kind)
	if err != nil {
		return nil, err
	}

	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(s.model()).
		Where(fmt.Sprintf("%s = ? AND %s IN ?", s.actorCol, s.targetCol), actorID, targetIDs).
		Pluck(s.targetCol, &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *relationRepository) CountForTarget(ctx context.Context, kind models.RelationKind, targetID uint) (int64, error) {
	s, err := r.spec(kind)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(s.model()).
		Where(fmt.Sprintf("%s = ?", s.targetCol), targetID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *relationRepository) CountForActor(ctx context.Context, kind models.RelationKind, actorID uint) (int64, error) {
	s, err := r.spec(kind)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(s.model()).
		Where(fmt.Sprintf("%s = ?", s.actorCol), actorID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
