package service

import (
	"context"

	"glimpse/internal/models"
	"glimpse/internal/observability"
	"glimpse/internal/repository"
)

// ToggleResult reports the relation's state after the call and whether
// this call changed it. Repeating a set or clear is not an error; it
// comes back with Changed=false so clients can treat retries as no-ops.
type ToggleResult struct {
	Active  bool `json:"active"`
	Changed bool `json:"changed"`
}

// InteractionService sets and clears likes, follows and bookmarks.
type InteractionService struct {
	relationRepo repository.RelationRepository
	postRepo     repository.PostRepository
	userRepo     repository.UserRepository
}

type ToggleInput struct {
	Kind     models.RelationKind
	ActorID  uint
	TargetID uint
}

func NewInteractionService(
	relationRepo repository.RelationRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
) *InteractionService {
	return &InteractionService{
		relationRepo: relationRepo,
		postRepo:     postRepo,
		userRepo:     userRepo,
	}
}

// Set establishes the relation. Setting an already-set relation succeeds
// with Changed=false.
func (s *InteractionService) Set(ctx context.Context, in ToggleInput) (*ToggleResult, error) {
	if err := s.validateTarget(ctx, in); err != nil {
		return nil, err
	}

	changed, err := s.relationRepo.Add(ctx, in.Kind, in.ActorID, in.TargetID)
	if err != nil {
		return nil, err
	}

	observability.ToggleOperations.WithLabelValues(string(in.Kind), "set", outcomeLabel(changed)).Inc()
	return &ToggleResult{Active: true, Changed: changed}, nil
}

// Clear removes the relation. Clearing an absent relation succeeds with
// Changed=false.
func (s *InteractionService) Clear(ctx context.Context, in ToggleInput) (*ToggleResult, error) {
	if err := s.validateTarget(ctx, in); err != nil {
		return nil, err
	}

	changed, err := s.relationRepo.Remove(ctx, in.Kind, in.ActorID, in.TargetID)
	if err != nil {
		return nil, err
	}

	observability.ToggleOperations.WithLabelValues(string(in.Kind), "clear", outcomeLabel(changed)).Inc()
	return &ToggleResult{Active: false, Changed: changed}, nil
}

func (s *InteractionService) validateTarget(ctx context.Context, in ToggleInput) error {
	if in.ActorID == 0 {
		return models.NewUnauthorizedError("Authentication required")
	}
	if in.TargetID == 0 {
		return models.NewValidationError("Target is required")
	}

	switch in.Kind {
	case models.RelationLike, models.RelationBookmark:
		exists, err := s.postRepo.Exists(ctx, in.TargetID)
		if err != nil {
			return err
		}
		if !exists {
			return models.NewNotFoundError("Post", in.TargetID)
		}
	case models.RelationFollow:
		if in.ActorID == in.TargetID {
			return models.NewValidationError("You cannot follow yourself")
		}
		if _, err := s.userRepo.GetByID(ctx, in.TargetID); err != nil {
			return err
		}
	default:
		return models.NewValidationError("Unknown relation")
	}
	return nil
}

func outcomeLabel(changed bool) string {
	if changed {
		return "changed"
	}
	return "noop"
}
