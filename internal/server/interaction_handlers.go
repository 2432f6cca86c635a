package server

import (
	"glimpse/internal/models"
	"glimpse/internal/service"

	"github.com/gofiber/fiber/v2"
)

// toggleOp selects between establishing and removing a relation.
type toggleOp int

const (
	opSet toggleOp = iota
	opClear
)

// handleToggle is the shared body of all six relation endpoints. Each
// relation names its state field differently on the wire (liked,
// is_following, bookmarked) but the semantics are identical.
func (s *Server) handleToggle(c *fiber.Ctx, kind models.RelationKind, op toggleOp, bodyField, stateField string) error {
	userID := c.Locals("userID").(uint)

	var body map[string]uint
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	targetID := body[bodyField]
	if targetID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(bodyField+" is required"))
	}

	in := service.ToggleInput{Kind: kind, ActorID: userID, TargetID: targetID}

	var result *service.ToggleResult
	var err error
	if op == opSet {
		result, err = s.interactionService.Set(c.UserContext(), in)
	} else {
		result, err = s.interactionService.Clear(c.UserContext(), in)
	}
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		stateField: result.Active,
		"changed":  result.Changed,
	})
}

// AddLike handles POST /api/likes
func (s *Server) AddLike(c *fiber.Ctx) error {
	return s.handleToggle(c, models.RelationLike, opSet, "post_id", "liked")
}

// RemoveLike handles DELETE /api/likes
func (s *Server) RemoveLike(c *fiber.Ctx) error {
	return s.handleToggle(c, models.RelationLike, opClear, "post_id", "liked")
}

// AddFollow handles POST /api/follows
func (s *Server) AddFollow(c *fiber.Ctx) error {
	return s.handleToggle(c, models.RelationFollow, opSet, "following_id", "is_following")
}

// RemoveFollow handles DELETE /api/follows
func (s *Server) RemoveFollow(c *fiber.Ctx) error {
	return s.handleToggle(c, models.RelationFollow, opClear, "following_id", "is_following")
}

// AddBookmark handles POST /api/bookmarks
func (s *Server) AddBookmark(c *fiber.Ctx) error {
	return s.handleToggle(c, models.RelationBookmark, opSet, "post_id", "bookmarked")
}

// RemoveBookmark handles DELETE /api/bookmarks
func (s *Server) RemoveBookmark(c *fiber.Ctx) error {
	return s.handleToggle(c, models.RelationBookmark, opClear, "post_id", "bookmarked")
}

// GetBookmarks handles GET /api/bookmarks and returns the viewer's saved
// posts as fully enriched feed items, newest bookmark first.
func (s *Server) GetBookmarks(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	page := parsePagination(c, 10)

	feed, err := s.feedService.GetBookmarkedFeed(c.UserContext(), userID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(feedResponse{
		Success: true,
		Data:    feed.Items,
		Count:   feed.TotalCount,
		HasMore: feed.HasMore,
	})
}
