package server

import (
	"glimpse/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Search handles GET /api/search?q=...&type=users|posts|all
func (s *Server) Search(c *fiber.Ctx) error {
	page := parsePagination(c, 10)
	viewerID, _ := s.optionalUserID(c)

	result, err := s.searchService.Search(c.UserContext(), service.SearchInput{
		Query:    c.Query("q"),
		Type:     c.Query("type"),
		ViewerID: viewerID,
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"users":       result.Users,
		"users_count": result.UsersCount,
		"posts":       result.Posts,
		"posts_count": result.PostsCount,
	})
}
