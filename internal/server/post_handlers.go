package server

import (
	"io"

	"glimpse/internal/models"
	"glimpse/internal/service"

	"github.com/gofiber/fiber/v2"
)

// feedResponse is the wire format for a page of feed items.
type feedResponse struct {
	Success bool           `json:"success"`
	Data    []*models.Post `json:"data"`
	Count   int64          `json:"count"`
	HasMore bool           `json:"has_more"`
}

// GetFeed handles GET /api/posts
func (s *Server) GetFeed(c *fiber.Ctx) error {
	page := parsePagination(c, 10)
	viewerID, _ := s.optionalUserID(c)

	var authorID *uint
	if raw := c.QueryInt("author_id", 0); raw > 0 {
		id := uint(raw)
		authorID = &id
	}

	feed, err := s.feedService.GetFeed(c.UserContext(), service.FeedInput{
		ViewerID: viewerID,
		AuthorID: authorID,
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
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

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewerID, _ := s.optionalUserID(c)

	post, err := s.feedService.GetPost(c.UserContext(), id, viewerID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    post,
	})
}

// CreatePost handles POST /api/posts. The image arrives either as a
// multipart "image" file (uploaded inline) or as an image_url referencing
// a previously uploaded image.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	imageURL := ""
	caption := ""

	if file, ferr := c.FormFile("image"); ferr == nil {
		src, err := file.Open()
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Unable to read uploaded file"))
		}
		content, err := io.ReadAll(src)
		_ = src.Close()
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Unable to read uploaded file"))
		}

		img, err := s.imageService.Upload(c.UserContext(), service.UploadImageInput{
			UserID:      userID,
			Filename:    file.Filename,
			ContentType: file.Header.Get("Content-Type"),
			Content:     content,
		})
		if err != nil {
			return respondServiceError(c, err)
		}
		imageURL = s.imageService.BuildImageURL(img.Hash)
		caption = c.FormValue("caption")
	} else {
		var req struct {
			ImageURL string `json:"image_url"`
			Caption  string `json:"caption"`
		}
		if err := c.BodyParser(&req); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
		imageURL = req.ImageURL
		caption = req.Caption
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:   userID,
		ImageURL: imageURL,
		Caption:  caption,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    post,
	})
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), service.DeletePostInput{
		UserID: userID,
		PostID: postID,
	}); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}
