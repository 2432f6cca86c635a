package server

import (
	"io"
	"strings"

	"glimpse/internal/models"
	"glimpse/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ImageUploadResponse is the API response after uploading an image.
type ImageUploadResponse struct {
	ID       uint   `json:"id"`
	Hash     string `json:"hash"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Bytes    int64  `json:"bytes"`
	MimeType string `json:"mime_type"`
	URL      string `json:"url"`
}

// UploadImage handles POST /api/images
func (s *Server) UploadImage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	file, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No file uploaded"))
	}

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

	uploaded, err := s.imageService.Upload(c.UserContext(), service.UploadImageInput{
		UserID:      userID,
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": ImageUploadResponse{
			ID:       uploaded.ID,
			Hash:     uploaded.Hash,
			Width:    uploaded.Width,
			Height:   uploaded.Height,
			Bytes:    uploaded.Bytes,
			MimeType: uploaded.MimeType,
			URL:      s.imageService.BuildImageURL(uploaded.Hash),
		},
	})
}

// ServeMedia handles GET /media/i/:hash/:file. Stored files are immutable
// (content-addressed), so clients may cache them indefinitely.
func (s *Server) ServeMedia(c *fiber.Ctx) error {
	hash := strings.TrimSpace(c.Params("hash"))
	file := c.Params("file")

	variant := "master"
	switch file {
	case "master.webp":
	case "thumb.webp":
		variant = "thumb"
	default:
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Image variant", file))
	}

	_, path, err := s.imageService.ResolveForServing(c.UserContext(), hash, variant)
	if err != nil {
		return respondServiceError(c, err)
	}

	c.Set(fiber.HeaderCacheControl, "public, max-age=31536000, immutable")
	c.Set(fiber.HeaderContentType, "image/webp")
	return c.SendFile(path)
}
