package server

import (
	"fmt"

	"wayfarer/internal/models"

	"github.com/gofiber/fiber/v2"
)

// UploadFile handles POST /api/upload. The file arrives as multipart form
// field "image"; the response carries an absolute URL under /uploads that
// the static route serves.
func (s *Server) UploadFile(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No file uploaded"))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	defer func() { _ = src.Close() }()

	name, svcErr := s.uploadService.Store(
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		src,
	)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	imageURL := fmt.Sprintf("%s://%s/uploads/%s", c.Protocol(), c.Hostname(), name)

	return c.JSON(fiber.Map{
		"message":  "File uploaded successfully",
		"imageUrl": imageURL,
	})
}
