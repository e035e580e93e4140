package server

import (
	"wayfarer/internal/models"
	"wayfarer/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, svcErr := s.userService.GetUser(c.Context(), userID)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}
	return c.JSON(user)
}

// UpdateUser handles PATCH /api/users/:id
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Username string  `json:"username"`
		Bio      *string `json:"bio"`
		Avatar   *string `json:"avatar"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, svcErr := s.userService.UpdateUser(c.Context(), service.UpdateUserInput{
		RequesterID: currentUserID(c),
		TargetID:    targetID,
		Username:    req.Username,
		Bio:         req.Bio,
		Avatar:      req.Avatar,
	})
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(user)
}
