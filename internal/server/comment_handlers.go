package server

import (
	"anyrite/internal/models"
	"anyrite/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/articles/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	articleID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, svcErr := s.engagementService.AddComment(c.Context(), service.AddCommentInput{
		UserID:    userID,
		ArticleID: articleID,
		Content:   req.Content,
	})
	if svcErr != nil {
		return mapServiceError(c, svcErr)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments handles GET /api/articles/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	articleID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, svcErr := s.engagementService.ListComments(c.Context(), articleID)
	if svcErr != nil {
		return mapServiceError(c, svcErr)
	}
	return c.JSON(comments)
}
