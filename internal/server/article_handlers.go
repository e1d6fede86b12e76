package server

import (
	"anyrite/internal/models"
	"anyrite/internal/repository"
	"anyrite/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateArticle handles POST /api/articles
func (s *Server) CreateArticle(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Title      string   `json:"title"`
		Content    string   `json:"content"`
		Tags       []string `json:"tags"`
		CoverImage string   `json:"cover_image"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	article, err := s.articleService.CreateArticle(c.Context(), service.CreateArticleInput{
		AuthorID:   userID,
		Title:      req.Title,
		Content:    req.Content,
		Tags:       req.Tags,
		CoverImage: req.CoverImage,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(article)
}

// GetArticles handles GET /api/articles with optional ?tag= and ?author= filters
func (s *Server) GetArticles(c *fiber.Ctx) error {
	currentUserID, _ := s.optionalUserID(c)

	filter := repository.ArticleFilter{
		Tag:    c.Query("tag"),
		Author: c.Query("author"),
	}

	articles, err := s.articleService.ListArticles(c.Context(), filter, currentUserID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(articles)
}

// GetArticle handles GET /api/articles/:id
func (s *Server) GetArticle(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	currentUserID, _ := s.optionalUserID(c)

	article, svcErr := s.articleService.GetArticle(c.Context(), id, currentUserID)
	if svcErr != nil {
		return mapServiceError(c, svcErr)
	}
	return c.JSON(article)
}

// UpdateArticle handles PUT /api/articles/:id
func (s *Server) UpdateArticle(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title      *string   `json:"title"`
		Content    *string   `json:"content"`
		Tags       *[]string `json:"tags"`
		CoverImage *string   `json:"cover_image"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	article, svcErr := s.articleService.UpdateArticle(c.Context(), service.UpdateArticleInput{
		UserID:     userID,
		ArticleID:  id,
		Title:      req.Title,
		Content:    req.Content,
		Tags:       req.Tags,
		CoverImage: req.CoverImage,
	})
	if svcErr != nil {
		return mapServiceError(c, svcErr)
	}
	return c.JSON(article)
}

// DeleteArticle handles DELETE /api/articles/:id
func (s *Server) DeleteArticle(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if svcErr := s.articleService.DeleteArticle(c.Context(), service.DeleteArticleInput{
		UserID:    userID,
		ArticleID: id,
	}); svcErr != nil {
		return mapServiceError(c, svcErr)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LikeArticle handles POST /api/articles/:id/like
func (s *Server) LikeArticle(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, svcErr := s.engagementService.LikeArticle(c.Context(), userID, id); svcErr != nil {
		return mapServiceError(c, svcErr)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UnlikeArticle handles DELETE /api/articles/:id/like
func (s *Server) UnlikeArticle(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, svcErr := s.engagementService.UnlikeArticle(c.Context(), userID, id); svcErr != nil {
		return mapServiceError(c, svcErr)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// IsArticleLiked handles GET /api/articles/:id/is-liked
func (s *Server) IsArticleLiked(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	liked, svcErr := s.engagementService.IsLiked(c.Context(), userID, id)
	if svcErr != nil {
		return mapServiceError(c, svcErr)
	}
	return c.JSON(fiber.Map{"is_liked": liked})
}
