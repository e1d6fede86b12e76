// Package service holds the business rules between the HTTP handlers and
// the repositories.
package service

import (
	"context"
	"strings"

	"anyrite/internal/models"
	"anyrite/internal/repository"
)

const (
	maxTitleLen   = 300
	maxContentLen = 50000
	maxTags       = 10
	maxTagLen     = 50
)

type ArticleService struct {
	articleRepo repository.ArticleRepository
}

type CreateArticleInput struct {
	AuthorID   uint
	Title      string
	Content    string
	Tags       []string
	CoverImage string
}

type UpdateArticleInput struct {
	UserID     uint
	ArticleID  uint
	Title      *string
	Content    *string
	Tags       *[]string
	CoverImage *string
}

type DeleteArticleInput struct {
	UserID    uint
	ArticleID uint
}

func NewArticleService(articleRepo repository.ArticleRepository) *ArticleService {
	return &ArticleService{articleRepo: articleRepo}
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return "", models.NewValidationError("Title too long (max 300 characters)")
	}
	return title, nil
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", models.NewValidationError("Content is required")
	}
	if len(content) > maxContentLen {
		return "", models.NewValidationError("Content too long (max 50000 characters)")
	}
	return content, nil
}

func validateTags(tags models.Tags) (models.Tags, error) {
	tags = tags.Normalize()
	if len(tags) > maxTags {
		return nil, models.NewValidationError("Too many tags (max 10)")
	}
	for _, t := range tags {
		if len(t) > maxTagLen {
			return nil, models.NewValidationError("Tag too long (max 50 characters)")
		}
	}
	return tags, nil
}

func (s *ArticleService) CreateArticle(ctx context.Context, in CreateArticleInput) (*models.Article, error) {
	title, err := validateTitle(in.Title)
	if err != nil {
		return nil, err
	}
	content, err := validateContent(in.Content)
	if err != nil {
		return nil, err
	}
	tags, err := validateTags(models.Tags(in.Tags))
	if err != nil {
		return nil, err
	}

	article := &models.Article{
		AuthorID:   in.AuthorID,
		Title:      title,
		Content:    content,
		Tags:       tags,
		CoverImage: strings.TrimSpace(in.CoverImage),
	}
	if err := s.articleRepo.Create(ctx, article); err != nil {
		return nil, err
	}
	// Re-read so the response carries the computed author fields.
	return s.articleRepo.GetByID(ctx, article.ID, in.AuthorID)
}

func (s *ArticleService) GetArticle(ctx context.Context, id uint, currentUserID uint) (*models.Article, error) {
	return s.articleRepo.GetByID(ctx, id, currentUserID)
}

func (s *ArticleService) ListArticles(ctx context.Context, filter repository.ArticleFilter, currentUserID uint) ([]models.Article, error) {
	return s.articleRepo.List(ctx, filter, currentUserID)
}

func (s *ArticleService) UpdateArticle(ctx context.Context, in UpdateArticleInput) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, in.ArticleID, in.UserID)
	if err != nil {
		return nil, err
	}
	if article.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own articles")
	}

	if in.Title != nil {
		title, err := validateTitle(*in.Title)
		if err != nil {
			return nil, err
		}
		article.Title = title
	}
	if in.Content != nil {
		content, err := validateContent(*in.Content)
		if err != nil {
			return nil, err
		}
		article.Content = content
	}
	if in.Tags != nil {
		tags, err := validateTags(models.Tags(*in.Tags))
		if err != nil {
			return nil, err
		}
		article.Tags = tags
	}
	if in.CoverImage != nil {
		article.CoverImage = strings.TrimSpace(*in.CoverImage)
	}

	if err := s.articleRepo.Update(ctx, article); err != nil {
		return nil, err
	}
	return s.articleRepo.GetByID(ctx, in.ArticleID, in.UserID)
}

func (s *ArticleService) DeleteArticle(ctx context.Context, in DeleteArticleInput) error {
	article, err := s.articleRepo.GetByID(ctx, in.ArticleID, in.UserID)
	if err != nil {
		return err
	}
	if article.AuthorID != in.UserID {
		return models.NewForbiddenError("You can only delete your own articles")
	}
	return s.articleRepo.DeleteCascade(ctx, in.ArticleID)
}
