package service

import (
	"context"
	"log/slog"
	"strings"

	"anyrite/internal/middleware"
	"anyrite/internal/models"
	"anyrite/internal/observability"
	"anyrite/internal/repository"
)

const maxCommentLen = 10000

type EngagementService struct {
	engagementRepo repository.EngagementRepository
	articleRepo    repository.ArticleRepository
}

type AddCommentInput struct {
	UserID    uint
	ArticleID uint
	Content   string
}

func NewEngagementService(engagementRepo repository.EngagementRepository, articleRepo repository.ArticleRepository) *EngagementService {
	return &EngagementService{
		engagementRepo: engagementRepo,
		articleRepo:    articleRepo,
	}
}

// LikeArticle records a like and returns the article with its fresh counter.
// Liking an already liked article is a no-op, not an error.
func (s *EngagementService) LikeArticle(ctx context.Context, userID, articleID uint) (*models.Article, error) {
	created, err := s.engagementRepo.Like(ctx, userID, articleID)
	if err != nil {
		observability.EngagementMutations.WithLabelValues("like", "error").Inc()
		return nil, err
	}
	if created {
		observability.EngagementMutations.WithLabelValues("like", "ok").Inc()
	} else {
		observability.EngagementMutations.WithLabelValues("like", "noop").Inc()
	}
	return s.articleRepo.GetByID(ctx, articleID, userID)
}

// UnlikeArticle removes a like. Unliking an article the user never liked
// is a no-op, not an error.
func (s *EngagementService) UnlikeArticle(ctx context.Context, userID, articleID uint) (*models.Article, error) {
	removed, err := s.engagementRepo.Unlike(ctx, userID, articleID)
	if err != nil {
		observability.EngagementMutations.WithLabelValues("unlike", "error").Inc()
		return nil, err
	}
	if removed {
		observability.EngagementMutations.WithLabelValues("unlike", "ok").Inc()
	} else {
		observability.EngagementMutations.WithLabelValues("unlike", "noop").Inc()
	}
	return s.articleRepo.GetByID(ctx, articleID, userID)
}

func (s *EngagementService) IsLiked(ctx context.Context, userID, articleID uint) (bool, error) {
	if _, err := s.articleRepo.GetByID(ctx, articleID, userID); err != nil {
		return false, err
	}
	liked, err := s.engagementRepo.IsLiked(ctx, userID, articleID)
	if err != nil {
		// The like-status lookup is auxiliary; a store failure here should not
		// block the read path, so it degrades to "not liked".
		middleware.Logger.WarnContext(ctx, "like-status lookup failed", slog.Any("error", err))
		return false, nil
	}
	return liked, nil
}

func (s *EngagementService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Comment content is required")
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	comment := &models.Comment{
		ArticleID: in.ArticleID,
		AuthorID:  in.UserID,
		Content:   content,
	}
	if err := s.engagementRepo.CreateComment(ctx, comment); err != nil {
		observability.EngagementMutations.WithLabelValues("comment", "error").Inc()
		return nil, err
	}
	observability.EngagementMutations.WithLabelValues("comment", "ok").Inc()
	// Re-read so the response carries the computed username field.
	return s.engagementRepo.GetComment(ctx, comment.ID)
}

func (s *EngagementService) ListComments(ctx context.Context, articleID uint) ([]models.Comment, error) {
	return s.engagementRepo.ListComments(ctx, articleID)
}
