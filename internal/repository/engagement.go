package repository

import (
	"context"
	"errors"

	"anyrite/internal/cache"
	"anyrite/internal/models"
	"anyrite/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EngagementRepository covers likes and comments, the two mutations that
// must keep the denormalized article counters in step with their rows.
type EngagementRepository interface {
	// Like records a like and bumps likes_count. It returns false when the
	// user had already liked the article.
	Like(ctx context.Context, userID, articleID uint) (bool, error)
	// Unlike removes a like and decrements likes_count. It returns false
	// when there was no like to remove.
	Unlike(ctx context.Context, userID, articleID uint) (bool, error)
	IsLiked(ctx context.Context, userID, articleID uint) (bool, error)
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id uint) (*models.Comment, error)
	ListComments(ctx context.Context, articleID uint) ([]models.Comment, error)
}

type engagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository returns a new EngagementRepository implementation.
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

func (r *engagementRepository) Like(ctx context.Context, userID, articleID uint) (bool, error) {
	done := observability.TrackQuery("like", "likes")
	defer done()

	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		like := models.Like{UserID: userID, ArticleID: articleID}
		// The unique index absorbs racing duplicates; a conflict means the
		// like already exists and the counter must not move.
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "article_id"}},
			DoNothing: true,
		}).Create(&like)
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}

		upd := tx.Model(&models.Article{}).Where("id = ?", articleID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + 1"))
		if upd.Error != nil {
			return models.NewInternalError(upd.Error)
		}
		if upd.RowsAffected == 0 {
			// Article vanished under us; roll the like back too.
			return models.NewNotFoundError("Article", articleID)
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if created {
		cache.InvalidateArticle(ctx, articleID)
	}
	return created, nil
}

func (r *engagementRepository) Unlike(ctx context.Context, userID, articleID uint) (bool, error) {
	done := observability.TrackQuery("unlike", "likes")
	defer done()

	removed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists bool
		err := tx.Model(&models.Article{}).Select("count(*) > 0").
			Where("id = ?", articleID).Find(&exists).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		if !exists {
			return models.NewNotFoundError("Article", articleID)
		}

		res := tx.Where("user_id = ? AND article_id = ?", userID, articleID).
			Delete(&models.Like{})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}

		// Floor at zero so a skewed counter can never wrap negative.
		err = tx.Model(&models.Article{}).Where("id = ?", articleID).
			UpdateColumn("likes_count",
				gorm.Expr("CASE WHEN likes_count > 0 THEN likes_count - 1 ELSE 0 END")).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		removed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if removed {
		cache.InvalidateArticle(ctx, articleID)
	}
	return removed, nil
}

func (r *engagementRepository) IsLiked(ctx context.Context, userID, articleID uint) (bool, error) {
	var exists bool
	err := r.db.WithContext(ctx).Model(&models.Like{}).Select("count(*) > 0").
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Find(&exists).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return exists, nil
}

func (r *engagementRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	done := observability.TrackQuery("create", "comments")
	defer done()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		upd := tx.Model(&models.Article{}).Where("id = ?", comment.ArticleID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + 1"))
		if upd.Error != nil {
			return models.NewInternalError(upd.Error)
		}
		if upd.RowsAffected == 0 {
			return models.NewNotFoundError("Article", comment.ArticleID)
		}
		if err := tx.Create(comment).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	cache.InvalidateArticle(ctx, comment.ArticleID)
	return nil
}

func (r *engagementRepository) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Select("comments.*, (SELECT username FROM users WHERE users.id = comments.author_id) AS username").
		First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

func (r *engagementRepository) ListComments(ctx context.Context, articleID uint) ([]models.Comment, error) {
	done := observability.TrackQuery("list", "comments")
	defer done()

	var exists bool
	err := r.db.WithContext(ctx).Model(&models.Article{}).Select("count(*) > 0").
		Where("id = ?", articleID).Find(&exists).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if !exists {
		return nil, models.NewNotFoundError("Article", articleID)
	}

	var comments []models.Comment
	err = r.db.WithContext(ctx).
		Select("comments.*, (SELECT username FROM users WHERE users.id = comments.author_id) AS username").
		Where("article_id = ?", articleID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}
