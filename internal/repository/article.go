package repository

import (
	"context"
	"errors"
	"fmt"

	"anyrite/internal/cache"
	"anyrite/internal/models"
	"anyrite/internal/observability"

	"gorm.io/gorm"
)

// ArticleFilter narrows the article feed. Zero values mean no filtering.
type ArticleFilter struct {
	Tag    string
	Author string
}

// ArticleRepository defines persistence operations for articles.
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Article, error)
	List(ctx context.Context, filter ArticleFilter, currentUserID uint) ([]models.Article, error)
	Update(ctx context.Context, article *models.Article) error
	DeleteCascade(ctx context.Context, id uint) error
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository returns a new ArticleRepository implementation.
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

// applyArticleDetails attaches the author username and, when a viewer is
// known, their like status as read-only columns.
func applyArticleDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	sel := "articles.*, (SELECT username FROM users WHERE users.id = articles.author_id) AS author_username"
	if currentUserID != 0 {
		sel += ", EXISTS(SELECT 1 FROM likes WHERE likes.article_id = articles.id AND likes.user_id = ?) AS liked"
		return db.Select(sel, currentUserID)
	}
	sel += ", false AS liked"
	return db.Select(sel)
}

func (r *articleRepository) Create(ctx context.Context, article *models.Article) error {
	done := observability.TrackQuery("create", "articles")
	defer done()

	if err := r.db.WithContext(ctx).Create(article).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.FeedKey)
	return nil
}

func (r *articleRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Article, error) {
	done := observability.TrackQuery("get", "articles")
	defer done()

	fetch := func(dest *models.Article) error {
		err := applyArticleDetails(r.db.WithContext(ctx), currentUserID).
			First(dest, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Article", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	}

	var article models.Article

	// Only anonymous reads go through the cache; the liked flag is
	// viewer-specific and must not be shared across users.
	if currentUserID == 0 {
		err := cache.Aside(ctx, cache.ArticleKey(id), &article, cache.ArticleTTL, func() error {
			return fetch(&article)
		})
		if err != nil {
			return nil, err
		}
		return &article, nil
	}

	if err := fetch(&article); err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) List(ctx context.Context, filter ArticleFilter, currentUserID uint) ([]models.Article, error) {
	done := observability.TrackQuery("list", "articles")
	defer done()

	query := applyArticleDetails(r.db.WithContext(ctx), currentUserID)

	if filter.Author != "" {
		query = query.Where(
			"author_id = (SELECT id FROM users WHERE username = ? AND deleted_at IS NULL)",
			filter.Author,
		)
	}
	if filter.Tag != "" {
		// Tags are stored as a JSON array of strings, so an exact element
		// match is a substring match on the quoted value.
		query = query.Where("tags LIKE ?", fmt.Sprintf(`%%"%s"%%`, filter.Tag))
	}

	var articles []models.Article
	if err := query.Order("created_at DESC, id DESC").Find(&articles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return articles, nil
}

func (r *articleRepository) Update(ctx context.Context, article *models.Article) error {
	done := observability.TrackQuery("update", "articles")
	defer done()

	err := r.db.WithContext(ctx).Model(article).
		Select("Title", "Content", "Tags", "CoverImage", "UpdatedAt").
		Updates(article).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateArticle(ctx, article.ID)
	return nil
}

// DeleteCascade soft-deletes the article and hard-deletes its comments and
// likes in one transaction. The article row is deleted first so the write
// lock serializes against concurrent like and comment mutations.
func (r *articleRepository) DeleteCascade(ctx context.Context, id uint) error {
	done := observability.TrackQuery("delete", "articles")
	defer done()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Article{}, id)
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Article", id)
		}
		if err := tx.Unscoped().Where("article_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Where("article_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	cache.InvalidateArticle(ctx, id)
	return nil
}
