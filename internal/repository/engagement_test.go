package repository

import (
	"context"
	"errors"
	"testing"

	"anyrite/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Article{},
		&models.Comment{},
		&models.Like{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func seedUserAndArticle(t *testing.T, db *gorm.DB) (*models.User, *models.Article) {
	user := &models.User{Username: "alice", Email: "alice@example.com", Password: "x"}
	require.NoError(t, db.Create(user).Error)

	article := &models.Article{
		AuthorID: user.ID,
		Title:    "First post",
		Content:  "Hello world",
	}
	require.NoError(t, db.Create(article).Error)
	return user, article
}

func likesCount(t *testing.T, db *gorm.DB, articleID uint) int {
	var article models.Article
	require.NoError(t, db.First(&article, articleID).Error)
	return article.LikesCount
}

func commentsCount(t *testing.T, db *gorm.DB, articleID uint) int {
	var article models.Article
	require.NoError(t, db.First(&article, articleID).Error)
	return article.CommentsCount
}

func TestLikeIncrementsCounterOnce(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()
	user, article := seedUserAndArticle(t, db)

	created, err := repo.Like(ctx, user.ID, article.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.EqualValues(t, 1, likesCount(t, db, article.ID))

	// Second like is a no-op; the counter must not move.
	created, err = repo.Like(ctx, user.ID, article.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.EqualValues(t, 1, likesCount(t, db, article.ID))

	var rows int64
	require.NoError(t, db.Model(&models.Like{}).Where("article_id = ?", article.ID).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)
}

func TestUnlikeDecrementsCounterOnce(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()
	user, article := seedUserAndArticle(t, db)

	_, err := repo.Like(ctx, user.ID, article.ID)
	require.NoError(t, err)

	removed, err := repo.Unlike(ctx, user.ID, article.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.EqualValues(t, 0, likesCount(t, db, article.ID))

	// Unliking again is a no-op; the counter must stay at zero.
	removed, err = repo.Unlike(ctx, user.ID, article.ID)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.EqualValues(t, 0, likesCount(t, db, article.ID))
}

func TestLikeMissingArticleReturnsNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()
	user, _ := seedUserAndArticle(t, db)

	_, err := repo.Like(ctx, user.ID, 9999)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeNotFound, appErr.Code)

	_, err = repo.Unlike(ctx, user.ID, 9999)
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestIsLiked(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()
	user, article := seedUserAndArticle(t, db)

	liked, err := repo.IsLiked(ctx, user.ID, article.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	_, err = repo.Like(ctx, user.ID, article.ID)
	require.NoError(t, err)

	liked, err = repo.IsLiked(ctx, user.ID, article.ID)
	require.NoError(t, err)
	assert.True(t, liked)
}

func TestCreateCommentIncrementsCounter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()
	user, article := seedUserAndArticle(t, db)

	comment := &models.Comment{ArticleID: article.ID, AuthorID: user.ID, Content: "Nice"}
	require.NoError(t, repo.CreateComment(ctx, comment))
	assert.EqualValues(t, 1, commentsCount(t, db, article.ID))

	comment2 := &models.Comment{ArticleID: article.ID, AuthorID: user.ID, Content: "Again"}
	require.NoError(t, repo.CreateComment(ctx, comment2))
	assert.EqualValues(t, 2, commentsCount(t, db, article.ID))
}

func TestCreateCommentMissingArticleRollsBack(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()
	user, _ := seedUserAndArticle(t, db)

	comment := &models.Comment{ArticleID: 9999, AuthorID: user.ID, Content: "Lost"}
	err := repo.CreateComment(ctx, comment)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeNotFound, appErr.Code)

	var rows int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&rows).Error)
	assert.EqualValues(t, 0, rows)
}

func TestGetCommentCarriesUsername(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()
	user, article := seedUserAndArticle(t, db)

	comment := &models.Comment{ArticleID: article.ID, AuthorID: user.ID, Content: "Hey"}
	require.NoError(t, repo.CreateComment(ctx, comment))

	got, err := repo.GetComment(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
}

func TestListCommentsNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()
	user, article := seedUserAndArticle(t, db)

	for _, content := range []string{"first", "second", "third"} {
		c := &models.Comment{ArticleID: article.ID, AuthorID: user.ID, Content: content}
		require.NoError(t, repo.CreateComment(ctx, c))
	}

	comments, err := repo.ListComments(ctx, article.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	// Same-timestamp rows fall back to ID ordering, newest first.
	assert.Equal(t, "third", comments[0].Content)
	assert.Equal(t, "first", comments[2].Content)
	assert.Equal(t, "alice", comments[0].Username)
}

func TestListCommentsMissingArticle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()

	_, err := repo.ListComments(ctx, 42)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

// Counter must equal the number of engagement rows after any sequence of
// mutations.
func TestCountersMatchRowsAfterMixedOps(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()
	_, article := seedUserAndArticle(t, db)

	users := make([]*models.User, 5)
	for i := range users {
		u := &models.User{
			Username: string(rune('b'+i)) + "user",
			Email:    string(rune('b'+i)) + "@example.com",
			Password: "x",
		}
		require.NoError(t, db.Create(u).Error)
		users[i] = u
	}

	for _, u := range users {
		_, err := repo.Like(ctx, u.ID, article.ID)
		require.NoError(t, err)
	}
	// Two users change their mind, one of them twice.
	_, err := repo.Unlike(ctx, users[0].ID, article.ID)
	require.NoError(t, err)
	_, err = repo.Unlike(ctx, users[1].ID, article.ID)
	require.NoError(t, err)
	_, err = repo.Unlike(ctx, users[1].ID, article.ID)
	require.NoError(t, err)

	var rows int64
	require.NoError(t, db.Model(&models.Like{}).Where("article_id = ?", article.ID).Count(&rows).Error)
	assert.EqualValues(t, rows, likesCount(t, db, article.ID))
	assert.EqualValues(t, 3, rows)
}
