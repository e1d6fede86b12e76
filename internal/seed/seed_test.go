package seed

import (
	"testing"

	"anyrite/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Article{}, &models.Comment{}, &models.Like{},
	))
	return db
}

func TestSeedProducesConsistentCounters(t *testing.T) {
	db := setupSeedDB(t)
	opts := Options{NumUsers: 5, NumArticles: 10, MaxDays: 30}
	s := NewSeeder(db, opts)

	require.NoError(t, s.Seed(opts))

	var users, articles int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Article{}).Count(&articles).Error)
	assert.EqualValues(t, 5, users)
	assert.EqualValues(t, 10, articles)

	// Every seeded counter must match the number of engagement rows.
	var all []models.Article
	require.NoError(t, db.Find(&all).Error)
	for _, a := range all {
		var likeRows, commentRows int64
		require.NoError(t, db.Model(&models.Like{}).Where("article_id = ?", a.ID).Count(&likeRows).Error)
		require.NoError(t, db.Model(&models.Comment{}).Where("article_id = ?", a.ID).Count(&commentRows).Error)
		assert.EqualValues(t, likeRows, a.LikesCount, "article %d likes", a.ID)
		assert.EqualValues(t, commentRows, a.CommentsCount, "article %d comments", a.ID)
	}
}

func TestFactoryBuildArticleSpreadsTimestamps(t *testing.T) {
	f := NewFactory(nil, Options{MaxDays: 10})
	user := &models.User{ID: 1}

	a := f.BuildArticle(user)
	assert.NotEmpty(t, a.Title)
	assert.NotEmpty(t, a.Content)
	assert.False(t, a.CreatedAt.IsZero())
}
