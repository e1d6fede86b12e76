package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"anyrite/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

var seedTags = []string{
	"go", "programming", "writing", "travel", "food", "music", "books",
	"science", "history", "design", "photography", "gaming", "fitness",
}

// Factory builds domain entities for seeding. It does not persist them.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		opts: opts,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// pastTimestamp spreads created_at over the last MaxDays days so feeds look
// lived-in rather than minted in one burst.
func (f *Factory) pastTimestamp() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour -
		time.Duration(minsBack)*time.Minute)
}

// BuildUser constructs a user with a unique username and email.
func (f *Factory) BuildUser(hashedPassword string) *models.User {
	username := strings.ToLower(gofakeit.Username())
	if len(username) < 3 {
		username = username + fmt.Sprintf("%03d", f.rng.Intn(1000))
	}
	return &models.User{
		Username: fmt.Sprintf("%s%d", username, f.rng.Intn(10000)),
		Email:    gofakeit.Email(),
		Password: hashedPassword,
		Bio:      gofakeit.Sentence(8),
		Avatar:   fmt.Sprintf("https://picsum.photos/seed/%s/200/200", gofakeit.UUID()),
	}
}

// BuildArticle constructs an article for the given author.
func (f *Factory) BuildArticle(author *models.User, overrides ...func(*models.Article)) *models.Article {
	numTags := f.rng.Intn(4)
	tags := make(models.Tags, 0, numTags)
	for _, idx := range f.rng.Perm(len(seedTags))[:numTags] {
		tags = append(tags, seedTags[idx])
	}

	article := &models.Article{
		AuthorID:   author.ID,
		Title:      gofakeit.Sentence(6),
		Content:    gofakeit.Paragraph(3, 5, 12, "\n\n"),
		Tags:       tags,
		CoverImage: fmt.Sprintf("https://picsum.photos/seed/%s/1200/600", gofakeit.UUID()),
		CreatedAt:  f.pastTimestamp(),
	}
	for _, override := range overrides {
		override(article)
	}
	return article
}

// BuildComment constructs a comment on the given article.
func (f *Factory) BuildComment(author *models.User, article *models.Article) *models.Comment {
	createdAt := article.CreatedAt.Add(time.Duration(f.rng.Intn(72)+1) * time.Hour)
	if createdAt.After(time.Now()) {
		createdAt = time.Now()
	}
	return &models.Comment{
		ArticleID: article.ID,
		AuthorID:  author.ID,
		Content:   gofakeit.Sentence(12),
		CreatedAt: createdAt,
	}
}
