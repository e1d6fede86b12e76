// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"anyrite/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumArticles int
	ShouldClean bool
	MaxDays     int
}

// Seeder populates the database with demo data.
type Seeder struct {
	db  *gorm.DB
	f   *Factory
	rng *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{
		db:  db,
		f:   NewFactory(db, opts),
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes seeded rows. Order matters because of foreign keys.
func (s *Seeder) ClearAll() error {
	for _, stmt := range []string{
		"DELETE FROM likes",
		"DELETE FROM comments",
		"DELETE FROM articles",
		"DELETE FROM users",
	} {
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("clear data: %w", err)
		}
	}
	return nil
}

// Seed populates the database with test users, articles, comments and likes.
func (s *Seeder) Seed(opts Options) error {
	log.Printf("Starting database seeding with %d users and %d articles...", opts.NumUsers, opts.NumArticles)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	users, err := s.createUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d test users", len(users))

	articles, err := s.createArticles(users, opts.NumArticles)
	if err != nil {
		return fmt.Errorf("failed to create articles: %w", err)
	}
	log.Printf("created %d articles", len(articles))

	if err := s.createEngagement(users, articles); err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}
	log.Println("engagement seeded")

	return nil
}

func (s *Seeder) createUsers(n int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("Password123!abc"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user := s.f.BuildUser(string(hashed))
		if err := s.db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) createArticles(users []*models.User, n int) ([]*models.Article, error) {
	if len(users) == 0 {
		return nil, nil
	}
	articles := make([]*models.Article, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.rng.Intn(len(users))]
		article := s.f.BuildArticle(author)
		if err := s.db.Create(article).Error; err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, nil
}

// createEngagement sprinkles likes and comments over the articles, bumping
// the denormalized counters the same way the live mutation paths do.
func (s *Seeder) createEngagement(users []*models.User, articles []*models.Article) error {
	for _, article := range articles {
		numLikes := s.rng.Intn(len(users) + 1)
		perm := s.rng.Perm(len(users))
		for _, idx := range perm[:numLikes] {
			like := &models.Like{UserID: users[idx].ID, ArticleID: article.ID}
			if err := s.db.Create(like).Error; err != nil {
				return err
			}
		}

		numComments := s.rng.Intn(5)
		for i := 0; i < numComments; i++ {
			commenter := users[s.rng.Intn(len(users))]
			comment := s.f.BuildComment(commenter, article)
			if err := s.db.Create(comment).Error; err != nil {
				return err
			}
		}

		err := s.db.Model(&models.Article{}).Where("id = ?", article.ID).
			Updates(map[string]interface{}{
				"likes_count":    numLikes,
				"comments_count": numComments,
			}).Error
		if err != nil {
			return err
		}
	}
	return nil
}
