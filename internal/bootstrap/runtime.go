// Package bootstrap wires up runtime dependencies shared by the server and
// auxiliary commands: database, redis, and optional development conveniences.
package bootstrap

import (
	"errors"
	"fmt"
	"strings"

	"anyrite/internal/cache"
	"anyrite/internal/config"
	"anyrite/internal/database"
	"anyrite/internal/models"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	EnsureDevAccount bool
}

// InitRuntime connects to DB and Redis and optionally provisions a
// development login account.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Redis is optional; the client is nil when unreachable.
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.EnsureDevAccount {
		if err := ensureDevAccount(cfg, db); err != nil {
			return nil, nil, fmt.Errorf("failed to bootstrap development account: %w", err)
		}
	}

	return db, r, nil
}

// ensureDevAccount creates a known login for local development so the API can
// be exercised without running the register flow first. Active only in the
// development environment and only when DEV_BOOTSTRAP_ACCOUNT is enabled.
func ensureDevAccount(cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapAccount {
		return nil
	}

	username := strings.TrimSpace(cfg.DevAccountUsername)
	if username == "" {
		username = "anyrite_dev"
	}
	email := strings.TrimSpace(strings.ToLower(cfg.DevAccountEmail))
	if email == "" {
		email = "dev@anyrite.local"
	}
	password := cfg.DevAccountPassword
	if password == "" {
		return fmt.Errorf("DEV_ACCOUNT_PASSWORD must be set when DEV_BOOTSTRAP_ACCOUNT is enabled")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash dev account password: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		findErr := tx.Where("username = ?", username).First(&existing).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			return tx.Create(&models.User{
				Username: username,
				Email:    email,
				Password: string(hashedPassword),
			}).Error
		case findErr != nil:
			return findErr
		default:
			// Keep the credentials current so a changed DEV_ACCOUNT_PASSWORD
			// takes effect on restart.
			return tx.Model(&existing).Updates(map[string]any{
				"email":    email,
				"password": string(hashedPassword),
			}).Error
		}
	})
}
