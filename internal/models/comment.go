package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on an article. Comments are append-only: the
// API defines no edit or delete operation for them.
type Comment struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ArticleID uint   `gorm:"not null;index" json:"article_id"`
	AuthorID  uint   `gorm:"not null" json:"author_id"`
	Author    User   `gorm:"foreignKey:AuthorID" json:"-"`
	Content   string `gorm:"type:text;not null" json:"content"`
	// Username is not persisted; resolved from the users table at query time.
	Username  string         `gorm:"->;-:migration" json:"username"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
