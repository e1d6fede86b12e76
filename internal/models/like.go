package models

import "time"

// Like represents a user's like on an article.
// The combination of UserID and ArticleID must be unique; that uniqueness
// constraint is what keeps a racing double-like from double-incrementing the
// article's likes_count.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_article" json:"user_id"`
	ArticleID uint      `gorm:"not null;uniqueIndex:idx_user_article" json:"article_id"`
	CreatedAt time.Time `json:"created_at"`
}
