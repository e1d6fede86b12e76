package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix    = "user:%d"
	ArticleKeyPrefix = "article:%d"
	FeedKey          = "articles:feed"
)

const (
	UserTTL = 5 * time.Minute
	// ArticleTTL is short: cached articles carry denormalized counters and are
	// invalidated on every counter mutation, but a short TTL bounds staleness
	// if an invalidation is lost.
	ArticleTTL = 2 * time.Minute
	FeedTTL    = 30 * time.Second
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func ArticleKey(articleID uint) string {
	return fmt.Sprintf(ArticleKeyPrefix, articleID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidateArticle drops the cached article and the feed. Called on every
// mutation that touches the article row, its counters included, so that a
// fresh read reflects the committed counter.
func InvalidateArticle(ctx context.Context, articleID uint) {
	Invalidate(ctx, ArticleKey(articleID))
	Invalidate(ctx, FeedKey)
}
