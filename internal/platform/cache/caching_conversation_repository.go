// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"planner_backend/internal/feature/chat/domain/entity"
	"planner_backend/internal/feature/chat/usecase"
)

// CachingConversationRepository decorates a ConversationRepository with a Redis cache.
// Writes go to the inner repository first and then replace the cached copy.
// A cache miss only fills an empty key, so it never overwrites a copy written by Save.
type CachingConversationRepository struct {
	inner     usecase.ConversationRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.ConversationRepository = (*CachingConversationRepository)(nil)

// NewCachingConversationRepository decorates a ConversationRepository with Redis caching.
// If ttl is 0, it defaults to 10 minutes. If namespace is empty, it uses "conversations".
// A nil rdb disables caching.
func NewCachingConversationRepository(rdb *redis.Client, ttl time.Duration, inner usecase.ConversationRepository, namespace string) *CachingConversationRepository {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if namespace == "" {
		namespace = "conversations"
	}
	return &CachingConversationRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Load returns the cached conversation, falling back to the inner repository on a miss.
// Missing conversations are not cached.
func (c *CachingConversationRepository) Load(ctx context.Context, userID string) (*entity.Conversation, error) {
	if c.rdb == nil {
		return c.inner.Load(ctx, userID)
	}

	key := c.cacheKey(userID)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var conv entity.Conversation
		if err := json.Unmarshal(b, &conv); err == nil && conv.UserID == userID {
			return &conv, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	conv, err := c.inner.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache only if no newer copy was written meanwhile (best effort)
	if b, err := json.Marshal(conv); err == nil {
		_ = c.rdb.SetNX(ctx, key, b, c.ttl).Err()
	}
	return conv, nil
}

// Save persists conv and writes it to the cache.
// If the cache cannot be refreshed the entry is dropped, and if that also
// fails an error is returned.
func (c *CachingConversationRepository) Save(ctx context.Context, conv *entity.Conversation) error {
	if err := c.inner.Save(ctx, conv); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}

	key := c.cacheKey(conv.UserID)
	b, err := json.Marshal(conv)
	if err == nil {
		err = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	if err == nil {
		return nil
	}

	slog.Warn("failed to refresh conversation cache", "user_id", conv.UserID, "error", err)
	if delErr := c.rdb.Del(ctx, key).Err(); delErr != nil {
		return fmt.Errorf("conversation saved but cache is stale: %w", errors.Join(err, delErr))
	}
	return nil
}

func (c *CachingConversationRepository) cacheKey(userID string) string {
	return c.namespace + ":" + safe(userID)
}
