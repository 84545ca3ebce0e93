package di

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	chatadapters "planner_backend/internal/feature/chat/adapters"
	"planner_backend/internal/feature/chat/adapters/gemini"
	chatusecase "planner_backend/internal/feature/chat/usecase"
	"planner_backend/internal/platform/cache"
	"planner_backend/internal/platform/config"
	"planner_backend/internal/platform/externalapi/openrouter"
	infrahttp "planner_backend/internal/platform/http"
)

// conversationCacheTTL bounds how long a cached conversation may outlive a missed invalidation.
const conversationCacheTTL = 10 * time.Minute

// NewCompleter creates the completion client selected by cfg.Completion.Provider.
func NewCompleter(ctx context.Context, cfg *config.Config) (chatusecase.Completer, error) {
	switch strings.ToLower(cfg.Completion.Provider) {
	case "", "openrouter":
		orCfg := openrouter.ConfigFrom(cfg)
		httpClient := infrahttp.NewHTTPClient(orCfg.Timeout)
		return openrouter.NewClient(orCfg, httpClient), nil
	case "gemini":
		return gemini.NewGeminiCompleter(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	default:
		return nil, fmt.Errorf("unsupported completion provider %q", cfg.Completion.Provider)
	}
}

// NewConversationRepository creates a ConversationRepository backed by the database.
// If Redis is available, reads go through a cache in front of it.
func NewConversationRepository(rdb *redis.Client, db *gorm.DB) chatusecase.ConversationRepository {
	repo := chatadapters.NewConversationGorm(db)
	if rdb == nil {
		return repo
	}
	return cache.NewCachingConversationRepository(rdb, conversationCacheTTL, repo, "conversations")
}
