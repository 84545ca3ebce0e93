package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	redisv9 "github.com/redis/go-redis/v9"

	"planner_backend/internal/app/di"
	"planner_backend/internal/app/router"
	authadapters "planner_backend/internal/feature/auth/adapters"
	authhandler "planner_backend/internal/feature/auth/transport/handler"
	authusecase "planner_backend/internal/feature/auth/usecase"
	chathandler "planner_backend/internal/feature/chat/transport/handler"
	chatusecase "planner_backend/internal/feature/chat/usecase"
	statsadapters "planner_backend/internal/feature/stats/adapters"
	statshandler "planner_backend/internal/feature/stats/transport/handler"
	statsusecase "planner_backend/internal/feature/stats/usecase"
	"planner_backend/internal/platform/config"
	infradb "planner_backend/internal/platform/db"
	"planner_backend/internal/platform/http/handler"
	jwtmw "planner_backend/internal/platform/jwt"
	"planner_backend/internal/platform/logger"
	"planner_backend/internal/platform/metrics"
	infraredis "planner_backend/internal/platform/redis"
	"planner_backend/internal/shared/ratelimiter"
)

const (
	otpSweepInterval  = 15 * time.Minute
	otpRetention      = time.Hour
	limiterCleanupInt = time.Minute
	limiterIdleTTL    = 10 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger.New(cfg.Env, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	db, err := infradb.OpenDB(cfg.Database, di.Models()...)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("failed to get sql.DB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis); err != nil {
		if !errors.Is(err, infraredis.ErrDisabled) {
			slog.Warn("Redis unavailable. Running without cache.", "error", err)
		}
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// Metrics
	recorder, collector, reg := metrics.Setup(cfg.Metrics)
	var gatherer prometheus.Gatherer
	if reg != nil {
		gatherer = reg
	}

	// JWT_SECRETチェック（開発中の注意喚起）
	if cfg.JWT.Secret == "" || cfg.JWT.Secret == "dev_secret" {
		slog.Warn("JWT_SECRET is not set. Set a strong secret in production.")
	}
	tokens := jwtmw.NewGenerator(cfg.JWT.Secret, cfg.JWT.TTL)

	// Repository
	userRepo := authadapters.NewUserGorm(db)
	otpRepo, sweeper := di.NewOTPRepository(rdb, db)
	if sweeper != nil {
		go di.RunOTPSweeper(ctx, sweeper, otpSweepInterval, otpRetention)
	}
	conversationRepo := di.NewConversationRepository(rdb, db)
	statsRepo := statsadapters.NewStatsGorm(db)

	completer, err := di.NewCompleter(ctx, cfg)
	if err != nil {
		slog.Error("failed to create completer", "error", err)
		os.Exit(1)
	}
	slog.Info("completion provider", "provider", completer.Name())

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, otpRepo, di.NewOTPSender(cfg.Mail, recorder), tokens)
	statsUC := statsusecase.NewStatsUsecase(statsRepo)
	historyUC := chatusecase.NewHistoryUsecase(conversationRepo)
	completionUC := chatusecase.NewCompletionUsecase(
		conversationRepo,
		completer,
		statsUC,
		ratelimiter.NewRateLimiter(cfg.Completion.RatePerMinute, time.Minute),
		recorder,
		chatusecase.CompletionOptions{MaxTokens: cfg.Completion.MaxTokens, Temperature: cfg.Completion.Temperature},
	)

	// Handler
	handlers := router.Handlers{
		Auth:   authhandler.NewAuthHandler(authUC),
		Chat:   chathandler.NewChatHandler(historyUC, completionUC),
		Stats:  statshandler.NewStatsHandler(statsUC),
		Health: handler.NewHealthHandler(sqlDB),
	}

	authLimiter := ratelimiter.NewKeyedLimiter(cfg.HTTP.AuthRatePerMinute, cfg.HTTP.AuthRateBurst, limiterIdleTTL)
	go authLimiter.Run(limiterCleanupInt)
	defer authLimiter.Stop()

	// ルータ生成
	r := router.NewRouter(handlers, router.Options{
		AllowOrigins: cfg.HTTP.AllowOrigins,
		Sessions:     authUC,
		AuthLimiter:  authLimiter,
		Metrics:      collector,
		Gatherer:     gatherer,
	})

	slog.Info("server starting", "addr", cfg.Addr(), "env", cfg.Env)
	if err := r.Run(cfg.Addr()); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
