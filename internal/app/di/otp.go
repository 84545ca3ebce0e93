// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "planner_backend/internal/feature/auth/adapters"
	"planner_backend/internal/feature/auth/usecase"
	"planner_backend/internal/platform/config"
	"planner_backend/internal/platform/mail"
	"planner_backend/internal/platform/otpstore"
)

// ExpiredOTPSweeper removes expired codes from a store without native expiry.
type ExpiredOTPSweeper interface {
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewOTPRepository creates an OTPRepository implementation.
// If Redis is available, it returns a Redis-backed implementation whose keys expire on their own.
// Otherwise, it falls back to the database and also returns a sweeper for expired rows.
func NewOTPRepository(rdb *redis.Client, db *gorm.DB) (usecase.OTPRepository, ExpiredOTPSweeper) {
	if rdb != nil {
		return otpstore.NewOTPRedis(rdb, "otp"), nil
	}
	repo := authadapters.NewOTPGorm(db)
	return repo, repo
}

// OTPIssueRecorder counts issued codes.
type OTPIssueRecorder interface {
	RecordOTPIssued()
}

// countingSender records a metric for every code handed to the wrapped sender.
type countingSender struct {
	inner    usecase.OTPSender
	recorder OTPIssueRecorder
}

func (s countingSender) SendOTP(ctx context.Context, email, code string) error {
	s.recorder.RecordOTPIssued()
	return s.inner.SendOTP(ctx, email, code)
}

// NewOTPSender returns an SMTP sender when mail credentials are configured,
// or a sender that only logs the code.
func NewOTPSender(cfg config.Mail, recorder OTPIssueRecorder) usecase.OTPSender {
	var inner usecase.OTPSender = mail.LogSender{}
	if cfg.Enabled() {
		inner = mail.NewSender(cfg)
	}
	return countingSender{inner: inner, recorder: recorder}
}

// RunOTPSweeper deletes codes that expired more than retention ago, every interval, until ctx is done.
func RunOTPSweeper(ctx context.Context, sweeper ExpiredOTPSweeper, interval, retention time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := sweeper.DeleteExpired(ctx, now.Add(-retention))
			if err != nil {
				slog.Warn("otp sweep failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("expired otps removed", "count", n)
			}
		}
	}
}
