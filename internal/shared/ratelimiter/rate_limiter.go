// Package ratelimiter provides outbound and per-client request throttling
// built on golang.org/x/time/rate.
package ratelimiter

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterInterface は、外部API呼び出しなどの操作の頻度を制限するインターフェースです。
// 補完ユースケースはこの型で外部呼び出しを待機させます。
type RateLimiterInterface interface {
	Wait(ctx context.Context) error
}

// RateLimiter は、外部API呼び出しの頻度をトークンバケットで制限します。
type RateLimiter struct {
	lim *rate.Limiter
}

var _ RateLimiterInterface = (*RateLimiter)(nil)

// NewRateLimiter は interval あたり limit 回まで許可する RateLimiter を生成します。
// limit が0以下の場合は制限しません。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	if limit <= 0 || interval <= 0 {
		return &RateLimiter{lim: rate.NewLimiter(rate.Inf, 0)}
	}
	every := interval / time.Duration(limit)
	return &RateLimiter{lim: rate.NewLimiter(rate.Every(every), limit)}
}

// Wait はトークンが得られるまで待機します。
// コンテキストがキャンセルされた場合、または期限内にトークンが得られない場合はエラーを返します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl.lim.Allow() {
		return nil
	}
	slog.Debug("[RATE LIMIT] outbound call throttled")
	return rl.lim.Wait(ctx)
}
