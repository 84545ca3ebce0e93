// Package otpstore provides a Redis-backed store for pending one-time codes.
package otpstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"planner_backend/internal/feature/auth/domain/entity"
	"planner_backend/internal/feature/auth/usecase"
)

// DefaultGrace keeps an expired code readable for a while so that a late
// registration attempt reports "OTP expired" instead of "Invalid OTP".
const DefaultGrace = 10 * time.Minute

// OTPRedis implements usecase.OTPRepository using Redis.
type OTPRedis struct {
	client *redis.Client
	prefix string
	grace  time.Duration
}

var _ usecase.OTPRepository = (*OTPRedis)(nil)

// NewOTPRedis creates a new OTPRedis instance.
func NewOTPRedis(client *redis.Client, prefix string) *OTPRedis {
	if prefix == "" {
		prefix = "otp"
	}
	return &OTPRedis{
		client: client,
		prefix: prefix,
		grace:  DefaultGrace,
	}
}

// otpKey returns the Redis key for an email's pending code.
func (r *OTPRedis) otpKey(email string) string {
	return fmt.Sprintf("%s:%s", r.prefix, email)
}

// Upsert stores the code, overwriting any pending code for the same email.
// The key expires DefaultGrace after the code itself.
func (r *OTPRedis) Upsert(ctx context.Context, otp *entity.OTP) error {
	data, err := json.Marshal(otp)
	if err != nil {
		return fmt.Errorf("failed to marshal otp: %w", err)
	}

	ttl := time.Until(otp.ExpiresAt) + r.grace
	if ttl <= 0 {
		return fmt.Errorf("otp already expired")
	}

	return r.client.Set(ctx, r.otpKey(otp.Email), data, ttl).Err()
}

// FindByEmail retrieves the pending code for an email.
func (r *OTPRedis) FindByEmail(ctx context.Context, email string) (*entity.OTP, error) {
	data, err := r.client.Get(ctx, r.otpKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, usecase.ErrOTPNotFound
		}
		return nil, err
	}

	var otp entity.OTP
	if err := json.Unmarshal(data, &otp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal otp: %w", err)
	}
	return &otp, nil
}

// Delete removes the pending code for an email.
func (r *OTPRedis) Delete(ctx context.Context, email string) error {
	return r.client.Del(ctx, r.otpKey(email)).Err()
}
