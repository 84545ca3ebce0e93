package usecase

import (
	"context"

	"planner_backend/internal/feature/auth/domain/entity"
)

// OTPRepository abstracts the storage of pending one-time codes.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type OTPRepository interface {
	// Upsert stores the code for otp.Email, replacing any pending code for that email.
	Upsert(ctx context.Context, otp *entity.OTP) error

	// FindByEmail returns the pending code for email, or ErrOTPNotFound.
	FindByEmail(ctx context.Context, email string) (*entity.OTP, error)

	// Delete removes the pending code for email. Deleting a missing code is not an error.
	Delete(ctx context.Context, email string) error
}

// OTPSender delivers a one-time code to its owner.
type OTPSender interface {
	SendOTP(ctx context.Context, email, code string) error
}
