// Package adapters provides repository implementations for the auth feature.
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"planner_backend/internal/feature/auth/domain/entity"
	"planner_backend/internal/feature/auth/usecase"
)

// otpGorm is a GORM implementation of the OTPRepository interface.
// It is used when Redis is not available.
type otpGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure otpGorm implements OTPRepository.
var _ usecase.OTPRepository = (*otpGorm)(nil)

// NewOTPGorm creates a new instance of otpGorm.
func NewOTPGorm(db *gorm.DB) *otpGorm {
	return &otpGorm{db: db}
}

// Upsert inserts the code or overwrites the pending code for the same email.
func (r *otpGorm) Upsert(ctx context.Context, otp *entity.OTP) error {
	model := OTPModelFromEntity(otp)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"code", "expires_at", "updated_at"}),
	}).Create(model).Error
}

// FindByEmail retrieves the pending code for an email.
func (r *otpGorm) FindByEmail(ctx context.Context, email string) (*entity.OTP, error) {
	var model OTPModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrOTPNotFound
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

// Delete removes the pending code for an email.
func (r *otpGorm) Delete(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Delete(&OTPModel{}, "email = ?", email).Error
}

// DeleteExpired removes codes that expired before cutoff and returns how many were removed.
// Expiry is enforced at use; this only keeps the table from growing.
func (r *otpGorm) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", cutoff).
		Delete(&OTPModel{})
	return result.RowsAffected, result.Error
}
