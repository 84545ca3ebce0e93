package adapters

import (
	"time"

	"planner_backend/internal/feature/auth/domain/entity"
)

// OTPModel is the GORM model for the otps table.
type OTPModel struct {
	Email     string    `gorm:"primaryKey;size:255"`
	Code      string    `gorm:"size:6;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (OTPModel) TableName() string {
	return "otps"
}

// ToEntity converts the GORM model to a domain entity.
func (m *OTPModel) ToEntity() *entity.OTP {
	return &entity.OTP{
		Email:     m.Email,
		Code:      m.Code,
		ExpiresAt: m.ExpiresAt,
	}
}

// OTPModelFromEntity converts a domain entity to a GORM model.
func OTPModelFromEntity(o *entity.OTP) *OTPModel {
	return &OTPModel{
		Email:     o.Email,
		Code:      o.Code,
		ExpiresAt: o.ExpiresAt,
	}
}
