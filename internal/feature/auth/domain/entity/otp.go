package entity

import "time"

// OTP is a pending one-time code proving control of an email address.
// At most one record exists per email; a resend overwrites it.
type OTP struct {
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired reports whether the code is no longer valid at now.
func (o *OTP) IsExpired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
