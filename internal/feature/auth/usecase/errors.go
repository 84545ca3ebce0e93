// Package usecase implements the business logic for the auth feature.
package usecase

import (
	"errors"

	"planner_backend/internal/shared/apperr"
)

var (
	// ErrEmailRequired is returned when an OTP is requested without an email.
	ErrEmailRequired = apperr.New(apperr.KindValidation, "Email required")

	// ErrAllFieldsRequired is returned when a registration field is missing.
	ErrAllFieldsRequired = apperr.New(apperr.KindValidation, "All fields required")

	// ErrBothFieldsRequired is returned when login is attempted without identifier or password.
	ErrBothFieldsRequired = apperr.New(apperr.KindValidation, "Both fields required")

	// ErrInvalidOTP is returned when no pending code matches the email and code.
	ErrInvalidOTP = apperr.New(apperr.KindInvalidOTP, "Invalid OTP")

	// ErrOTPExpired is returned when the matching code is past its expiry.
	ErrOTPExpired = apperr.New(apperr.KindOTPExpired, "OTP expired")

	// ErrDuplicateUser is returned when the email or username is already taken.
	ErrDuplicateUser = apperr.New(apperr.KindConflict, "User already exists")

	// ErrUserNotFound is returned when a user cannot be found by identifier or ID.
	ErrUserNotFound = apperr.New(apperr.KindNotFound, "User not found")

	// ErrInvalidCredentials is returned when the password does not match.
	ErrInvalidCredentials = apperr.New(apperr.KindInvalidCredentials, "Invalid credentials")

	// ErrMissingToken is returned when no session token was presented.
	ErrMissingToken = apperr.New(apperr.KindUnauthorized, "No token")

	// ErrInvalidToken is returned when the session token is malformed, forged or expired.
	ErrInvalidToken = apperr.New(apperr.KindUnauthorized, "Invalid token")

	// ErrOTPNotFound is returned by OTPRepository implementations when no code is pending for an email.
	ErrOTPNotFound = errors.New("otp not found")
)
