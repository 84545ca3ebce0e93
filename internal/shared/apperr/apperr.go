// Package apperr defines the error kinds shared by usecases and HTTP handlers.
package apperr

import "errors"

// Kind classifies an application error so handlers can map it to a response.
type Kind int

const (
	// KindInternal is the zero value; any error without a kind is treated as internal.
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindNotFound
	KindConflict
	KindInvalidOTP
	KindOTPExpired
	KindInvalidCredentials
	KindUpstream
)

var kindNames = map[Kind]string{
	KindInternal:           "internal",
	KindValidation:         "validation",
	KindUnauthorized:       "unauthorized",
	KindNotFound:           "not_found",
	KindConflict:           "conflict",
	KindInvalidOTP:         "invalid_otp",
	KindOTPExpired:         "otp_expired",
	KindInvalidCredentials: "invalid_credentials",
	KindUpstream:           "upstream",
}

// String returns a stable lowercase name, used as a log attribute.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Error is an error with a kind and a message that is safe to show to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// New returns an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap returns an Error of the given kind that keeps err as its cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message of err, or fallback when err carries none.
func MessageOf(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal && e.Message != "" {
		return e.Message
	}
	return fallback
}
