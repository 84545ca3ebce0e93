// Package mail delivers one-time passcodes by SMTP.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"

	"planner_backend/internal/platform/config"
)

const otpSubject = "Your OTP Code"

// dialer is the subset of *gomail.Dialer used by Sender.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Sender mails OTP codes through an SMTP relay.
type Sender struct {
	from   string
	dialer dialer
}

// NewSender creates a Sender for the given SMTP credentials.
func NewSender(cfg config.Mail) *Sender {
	return &Sender{
		from:   cfg.User,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass),
	}
}

// SendOTP mails the code to email. The context is checked before dialing;
// gomail itself does not accept one.
func (s *Sender) SendOTP(ctx context.Context, email, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", otpSubject)
	m.SetBody("text/plain", otpBody(code))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send otp mail: %w", err)
	}
	return nil
}

func otpBody(code string) string {
	return fmt.Sprintf("Your OTP is %s. It is valid for 5 minutes.", code)
}

// LogSender writes codes to the log instead of mailing them.
// Used when no SMTP credentials are configured.
type LogSender struct{}

// SendOTP logs the code.
func (LogSender) SendOTP(_ context.Context, email, code string) error {
	slog.Info("otp issued (mail disabled)", "email", email, "code", code)
	return nil
}
