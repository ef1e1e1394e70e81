package services

import (
	"context"
	"errors"
	"time"
)

var (
	ErrAccountExists      = errors.New("an account with this email, national ID or license ID already exists")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrResetTokenInvalid  = errors.New("reset token is invalid or has expired")
	ErrMailSend           = errors.New("failed to send reset email")
)

// Mailer delivers transactional email. Satisfied by the brevo client in
// internal/mailer; tests substitute a fake.
type Mailer interface {
	Send(ctx context.Context, toEmail, subject, html string) error
}

// Denylist records revoked bearer tokens until their natural expiry.
type Denylist interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}
