package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fathima-sithara/clinic-backend/internal/models"
	"github.com/fathima-sithara/clinic-backend/internal/repository"
	"github.com/fathima-sithara/clinic-backend/internal/utils"
)

// AuthService drives the credential lifecycle for one entity collection.
// The same implementation serves doctors and patients: the repository decides
// which collection is behind it and the record itself reports its role.
type AuthService struct {
	accounts repository.AccountRepository
	tokens   *utils.TokenManager
	denylist Denylist
	mailer   Mailer
	resetTTL time.Duration
	log      *zap.SugaredLogger
}

func NewAuthService(
	accounts repository.AccountRepository,
	tokens *utils.TokenManager,
	denylist Denylist,
	mailer Mailer,
	resetTTL time.Duration,
	log *zap.SugaredLogger,
) *AuthService {
	return &AuthService{
		accounts: accounts,
		tokens:   tokens,
		denylist: denylist,
		mailer:   mailer,
		resetTTL: resetTTL,
		log:      log,
	}
}

// IssueToken signs an access token for the given record.
func (s *AuthService) IssueToken(holder models.AccountHolder) (string, error) {
	token, _, err := s.tokens.Issue(holder.AccountID().Hex(), holder.Role())
	return token, err
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, models.AccountHolder, error) {
	holder, err := s.accounts.FindAccountByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !holder.Credentials().VerifyPassword(password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.IssueToken(holder)
	if err != nil {
		return "", nil, err
	}
	return token, holder, nil
}

// Logout revokes a live token server-side. Structurally invalid tokens are
// ignored: the client is discarding its copy either way.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}
	claims, err := s.tokens.Parse(rawToken)
	if err != nil {
		return nil
	}
	return s.denylist.Revoke(ctx, rawToken, claims.RemainingTTL())
}

// ForgotPassword issues a reset token and mails it out-of-band. An unknown
// email succeeds silently so the endpoint cannot be used for enumeration.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	holder, err := s.accounts.FindAccountByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	acct := holder.Credentials()
	raw, err := acct.NewPasswordResetToken(s.resetTTL)
	if err != nil {
		return err
	}
	if err := s.accounts.SaveCredentials(ctx, holder.AccountID(), acct); err != nil {
		return err
	}

	html := fmt.Sprintf(`
		<p>Hi,</p>
		<p>We received a request to reset your clinic account password.</p>
		<p>Your reset code is: <strong>%s</strong></p>
		<p>It expires in %s. If you did not request a reset, you can safely ignore this email.</p>
	`, raw, s.resetTTL)

	if err := s.mailer.Send(ctx, holder.AccountEmail(), "Password Reset Request", html); err != nil {
		// Undo the pending token so a half-delivered reset cannot linger.
		acct.PasswordResetToken = ""
		acct.PasswordResetExpires = nil
		if saveErr := s.accounts.SaveCredentials(ctx, holder.AccountID(), acct); saveErr != nil {
			s.log.Errorw("failed to clear reset token after mail failure", "error", saveErr)
		}
		s.log.Errorw("reset email delivery failed", "error", err)
		return ErrMailSend
	}
	return nil
}

// VerifyResetToken checks a raw reset token without consuming it.
func (s *AuthService) VerifyResetToken(ctx context.Context, rawToken string) error {
	_, err := s.findByResetToken(ctx, rawToken)
	return err
}

// ResetPassword consumes a reset token, sets the new password and issues a
// fresh access token. The token digest is cleared in the same write, so a
// second attempt with the same token fails.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, newPassword string) (string, error) {
	holder, err := s.findByResetToken(ctx, rawToken)
	if err != nil {
		return "", err
	}

	acct := holder.Credentials()
	if err := acct.ConsumeResetToken(newPassword); err != nil {
		return "", err
	}
	if err := s.accounts.SaveCredentials(ctx, holder.AccountID(), acct); err != nil {
		return "", err
	}
	return s.IssueToken(holder)
}

// UpdatePassword changes the password of an authenticated account. The
// current password must verify first.
func (s *AuthService) UpdatePassword(ctx context.Context, id, current, newPassword string) (string, error) {
	holder, err := s.accounts.FindAccountByID(ctx, id)
	if err != nil {
		return "", err
	}

	acct := holder.Credentials()
	if !acct.VerifyPassword(current) {
		return "", ErrInvalidCredentials
	}

	if err := acct.SetPassword(newPassword); err != nil {
		return "", err
	}
	acct.StampPasswordChanged()
	if err := s.accounts.SaveCredentials(ctx, holder.AccountID(), acct); err != nil {
		return "", err
	}
	return s.IssueToken(holder)
}

func (s *AuthService) findByResetToken(ctx context.Context, rawToken string) (models.AccountHolder, error) {
	holder, err := s.accounts.FindAccountByResetDigest(ctx, utils.HashResetToken(rawToken))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrResetTokenInvalid
		}
		return nil, err
	}
	if !holder.Credentials().ResetTokenValid(rawToken) {
		return nil, ErrResetTokenInvalid
	}
	return holder, nil
}
