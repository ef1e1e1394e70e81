package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/fathima-sithara/clinic-backend/internal/models"
	"github.com/fathima-sithara/clinic-backend/internal/repository"
	"github.com/fathima-sithara/clinic-backend/internal/utils"
)

type fakeAccountRepo struct {
	holder  models.AccountHolder
	saves   int
	saveErr error
}

func (f *fakeAccountRepo) FindAccountByEmail(_ context.Context, email string) (models.AccountHolder, error) {
	if f.holder == nil || f.holder.AccountEmail() != email {
		return nil, repository.ErrNotFound
	}
	return f.holder, nil
}

func (f *fakeAccountRepo) FindAccountByID(_ context.Context, id string) (models.AccountHolder, error) {
	if f.holder == nil || f.holder.AccountID().Hex() != id {
		return nil, repository.ErrNotFound
	}
	return f.holder, nil
}

func (f *fakeAccountRepo) FindAccountByResetDigest(_ context.Context, digest string) (models.AccountHolder, error) {
	if f.holder == nil || digest == "" || f.holder.Credentials().PasswordResetToken != digest {
		return nil, repository.ErrNotFound
	}
	return f.holder, nil
}

func (f *fakeAccountRepo) SaveCredentials(_ context.Context, _ primitive.ObjectID, _ *models.Account) error {
	f.saves++
	return f.saveErr
}

type fakeDenylist struct {
	revoked map[string]time.Duration
}

func newFakeDenylist() *fakeDenylist {
	return &fakeDenylist{revoked: make(map[string]time.Duration)}
}

func (f *fakeDenylist) Revoke(_ context.Context, token string, ttl time.Duration) error {
	f.revoked[token] = ttl
	return nil
}

func (f *fakeDenylist) IsRevoked(_ context.Context, token string) (bool, error) {
	_, ok := f.revoked[token]
	return ok, nil
}

type fakeMailer struct {
	sent    int
	to      string
	html    string
	sendErr error
}

func (f *fakeMailer) Send(_ context.Context, toEmail, _ string, html string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent++
	f.to = toEmail
	f.html = html
	return nil
}

func newTestPatient(t *testing.T, email, password string) *models.Patient {
	t.Helper()
	p := &models.Patient{
		ID:    primitive.NewObjectID(),
		Name:  "Test Patient",
		Email: email,
	}
	if err := p.SetPassword(password); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	return p
}

func newTestAuth(repo repository.AccountRepository, denylist Denylist, mailer Mailer) *AuthService {
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	return NewAuthService(repo, tokens, denylist, mailer, 10*time.Minute, zap.NewNop().Sugar())
}

// mailedToken digs the raw reset token out of the delivered email body.
func mailedToken(t *testing.T, html string) string {
	t.Helper()
	_, after, ok := strings.Cut(html, "<strong>")
	if !ok {
		t.Fatalf("no token in email body: %q", html)
	}
	token, _, ok := strings.Cut(after, "</strong>")
	if !ok {
		t.Fatalf("no token in email body: %q", html)
	}
	return token
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	p := newTestPatient(t, "amina@example.com", "pass1234")
	svc := newTestAuth(&fakeAccountRepo{holder: p}, newFakeDenylist(), &fakeMailer{})

	token, holder, err := svc.Login(ctx, "amina@example.com", "pass1234")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if holder.AccountID() != p.ID {
		t.Errorf("holder ID = %v, want %v", holder.AccountID(), p.ID)
	}

	claims, err := utils.NewTokenManager("test-secret", time.Hour).Parse(token)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.Subject != p.ID.Hex() || claims.Role != models.RolePatient {
		t.Errorf("claims = %q/%q", claims.Subject, claims.Role)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	p := newTestPatient(t, "amina@example.com", "pass1234")
	svc := newTestAuth(&fakeAccountRepo{holder: p}, newFakeDenylist(), &fakeMailer{})

	if _, _, err := svc.Login(ctx, "nobody@example.com", "pass1234"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(ctx, "amina@example.com", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogoutRevokesLiveToken(t *testing.T) {
	ctx := context.Background()
	p := newTestPatient(t, "amina@example.com", "pass1234")
	denylist := newFakeDenylist()
	svc := newTestAuth(&fakeAccountRepo{holder: p}, denylist, &fakeMailer{})

	token, _, err := svc.Login(ctx, "amina@example.com", "pass1234")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	ttl, ok := denylist.revoked[token]
	if !ok {
		t.Fatal("token not revoked")
	}
	if ttl <= 0 || ttl > time.Hour {
		t.Errorf("revocation TTL = %v", ttl)
	}
}

func TestLogoutIgnoresGarbageTokens(t *testing.T) {
	ctx := context.Background()
	denylist := newFakeDenylist()
	svc := newTestAuth(&fakeAccountRepo{}, denylist, &fakeMailer{})

	if err := svc.Logout(ctx, ""); err != nil {
		t.Errorf("Logout(empty) = %v", err)
	}
	if err := svc.Logout(ctx, "not.a.token"); err != nil {
		t.Errorf("Logout(garbage) = %v", err)
	}
	if len(denylist.revoked) != 0 {
		t.Errorf("garbage token made it into the denylist")
	}
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	ctx := context.Background()
	repo := &fakeAccountRepo{holder: newTestPatient(t, "amina@example.com", "pass1234")}
	mailer := &fakeMailer{}
	svc := newTestAuth(repo, newFakeDenylist(), mailer)

	if err := svc.ForgotPassword(ctx, "nobody@example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	if mailer.sent != 0 || repo.saves != 0 {
		t.Error("unknown email triggered a mail or a write")
	}
}

func TestForgotPasswordIssuesToken(t *testing.T) {
	ctx := context.Background()
	p := newTestPatient(t, "amina@example.com", "pass1234")
	repo := &fakeAccountRepo{holder: p}
	mailer := &fakeMailer{}
	svc := newTestAuth(repo, newFakeDenylist(), mailer)

	if err := svc.ForgotPassword(ctx, "amina@example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	if mailer.sent != 1 || mailer.to != "amina@example.com" {
		t.Fatalf("mail sent=%d to=%q", mailer.sent, mailer.to)
	}
	raw := mailedToken(t, mailer.html)
	if p.PasswordResetToken != utils.HashResetToken(raw) {
		t.Error("stored digest does not match the mailed token")
	}
	if repo.saves != 1 {
		t.Errorf("saves = %d, want 1", repo.saves)
	}
}

func TestForgotPasswordMailFailureClearsToken(t *testing.T) {
	ctx := context.Background()
	p := newTestPatient(t, "amina@example.com", "pass1234")
	repo := &fakeAccountRepo{holder: p}
	svc := newTestAuth(repo, newFakeDenylist(), &fakeMailer{sendErr: errors.New("brevo down")})

	if err := svc.ForgotPassword(ctx, "amina@example.com"); !errors.Is(err, ErrMailSend) {
		t.Fatalf("error = %v, want ErrMailSend", err)
	}
	if p.PasswordResetToken != "" || p.PasswordResetExpires != nil {
		t.Error("pending token survived a failed delivery")
	}
	if repo.saves != 2 {
		t.Errorf("saves = %d, want 2 (issue then clear)", repo.saves)
	}
}

func TestResetPasswordConsumesTokenExactlyOnce(t *testing.T) {
	ctx := context.Background()
	p := newTestPatient(t, "amina@example.com", "pass1234")
	mailer := &fakeMailer{}
	svc := newTestAuth(&fakeAccountRepo{holder: p}, newFakeDenylist(), mailer)

	if err := svc.ForgotPassword(ctx, "amina@example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	raw := mailedToken(t, mailer.html)

	// Verification does not consume.
	if err := svc.VerifyResetToken(ctx, raw); err != nil {
		t.Fatalf("VerifyResetToken: %v", err)
	}
	if err := svc.VerifyResetToken(ctx, raw); err != nil {
		t.Fatalf("second VerifyResetToken: %v", err)
	}

	token, err := svc.ResetPassword(ctx, raw, "newpass99")
	if err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if token == "" {
		t.Error("no session token issued after reset")
	}
	if !p.VerifyPassword("newpass99") {
		t.Error("new password not applied")
	}

	if _, err := svc.ResetPassword(ctx, raw, "another1"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Errorf("second reset error = %v, want ErrResetTokenInvalid", err)
	}
}

func TestResetPasswordRejectsUnknownToken(t *testing.T) {
	ctx := context.Background()
	p := newTestPatient(t, "amina@example.com", "pass1234")
	svc := newTestAuth(&fakeAccountRepo{holder: p}, newFakeDenylist(), &fakeMailer{})

	if _, err := svc.ResetPassword(ctx, "deadbeef", "newpass99"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Errorf("error = %v, want ErrResetTokenInvalid", err)
	}
	if err := svc.VerifyResetToken(ctx, "deadbeef"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Errorf("verify error = %v, want ErrResetTokenInvalid", err)
	}
}

func TestUpdatePassword(t *testing.T) {
	ctx := context.Background()
	p := newTestPatient(t, "amina@example.com", "pass1234")
	svc := newTestAuth(&fakeAccountRepo{holder: p}, newFakeDenylist(), &fakeMailer{})

	if _, err := svc.UpdatePassword(ctx, p.ID.Hex(), "wrong-pass", "newpass99"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong current password error = %v, want ErrInvalidCredentials", err)
	}

	token, err := svc.UpdatePassword(ctx, p.ID.Hex(), "pass1234", "newpass99")
	if err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	if token == "" {
		t.Error("no fresh token issued")
	}
	if !p.VerifyPassword("newpass99") || p.VerifyPassword("pass1234") {
		t.Error("password not rotated")
	}
	if p.PasswordChangedAt == nil {
		t.Error("change not stamped, old tokens would stay valid")
	}
}
