package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/fathima-sithara/clinic-backend/internal/models"
	"github.com/fathima-sithara/clinic-backend/internal/repository"
	"github.com/fathima-sithara/clinic-backend/internal/utils"
)

type fakeLoader struct {
	holder models.AccountHolder
}

func (f *fakeLoader) FindAccountByID(_ context.Context, id string) (models.AccountHolder, error) {
	if f.holder == nil || f.holder.AccountID().Hex() != id {
		return nil, repository.ErrNotFound
	}
	return f.holder, nil
}

type fakeDenylist struct {
	revoked map[string]bool
}

func (f *fakeDenylist) Revoke(_ context.Context, token string, _ time.Duration) error {
	f.revoked[token] = true
	return nil
}

func (f *fakeDenylist) IsRevoked(_ context.Context, token string) (bool, error) {
	return f.revoked[token], nil
}

type protectFixture struct {
	app     *fiber.App
	tokens  *utils.TokenManager
	patient *models.Patient
	deny    *fakeDenylist
}

func newProtectFixture(t *testing.T) *protectFixture {
	t.Helper()
	patient := &models.Patient{
		ID:     primitive.NewObjectID(),
		Name:   "Amina",
		Email:  "amina@example.com",
		Active: true,
	}
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	deny := &fakeDenylist{revoked: make(map[string]bool)}
	loaders := map[string]AccountLoader{
		models.RolePatient: &fakeLoader{holder: patient},
	}

	app := fiber.New()
	app.Use(Protect(tokens, deny, loaders, zap.NewNop().Sugar()))
	app.Get("/patient-only", RestrictTo(models.RolePatient), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(LocalsAccountID).(string))
	})
	app.Get("/admin-only", RestrictTo(models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	return &protectFixture{app: app, tokens: tokens, patient: patient, deny: deny}
}

func (f *protectFixture) get(t *testing.T, path, bearer string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+bearer)
	}
	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func (f *protectFixture) issue(t *testing.T) string {
	t.Helper()
	token, _, err := f.tokens.Issue(f.patient.ID.Hex(), models.RolePatient)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return token
}

func TestProtectRejectsMissingToken(t *testing.T) {
	f := newProtectFixture(t)
	if resp := f.get(t, "/patient-only", ""); resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestProtectRejectsGarbageToken(t *testing.T) {
	f := newProtectFixture(t)
	if resp := f.get(t, "/patient-only", "not.a.token"); resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestProtectRejectsExpiredToken(t *testing.T) {
	f := newProtectFixture(t)
	expired := utils.NewTokenManager("test-secret", -time.Minute)
	token, _, err := expired.Issue(f.patient.ID.Hex(), models.RolePatient)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if resp := f.get(t, "/patient-only", token); resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestProtectAcceptsValidToken(t *testing.T) {
	f := newProtectFixture(t)
	resp := f.get(t, "/patient-only", f.issue(t))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestProtectAcceptsCookieToken(t *testing.T) {
	f := newProtectFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/patient-only", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: f.issue(t)})
	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestProtectRejectsRevokedToken(t *testing.T) {
	f := newProtectFixture(t)
	token := f.issue(t)
	f.deny.revoked[token] = true
	if resp := f.get(t, "/patient-only", token); resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestProtectRejectsTokenAfterPasswordChange(t *testing.T) {
	f := newProtectFixture(t)
	token := f.issue(t)

	changed := time.Now().Add(2 * time.Second)
	f.patient.PasswordChangedAt = &changed
	if resp := f.get(t, "/patient-only", token); resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401 after password change", resp.StatusCode)
	}
}

func TestProtectAllowsSameSecondPasswordChange(t *testing.T) {
	f := newProtectFixture(t)
	token := f.issue(t)

	// The backdated stamp keeps tokens issued in the same second valid.
	f.patient.StampPasswordChanged()
	if resp := f.get(t, "/patient-only", token); resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200 for same-second change", resp.StatusCode)
	}
}

func TestProtectRejectsDeletedAccount(t *testing.T) {
	f := newProtectFixture(t)
	token := f.issue(t)

	// Simulate soft deletion: the loader no longer resolves the subject.
	f.patient.ID = primitive.NewObjectID()
	if resp := f.get(t, "/patient-only", token); resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for vanished account", resp.StatusCode)
	}
}

func TestProtectRejectsUnknownRole(t *testing.T) {
	f := newProtectFixture(t)
	token, _, err := f.tokens.Issue(f.patient.ID.Hex(), "superuser")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if resp := f.get(t, "/patient-only", token); resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for unknown role", resp.StatusCode)
	}
}

func TestRestrictToForbidsWrongRole(t *testing.T) {
	f := newProtectFixture(t)
	if resp := f.get(t, "/admin-only", f.issue(t)); resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
}
