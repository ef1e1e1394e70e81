package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/fathima-sithara/clinic-backend/internal/utils"
)

// PasswordHashCost is the bcrypt work factor for newly written hashes.
const PasswordHashCost = 12

// passwordChangedSkew is subtracted from the change timestamp so a token
// issued in the same wall-clock second as a password change still verifies.
const passwordChangedSkew = time.Second

// Account is the credential block shared by doctors and patients. It is
// embedded inline in both documents so the password lifecycle is written once.
// None of its fields are ever serialized to JSON.
type Account struct {
	PasswordHash         string     `bson:"password_hash,omitempty" json:"-"`
	PasswordChangedAt    *time.Time `bson:"password_changed_at,omitempty" json:"-"`
	PasswordResetToken   string     `bson:"password_reset_token,omitempty" json:"-"`
	PasswordResetExpires *time.Time `bson:"password_reset_expires,omitempty" json:"-"`
}

// AccountHolder is implemented by Doctor and Patient so the authentication
// service can operate on either without knowing the concrete entity.
type AccountHolder interface {
	AccountID() primitive.ObjectID
	AccountEmail() string
	Credentials() *Account
	Role() string
}

// SetPassword hashes the plaintext and clears any pending reset token. The
// confirmation field never reaches this point; it is validated and dropped
// at the request boundary.
func (a *Account) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordHashCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	a.PasswordResetToken = ""
	a.PasswordResetExpires = nil
	return nil
}

// VerifyPassword compares a candidate against the stored hash.
func (a *Account) VerifyPassword(candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(candidate)) == nil
}

// StampPasswordChanged records the change time, backdated by a small skew.
// Callers must invoke it only when an existing record changes its password,
// never on first creation.
func (a *Account) StampPasswordChanged() {
	t := time.Now().Add(-passwordChangedSkew)
	a.PasswordChangedAt = &t
}

// PasswordChangedAfter reports whether the password changed after the given
// epoch-seconds instant. A record that never changed its password returns
// false for any input.
func (a *Account) PasswordChangedAfter(issuedAtUnix int64) bool {
	if a.PasswordChangedAt == nil {
		return false
	}
	return a.PasswordChangedAt.Unix() > issuedAtUnix
}

// NewPasswordResetToken issues an opaque reset token, storing its digest and
// expiry on the account and returning the raw token for delivery.
func (a *Account) NewPasswordResetToken(ttl time.Duration) (string, error) {
	raw, digest, err := utils.GenerateResetToken()
	if err != nil {
		return "", err
	}
	exp := time.Now().Add(ttl)
	a.PasswordResetToken = digest
	a.PasswordResetExpires = &exp
	return raw, nil
}

// ResetTokenValid checks a raw token against the stored digest and expiry.
// Digest mismatch and expiry are indistinguishable to the caller.
func (a *Account) ResetTokenValid(raw string) bool {
	if a.PasswordResetToken == "" || a.PasswordResetExpires == nil {
		return false
	}
	if time.Now().After(*a.PasswordResetExpires) {
		return false
	}
	return utils.HashResetToken(raw) == a.PasswordResetToken
}

// ConsumeResetToken applies a new password after a successful token check:
// re-hash, clear both reset fields, stamp the change. Exactly one reset is
// possible per issued token because the digest is cleared here.
func (a *Account) ConsumeResetToken(newPassword string) error {
	if err := a.SetPassword(newPassword); err != nil {
		return err
	}
	a.StampPasswordChanged()
	return nil
}
