package utils

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundtrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	signed, exp, err := tm.Issue("507f1f77bcf86cd799439011", "patient")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if time.Until(exp) > time.Hour || time.Until(exp) < 59*time.Minute {
		t.Errorf("unexpected expiry %v", exp)
	}

	claims, err := tm.Parse(signed)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Subject != "507f1f77bcf86cd799439011" {
		t.Errorf("subject = %q", claims.Subject)
	}
	if claims.Role != "patient" {
		t.Errorf("role = %q", claims.Role)
	}
	if rem := claims.RemainingTTL(); rem <= 0 || rem > time.Hour {
		t.Errorf("remaining TTL = %v", rem)
	}
}

func TestTokenExpired(t *testing.T) {
	tm := NewTokenManager("test-secret", -time.Minute)
	signed, _, err := tm.Issue("id", "doctor")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := tm.Parse(signed); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Parse error = %v, want ErrTokenExpired", err)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	signed, _, err := NewTokenManager("secret-a", time.Hour).Issue("id", "doctor")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := NewTokenManager("secret-b", time.Hour).Parse(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Parse error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	for _, tok := range []string{"", "not.a.jwt", "aaaa"} {
		if _, err := tm.Parse(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Parse(%q) error = %v, want ErrInvalidToken", tok, err)
		}
	}
}

func TestGenerateResetToken(t *testing.T) {
	raw, digest, err := GenerateResetToken()
	if err != nil {
		t.Fatalf("GenerateResetToken: %v", err)
	}
	if raw == "" || digest == "" || raw == digest {
		t.Fatalf("raw=%q digest=%q", raw, digest)
	}
	if HashResetToken(raw) != digest {
		t.Error("digest does not match HashResetToken(raw)")
	}

	raw2, _, err := GenerateResetToken()
	if err != nil {
		t.Fatalf("GenerateResetToken: %v", err)
	}
	if raw2 == raw {
		t.Error("two generated tokens are identical")
	}
}
