package auth

import (
	"testing"
	"time"
)

func TestTokenService_RoundTrip(t *testing.T) {
	t.Parallel()
	svc := NewTokenService("test-secret", time.Hour)

	token, err := svc.Issue("user-1", "USER")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("expected user-1, got %s", claims.UserID)
	}
	if claims.Role != "USER" {
		t.Errorf("expected USER, got %s", claims.Role)
	}
}

func TestTokenService_RejectsWrongSecret(t *testing.T) {
	t.Parallel()
	issuer := NewTokenService("secret-a", time.Hour)
	validator := NewTokenService("secret-b", time.Hour)

	token, err := issuer.Issue("user-1", "USER")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := validator.Validate(token); err == nil {
		t.Error("expected validation to fail with a different secret")
	}
}

func TestTokenService_RejectsExpired(t *testing.T) {
	t.Parallel()
	svc := NewTokenService("test-secret", -time.Minute)

	token, err := svc.Issue("user-1", "USER")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Validate(token); err == nil {
		t.Error("expected validation to fail for an expired token")
	}
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	t.Parallel()
	svc := NewTokenService("test-secret", time.Hour)

	if _, err := svc.Validate("not.a.token"); err == nil {
		t.Error("expected validation to fail")
	}
}
