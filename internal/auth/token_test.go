package auth

import (
	"testing"
	"time"
)

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService("0123456789abcdef0123456789abcdef", time.Hour)

	token, err := svc.Generate(42)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	userID, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if userID != 42 {
		t.Errorf("userID = %d, want 42", userID)
	}
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService("0123456789abcdef0123456789abcdef", -time.Hour)

	token, err := svc.Generate(42)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := svc.Parse(token); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenService_WrongSecret(t *testing.T) {
	issuer := NewTokenService("0123456789abcdef0123456789abcdef", time.Hour)
	verifier := NewTokenService("ffffffffffffffffffffffffffffffff", time.Hour)

	token, err := issuer.Generate(42)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := verifier.Parse(token); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestTokenService_Garbage(t *testing.T) {
	svc := NewTokenService("0123456789abcdef0123456789abcdef", time.Hour)
	if _, err := svc.Parse("not.a.token"); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := CheckPassword(hash, "correct horse battery staple"); err != nil {
		t.Errorf("CheckPassword with right password: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); err != ErrWrongPassword {
		t.Errorf("expected ErrWrongPassword, got %v", err)
	}
	if _, err := HashPassword("short"); err == nil {
		t.Error("short password must be rejected")
	}
}
