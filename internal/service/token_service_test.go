package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTokenService_IssueParse(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	userID := uuid.New()

	token, err := svc.Issue(userID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parsed, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed != userID {
		t.Fatalf("user id esperado %s, got %s", userID, parsed)
	}
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	svc.ttl = -time.Minute
	token, err := svc.Issue(uuid.New())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = svc.Parse(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("esperado ErrTokenExpired, got %v", err)
	}
}

func TestTokenService_WrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", time.Hour)
	verifier := NewTokenService("secret-b", time.Hour)

	token, err := issuer.Issue(uuid.New())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = verifier.Parse(token)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("esperado ErrTokenInvalid, got %v", err)
	}
}

func TestTokenService_GarbageInput(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	for _, input := range []string{"", "   ", "no-es-un-jwt"} {
		if _, err := svc.Parse(input); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("input %q: esperado ErrTokenInvalid, got %v", input, err)
		}
	}
}
