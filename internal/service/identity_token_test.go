package service

import (
	"errors"
	"testing"
	"time"

	"github.com/storefront-next/internal/config"
)

func TestIdentityTokenRoundTrip(t *testing.T) {
	svc := NewIdentityTokenService(config.JWTConfig{SecretKey: "test-secret", Issuer: "storefront-auth"})
	token, expiresAt, err := svc.GenerateToken(7, true, time.Hour)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expires at should be in the future")
	}
	claims, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	actor := claims.Actor()
	if actor.UserID != 7 || !actor.IsAdmin {
		t.Fatalf("unexpected actor: %+v", actor)
	}
}

func TestIdentityTokenRejectsWrongSecretAndIssuer(t *testing.T) {
	issuer := NewIdentityTokenService(config.JWTConfig{SecretKey: "secret-a", Issuer: "auth-a"})
	token, _, err := issuer.GenerateToken(3, false, time.Hour)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}

	wrongSecret := NewIdentityTokenService(config.JWTConfig{SecretKey: "secret-b", Issuer: "auth-a"})
	if _, err := wrongSecret.ParseToken(token); !errors.Is(err, ErrIdentityTokenInvalid) {
		t.Fatalf("wrong secret want ErrIdentityTokenInvalid got %v", err)
	}
	wrongIssuer := NewIdentityTokenService(config.JWTConfig{SecretKey: "secret-a", Issuer: "auth-b"})
	if _, err := wrongIssuer.ParseToken(token); !errors.Is(err, ErrIdentityTokenInvalid) {
		t.Fatalf("wrong issuer want ErrIdentityTokenInvalid got %v", err)
	}
	anyIssuer := NewIdentityTokenService(config.JWTConfig{SecretKey: "secret-a"})
	if _, err := anyIssuer.ParseToken(token); err != nil {
		t.Fatalf("empty issuer config should accept token: %v", err)
	}
}

func TestIdentityTokenExpiredAndMissingSecret(t *testing.T) {
	svc := NewIdentityTokenService(config.JWTConfig{SecretKey: "test-secret"})
	token, _, err := svc.GenerateToken(1, false, -time.Minute)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	if _, err := svc.ParseToken(token); !errors.Is(err, ErrIdentityTokenInvalid) {
		t.Fatalf("expired token want ErrIdentityTokenInvalid got %v", err)
	}

	empty := NewIdentityTokenService(config.JWTConfig{SecretKey: "  "})
	if _, _, err := empty.GenerateToken(1, false, time.Hour); !errors.Is(err, ErrIdentitySecretMissing) {
		t.Fatalf("missing secret want ErrIdentitySecretMissing got %v", err)
	}
	if _, err := empty.ParseToken(token); !errors.Is(err, ErrIdentitySecretMissing) {
		t.Fatalf("missing secret want ErrIdentitySecretMissing got %v", err)
	}
}

func TestIdentityTokenZeroUserRejected(t *testing.T) {
	svc := NewIdentityTokenService(config.JWTConfig{SecretKey: "test-secret"})
	token, _, err := svc.GenerateToken(0, false, time.Hour)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	if _, err := svc.ParseToken(token); !errors.Is(err, ErrIdentityTokenInvalid) {
		t.Fatalf("zero user want ErrIdentityTokenInvalid got %v", err)
	}
}
