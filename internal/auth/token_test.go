package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTokenCodec_SignVerify_RoundTrip(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour)

	token, err := codec.Sign("user-123")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("expected userId user-123, got %q", claims.UserID)
	}
}

func TestTokenCodec_Verify_WrongSecret(t *testing.T) {
	signer := NewTokenCodec("secret-a", time.Hour)
	verifier := NewTokenCodec("secret-b", time.Hour)

	token, err := signer.Sign("user-123")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenCodec_Verify_Expired(t *testing.T) {
	codec := NewTokenCodec("test-secret", -time.Minute)

	token, err := codec.Sign("user-123")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := codec.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenCodec_Verify_Malformed(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour)

	inputs := []string{
		"",
		"not-a-jwt",
		"a.b",
		"a.b.c",
		strings.Repeat("x", 4096),
	}
	for _, input := range inputs {
		if _, err := codec.Verify(input); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q): expected ErrInvalidToken, got %v", input, err)
		}
	}
}

func TestTokenCodec_Verify_TamperedPayload(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour)

	token, err := codec.Sign("user-123")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 token segments, got %d", len(parts))
	}
	tampered := parts[0] + ".eyJ1c2VySWQiOiJvdGhlciJ9." + parts[2]

	if _, err := codec.Verify(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for tampered token, got %v", err)
	}
}
