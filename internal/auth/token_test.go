package auth

import (
	"testing"
	"time"
)

func TestSignAndVerifyRoundTrip(t *testing.T) {
	secret := []byte("secret")
	claims := map[string]any{
		"sub":  "u1",
		"role": "customer",
		"exp":  time.Now().Add(time.Minute).Unix(),
	}

	token, err := SignHS256(claims, secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	got, err := ParseAndVerifyHS256(token, secret)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got["sub"] != "u1" || got["role"] != "customer" {
		t.Fatalf("unexpected claims: %v", got)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := SignHS256(map[string]any{"sub": "u1"}, []byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseAndVerifyHS256(token, []byte("other")); err == nil {
		t.Fatalf("expected signature mismatch")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	token, err := SignHS256(map[string]any{"sub": "u1", "exp": time.Now().Add(-time.Minute).Unix()}, []byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseAndVerifyHS256(token, []byte("secret")); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	for _, token := range []string{"", "a.b", "a.b.c.d", "not-a-token"} {
		if _, err := ParseAndVerifyHS256(token, []byte("secret")); err == nil {
			t.Fatalf("expected %q to be rejected", token)
		}
	}
}
