package otp

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	pending := PendingLogin{
		UserID:    "u1",
		Email:     "a@b.com",
		Code:      "123456",
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}
	if err := store.Put(ctx, pending); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Code != "123456" || got.Email != "a@b.com" {
		t.Fatalf("unexpected pending login: %+v", got)
	}
}

func TestRedisStoreExpiry(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	pending := PendingLogin{UserID: "u1", Email: "a@b.com", Code: "123456", ExpiresAt: time.Now().Add(time.Minute)}
	if err := store.Put(ctx, pending); err != nil {
		t.Fatalf("put: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := store.Get(ctx, "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after expiry, got %v", err)
	}
}

func TestRedisStoreIncrementAndDelete(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	pending := PendingLogin{UserID: "u1", Email: "a@b.com", Code: "123456", ExpiresAt: time.Now().Add(time.Minute)}
	if err := store.Put(ctx, pending); err != nil {
		t.Fatalf("put: %v", err)
	}

	for want := 1; want <= 3; want++ {
		got, err := store.IncrementAttempts(ctx, "u1")
		if err != nil {
			t.Fatalf("increment: %v", err)
		}
		if got != want {
			t.Fatalf("expected %d attempts, got %d", want, got)
		}
	}

	if err := store.Delete(ctx, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestGenerateCodeShape(t *testing.T) {
	for i := 0; i < 32; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(code) != CodeLength {
			t.Fatalf("expected %d digits, got %q", CodeLength, code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("non-digit in code %q", code)
			}
		}
	}
}
