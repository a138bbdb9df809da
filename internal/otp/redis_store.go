package otp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "otp:pending:"

// RedisStore keeps pending logins in Redis, one JSON record per user with a
// TTL matching the attempt's expiry. Expiry is therefore enforced by the
// store itself, not only by the clock check in the auth service.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore builds a Redis-backed pending login store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) key(userID string) string {
	return keyPrefix + userID
}

// Put stores the attempt as a single atomic write, replacing any prior one.
func (s *RedisStore) Put(ctx context.Context, pending PendingLogin) error {
	ttl := time.Until(pending.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("otp: expires_at must be in the future")
	}
	data, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("otp: marshal pending login: %w", err)
	}
	return s.client.Set(ctx, s.key(pending.UserID), data, ttl).Err()
}

// Get fetches the pending attempt for the user.
func (s *RedisStore) Get(ctx context.Context, userID string) (PendingLogin, error) {
	val, err := s.client.Get(ctx, s.key(userID)).Result()
	if err == redis.Nil {
		return PendingLogin{}, ErrNotFound
	}
	if err != nil {
		return PendingLogin{}, err
	}
	var pending PendingLogin
	if err := json.Unmarshal([]byte(val), &pending); err != nil {
		return PendingLogin{}, fmt.Errorf("otp: unmarshal pending login: %w", err)
	}
	return pending, nil
}

// IncrementAttempts bumps the attempt counter, preserving the remaining TTL.
func (s *RedisStore) IncrementAttempts(ctx context.Context, userID string) (int, error) {
	pending, err := s.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	pending.Attempts++
	ttl := time.Until(pending.ExpiresAt)
	if ttl <= 0 {
		return 0, ErrNotFound
	}
	data, err := json.Marshal(pending)
	if err != nil {
		return 0, fmt.Errorf("otp: marshal pending login: %w", err)
	}
	if err := s.client.Set(ctx, s.key(userID), data, ttl).Err(); err != nil {
		return 0, err
	}
	return pending.Attempts, nil
}

// Delete removes the attempt. Missing keys are not an error.
func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	return s.client.Del(ctx, s.key(userID)).Err()
}
