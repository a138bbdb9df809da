package otp

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu      sync.Mutex
	pending map[string]PendingLogin
}

// NewMemoryStore builds an in-memory pending login store for testing.
func NewMemoryStore() Store {
	return &memoryStore{pending: make(map[string]PendingLogin)}
}

func (s *memoryStore) Put(_ context.Context, pending PendingLogin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[pending.UserID] = pending
	return nil
}

func (s *memoryStore) Get(_ context.Context, userID string) (PendingLogin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending, ok := s.pending[userID]
	if !ok || time.Now().After(pending.ExpiresAt) {
		delete(s.pending, userID)
		return PendingLogin{}, ErrNotFound
	}
	return pending, nil
}

func (s *memoryStore) IncrementAttempts(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending, ok := s.pending[userID]
	if !ok || time.Now().After(pending.ExpiresAt) {
		delete(s.pending, userID)
		return 0, ErrNotFound
	}
	pending.Attempts++
	s.pending[userID] = pending
	return pending.Attempts, nil
}

func (s *memoryStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, userID)
	return nil
}
