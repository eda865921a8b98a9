package cache

import (
	"context"
	"sync"
	"time"

	appidentity "github.com/store/backend/internal/application/identity"
)

// InMemoryTokenStore is a TokenStore for tests and single-instance
// development runs.
type InMemoryTokenStore struct {
	mu      sync.Mutex
	entries map[string]tokenEntry
	now     func() time.Time
}

type tokenEntry struct {
	value     string
	expiresAt time.Time
}

// NewInMemoryTokenStore creates a new InMemoryTokenStore
func NewInMemoryTokenStore() *InMemoryTokenStore {
	return &InMemoryTokenStore{
		entries: make(map[string]tokenEntry),
		now:     time.Now,
	}
}

// Set stores a value under key with the given TTL
func (s *InMemoryTokenStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = tokenEntry{value: value, expiresAt: s.now().Add(ttl)}
	return nil
}

// Get returns the value stored under key, or ("", nil) when absent
func (s *InMemoryTokenStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok || s.now().After(entry.expiresAt) {
		delete(s.entries, key)
		return "", nil
	}
	return entry.value, nil
}

// Delete removes keys
func (s *InMemoryTokenStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}

// Exists reports whether a key is present
func (s *InMemoryTokenStore) Exists(ctx context.Context, key string) (bool, error) {
	value, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	return value != "", nil
}

// SetClock overrides the clock. Only used by tests.
func (s *InMemoryTokenStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Ensure InMemoryTokenStore implements TokenStore
var _ appidentity.TokenStore = (*InMemoryTokenStore)(nil)
