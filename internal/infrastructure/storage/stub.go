package storage

import (
	"context"
	"errors"
	"sync"

	appmedia "github.com/store/backend/internal/application/media"
)

// Ensure StubObjectStorage implements ObjectStorage
var _ appmedia.ObjectStorage = (*StubObjectStorage)(nil)

// StubObjectStorage is an in-memory ObjectStorage for tests and local
// development without an S3 endpoint.
type StubObjectStorage struct {
	mu      sync.Mutex
	objects map[string][]byte

	// FailUploads makes every Upload call fail. Used to test
	// all-or-nothing batch behavior.
	FailUploads bool
}

// NewStubObjectStorage creates a new StubObjectStorage
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{objects: make(map[string][]byte)}
}

// Upload stores data in memory
func (s *StubObjectStorage) Upload(_ context.Context, storageKey string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailUploads {
		return errors.New("upload failed")
	}
	s.objects[storageKey] = data
	return nil
}

// DeleteObjects removes objects from memory
func (s *StubObjectStorage) DeleteObjects(_ context.Context, storageKeys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range storageKeys {
		delete(s.objects, key)
	}
	return nil
}

// Has reports whether an object is stored
func (s *StubObjectStorage) Has(storageKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[storageKey]
	return ok
}

// Len returns the number of stored objects
func (s *StubObjectStorage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
