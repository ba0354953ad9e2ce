package kv

import (
	"context"
	"sync"
)

// MemoryStore keeps values in a process-local map. It is used by tests and
// by the memory backend, where alarms do not survive a restart.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
	// failSet, when set, is returned by every Set call.
	failSet error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string),
	}
}

// Get returns the value stored under key.
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]

	return value, ok, nil
}

// Set stores value under key.
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failSet != nil {
		return s.failSet
	}

	s.values[key] = value

	return nil
}

// FailWrites makes subsequent Set calls return err. A nil err restores normal writes.
func (s *MemoryStore) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failSet = err
}

// Len returns the number of stored keys.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.values)
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
