package repo

import (
	"context"
	"sync"
)

// MemoryStore is a map-backed BlobStore for tests and ephemeral runs.
// FailSave, when set, is returned by every Save.
type MemoryStore struct {
	mu       sync.Mutex
	slots    map[string][]byte
	saves    map[string]int
	FailSave error
	FailLoad error
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: map[string][]byte{}, saves: map[string]int{}}
}

// Load returns a copy of the slot value.
func (s *MemoryStore) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailLoad != nil {
		return nil, s.FailLoad
	}
	v, ok := s.slots[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Save stores a copy of data.
func (s *MemoryStore) Save(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSave != nil {
		return s.FailSave
	}
	s.slots[key] = append([]byte(nil), data...)
	s.saves[key]++
	return nil
}

// Put seeds a slot directly.
func (s *MemoryStore) Put(key string, data []byte) {
	s.mu.Lock()
	s.slots[key] = append([]byte(nil), data...)
	s.mu.Unlock()
}

// Saves reports how many successful writes key has received.
func (s *MemoryStore) Saves(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves[key]
}

// SetFailSave sets FailSave under the lock.
func (s *MemoryStore) SetFailSave(err error) {
	s.mu.Lock()
	s.FailSave = err
	s.mu.Unlock()
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
