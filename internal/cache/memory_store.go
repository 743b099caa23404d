package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps entries in a mutex-guarded map. It is the default
// backend for tests and for deployments without a durable volume; contents
// are lost on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]Entry
	now   func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...StoreOption) *MemoryStore {
	options := defaultStoreOptions()
	for _, opt := range opts {
		opt(options)
	}

	return &MemoryStore{
		items: make(map[string]Entry),
		now:   options.now,
	}
}

// Get returns the entry stored under key.
func (s *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, found := s.items[key]
	if !found {
		return Entry{}, false, nil
	}

	// Return a copy so callers cannot mutate the stored value.
	value := make([]byte, len(entry.Value))
	copy(value, entry.Value)

	return Entry{Value: value, WrittenAt: entry.WrittenAt}, true, nil
}

// Set writes value under key, stamped with the current time.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)

	s.items[key] = Entry{Value: stored, WrittenAt: s.now()}
	return nil
}

// Remove deletes key if present.
func (s *MemoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)
	return nil
}

// RemoveMatching deletes every key containing token as a substring.
func (s *MemoryStore) RemoveMatching(_ context.Context, token string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key := range s.items {
		if strings.Contains(key, token) {
			delete(s.items, key)
			removed++
		}
	}
	return removed, nil
}

// Clear drops every entry.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]Entry)
	return nil
}

// Keys lists all stored keys.
func (s *MemoryStore) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.items))
	for key := range s.items {
		keys = append(keys, key)
	}
	return keys, nil
}
