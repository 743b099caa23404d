package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"hdfhr-backend/internal/kv"
)

// DefaultNamespace prefixes every key a PersistentStore writes, so cache
// records share the key-value store with other data without collisions.
const DefaultNamespace = "hdfhr:cache:"

// PersistentStore keeps entries in a durable key-value store so cached data
// survives restarts. Entries are serialized as {value, writtenAt} JSON.
// Undecodable entries are reported as store errors; the orchestrator treats
// them as misses and the sweeper evicts them first.
type PersistentStore struct {
	kv        kv.Store
	namespace string
	now       func() time.Time
}

// NewPersistentStore wraps a key-value store as a cache entry store.
func NewPersistentStore(store kv.Store, opts ...StoreOption) *PersistentStore {
	options := defaultStoreOptions()
	for _, opt := range opts {
		opt(options)
	}

	return &PersistentStore{
		kv:        store,
		namespace: options.namespace,
		now:       options.now,
	}
}

// Get returns the entry stored under key.
func (s *PersistentStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	raw, found, err := s.kv.GetString(ctx, s.namespace+key)
	if err != nil {
		return Entry{}, false, &StoreError{Op: "get", Err: err}
	}
	if !found {
		return Entry{}, false, nil
	}

	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return Entry{}, false, &StoreError{Op: "decode", Err: err}
	}
	return entry, true, nil
}

// Set writes value under key, stamped with the current time.
func (s *PersistentStore) Set(ctx context.Context, key string, value []byte) error {
	data, err := json.Marshal(Entry{Value: value, WrittenAt: s.now()})
	if err != nil {
		return &StoreError{Op: "encode", Err: err}
	}
	if err := s.kv.SetString(ctx, s.namespace+key, string(data)); err != nil {
		return &StoreError{Op: "set", Err: err}
	}
	return nil
}

// Remove deletes key if present.
func (s *PersistentStore) Remove(ctx context.Context, key string) error {
	if err := s.kv.RemoveKeys(ctx, []string{s.namespace + key}); err != nil {
		return &StoreError{Op: "remove", Err: err}
	}
	return nil
}

// RemoveMatching deletes every key containing token as a substring.
func (s *PersistentStore) RemoveMatching(ctx context.Context, token string) (int, error) {
	keys, err := s.ownedKeys(ctx)
	if err != nil {
		return 0, err
	}

	matched := make([]string, 0, len(keys))
	for _, key := range keys {
		if strings.Contains(key, token) {
			matched = append(matched, s.namespace+key)
		}
	}
	if len(matched) == 0 {
		return 0, nil
	}
	if err := s.kv.RemoveKeys(ctx, matched); err != nil {
		return 0, &StoreError{Op: "remove", Err: err}
	}
	return len(matched), nil
}

// Clear drops every entry in this store's namespace.
func (s *PersistentStore) Clear(ctx context.Context) error {
	keys, err := s.ownedKeys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	namespaced := make([]string, len(keys))
	for i, key := range keys {
		namespaced[i] = s.namespace + key
	}
	if err := s.kv.RemoveKeys(ctx, namespaced); err != nil {
		return &StoreError{Op: "clear", Err: err}
	}
	return nil
}

// Keys lists all stored keys.
func (s *PersistentStore) Keys(ctx context.Context) ([]string, error) {
	return s.ownedKeys(ctx)
}

// ownedKeys lists the keys in this store's namespace, without the prefix.
func (s *PersistentStore) ownedKeys(ctx context.Context) ([]string, error) {
	all, err := s.kv.ListKeys(ctx)
	if err != nil {
		return nil, &StoreError{Op: "keys", Err: err}
	}

	keys := make([]string, 0, len(all))
	for _, key := range all {
		if strings.HasPrefix(key, s.namespace) {
			keys = append(keys, strings.TrimPrefix(key, s.namespace))
		}
	}
	return keys, nil
}
