package storefront

import (
	"context"
	"encoding/json"
	"sync"
)

// KV is a flat namespace of string keys to string values, the moral
// equivalent of one browser profile's localStorage.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// MemoryKV is a concurrency-safe in-memory KV, used as the default store and
// in tests.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryKV creates an empty in-memory KV store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (s *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	return value, ok, nil
}

func (s *MemoryKV) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *MemoryKV) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// CollectionStore serializes named collections into a KV namespace. Every
// Save is a full replace; there are no partial or merge semantics.
type CollectionStore struct {
	kv     KV
	prefix string
}

// NewCollectionStore wraps a KV with an optional key prefix.
func NewCollectionStore(kv KV, prefix string) *CollectionStore {
	return &CollectionStore{kv: kv, prefix: prefix}
}

func (s *CollectionStore) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + "." + name
}

// LoadCollection returns the stored collection for name if present and
// parseable, else the caller-supplied fallback. A corrupt or missing value is
// treated as absent and never raised to the caller.
func LoadCollection[T any](ctx context.Context, s *CollectionStore, name string, fallback []T) []T {
	if s == nil || s.kv == nil {
		return fallback
	}
	raw, ok, err := s.kv.Get(ctx, s.key(name))
	if err != nil || !ok {
		return fallback
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return fallback
	}
	return items
}

// SaveCollection serializes and stores the full collection, overwriting any
// prior value.
func SaveCollection[T any](ctx context.Context, s *CollectionStore, name string, items []T) error {
	if s == nil || s.kv == nil {
		return errMissingStore
	}
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.key(name), string(data))
}
