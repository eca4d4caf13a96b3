package vend

import (
	"context"
	"sync"
)

const (
	// TokenKey is the storage key of the bearer token
	TokenKey = "auth_token"
	// UserKey is the storage key of the JSON encoded user record
	UserKey = "user"
)

// SessionKeys lists every key owned by the session store.
func SessionKeys() []string {
	return []string{TokenKey, UserKey}
}

// MemoryStorage keeps session values in process memory.
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
}

var _ Storage = (*MemoryStorage)(nil)

// NewMemoryStorage returns a storage seeded with values.
func NewMemoryStorage(values map[string]string) *MemoryStorage {
	m := &MemoryStorage{values: map[string]string{}}
	for k, v := range values {
		m.values[k] = v
	}
	return m
}

func (m *MemoryStorage) Load(_ context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out, nil
}

func (m *MemoryStorage) Save(_ context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k, v := range values {
		m.values[k] = v
	}
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}
