package bloomstamp

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Store.Load for an unknown name.
var ErrNotFound = errors.New("bloomstamp: filter not found")

// Store defines named filter storage.
type Store interface {
	// Save stores f under name, replacing any previous filter.
	Save(ctx context.Context, name string, f Filter) error
	// Load returns the filter stored under name.
	Load(ctx context.Context, name string) (Filter, error)
}

// MemoryStore provides Store interface with memory.
type MemoryStore struct {
	mu sync.RWMutex
	m  map[string]Filter
}

// NewMemoryStore creates a memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: map[string]Filter{}}
}

// Save stores f under name.
func (ms *MemoryStore) Save(_ context.Context, name string, f Filter) error {
	ms.mu.Lock()
	ms.m[name] = f
	ms.mu.Unlock()
	return nil
}

// Load returns the filter stored under name.
func (ms *MemoryStore) Load(_ context.Context, name string) (Filter, error) {
	ms.mu.RLock()
	f, ok := ms.m[name]
	ms.mu.RUnlock()
	if !ok {
		return Filter{}, ErrNotFound
	}
	return f, nil
}
