package memory

import (
	"context"
	"sync"

	"github.com/utafrali/shopstate/internal/storage"
)

// Adapter implements storage.Adapter using an in-memory map. It is shared by
// every store instance in a process, which makes it a stand-in for device
// storage in tests and in the single-process host.
type Adapter struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// New creates an empty in-memory adapter.
func New() *Adapter {
	return &Adapter{
		values: make(map[string][]byte),
	}
}

// Get returns a copy of the value stored under key.
func (a *Adapter) Get(_ context.Context, key string) ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	v, ok := a.values[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set stores a copy of value under key.
func (a *Adapter) Set(_ context.Context, key string, value []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	a.values[key] = v
	return nil
}

// Delete removes key. Missing keys are ignored.
func (a *Adapter) Delete(_ context.Context, key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.values, key)
	return nil
}
