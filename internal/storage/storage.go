package storage

import (
	"context"
	"fmt"

	apperrors "github.com/utafrali/shopstate/pkg/errors"
)

// Keys under which the collections are persisted.
const (
	KeyCart     = "cart"
	KeyWishlist = "wishlist"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = fmt.Errorf("storage key: %w", apperrors.ErrNotFound)

// Adapter is a durable key/value store holding opaque serialized blobs.
// Writes are last-writer-wins; there is no compare-and-swap and no transaction.
type Adapter interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
}

// Namespaced prefixes every key with ns + ":" before delegating.
// An empty namespace leaves keys unchanged.
type Namespaced struct {
	next Adapter
	ns   string
}

// WithNamespace wraps an adapter so that keys are scoped to ns.
func WithNamespace(next Adapter, ns string) Adapter {
	if ns == "" {
		return next
	}
	return &Namespaced{next: next, ns: ns}
}

// Get reads the namespaced key.
func (n *Namespaced) Get(ctx context.Context, key string) ([]byte, error) {
	return n.next.Get(ctx, n.ns+":"+key)
}

// Set writes the namespaced key.
func (n *Namespaced) Set(ctx context.Context, key string, value []byte) error {
	return n.next.Set(ctx, n.ns+":"+key, value)
}
