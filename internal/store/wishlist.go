package store

import (
	"context"
	"log/slog"

	"github.com/utafrali/shopstate/internal/domain"
	"github.com/utafrali/shopstate/internal/storage"
)

// WishlistStore owns a wishlist and writes it through to the "wishlist" key.
type WishlistStore struct {
	c *collection[domain.Wishlist]
}

// NewWishlistStore creates an empty, unloaded wishlist store.
func NewWishlistStore(adapter storage.Adapter, logger *slog.Logger) *WishlistStore {
	return &WishlistStore{
		c: newCollection(storage.KeyWishlist, adapter, logger, codec[domain.Wishlist]{
			encode: encodeWishlist,
			decode: decodeWishlist,
			clone:  domain.Wishlist.Clone,
		}),
	}
}

// Load replaces the in-memory wishlist with the persisted one.
func (s *WishlistStore) Load(ctx context.Context) {
	s.c.load(ctx)
}

// Add appends product unless an entry with the same id exists.
func (s *WishlistStore) Add(ctx context.Context, product domain.Product) domain.Wishlist {
	return s.c.mutate(ctx, "add", func(wl *domain.Wishlist) bool {
		if wl.FindIndex(product.ID) >= 0 {
			return false
		}
		wl.Entries = append(wl.Entries, domain.WishlistEntry{Product: product})
		return true
	})
}

// Remove deletes the entry with the given id, if present.
func (s *WishlistStore) Remove(ctx context.Context, id int64) domain.Wishlist {
	return s.c.mutate(ctx, "remove", func(wl *domain.Wishlist) bool {
		i := wl.FindIndex(id)
		if i < 0 {
			return false
		}
		wl.Entries = append(wl.Entries[:i], wl.Entries[i+1:]...)
		return true
	})
}

// Contains reports whether the product is in the wishlist.
func (s *WishlistStore) Contains(id int64) bool {
	var ok bool
	s.c.view(func(wl domain.Wishlist) {
		ok = wl.FindIndex(id) >= 0
	})
	return ok
}

// Snapshot returns a copy of the current wishlist.
func (s *WishlistStore) Snapshot() domain.Wishlist {
	return s.c.snapshot()
}

func (s *WishlistStore) Persist(ctx context.Context) error {
	return s.c.persist(ctx)
}

func (s *WishlistStore) LastWriteError() error {
	return s.c.lastWriteError()
}

func (s *WishlistStore) State() State {
	return s.c.state()
}
