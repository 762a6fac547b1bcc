package store

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/utafrali/shopstate/internal/domain"
	"github.com/utafrali/shopstate/internal/storage"
)

// CartStore owns a cart and writes it through to the "cart" key after every
// mutation. Each screen holds its own instance; instances converge only
// through storage, on the next Load.
type CartStore struct {
	c *collection[domain.Cart]
}

// NewCartStore creates an empty, unloaded cart store.
func NewCartStore(adapter storage.Adapter, logger *slog.Logger) *CartStore {
	return &CartStore{
		c: newCollection(storage.KeyCart, adapter, logger, codec[domain.Cart]{
			encode: encodeCart,
			decode: decodeCart,
			clone:  domain.Cart.Clone,
		}),
	}
}

// Load replaces the in-memory cart with the persisted one. Read failures
// yield an empty cart and are only logged.
func (s *CartStore) Load(ctx context.Context) {
	s.c.load(ctx)
}

// Add appends product with quantity 1. Adding a product that is already in
// the cart leaves it unchanged; quantity only grows via IncrementQuantity.
func (s *CartStore) Add(ctx context.Context, product domain.Product) domain.Cart {
	return s.c.mutate(ctx, "add", func(cart *domain.Cart) bool {
		if cart.FindIndex(product.ID) >= 0 {
			return false
		}
		cart.Entries = append(cart.Entries, domain.CartEntry{Product: product, Quantity: 1})
		return true
	})
}

// Remove deletes the entry with the given id, if present.
func (s *CartStore) Remove(ctx context.Context, id int64) domain.Cart {
	return s.c.mutate(ctx, "remove", func(cart *domain.Cart) bool {
		return removeCartEntry(cart, id)
	})
}

// IncrementQuantity adds one unit to the entry with the given id, if present.
func (s *CartStore) IncrementQuantity(ctx context.Context, id int64) domain.Cart {
	return s.c.mutate(ctx, "increment", func(cart *domain.Cart) bool {
		i := cart.FindIndex(id)
		if i < 0 {
			return false
		}
		cart.Entries[i].Quantity++
		return true
	})
}

// DecrementQuantity removes one unit from the entry with the given id. An
// entry at quantity 1 is removed rather than dropped to 0.
func (s *CartStore) DecrementQuantity(ctx context.Context, id int64) domain.Cart {
	return s.c.mutate(ctx, "decrement", func(cart *domain.Cart) bool {
		i := cart.FindIndex(id)
		if i < 0 {
			return false
		}
		if cart.Entries[i].Quantity <= 1 {
			return removeCartEntry(cart, id)
		}
		cart.Entries[i].Quantity--
		return true
	})
}

// Total returns Σ price × quantity rounded half-up to two decimals.
func (s *CartStore) Total() decimal.Decimal {
	var total decimal.Decimal
	s.c.view(func(cart domain.Cart) {
		total = cart.Total()
	})
	return total
}

// Contains reports whether the product is in the cart.
func (s *CartStore) Contains(id int64) bool {
	var ok bool
	s.c.view(func(cart domain.Cart) {
		ok = cart.FindIndex(id) >= 0
	})
	return ok
}

// Snapshot returns a copy of the current cart for rendering.
func (s *CartStore) Snapshot() domain.Cart {
	return s.c.snapshot()
}

// Persist rewrites the current cart, returning the storage error if any.
func (s *CartStore) Persist(ctx context.Context) error {
	return s.c.persist(ctx)
}

// LastWriteError returns the error of the most recent write, or nil.
func (s *CartStore) LastWriteError() error {
	return s.c.lastWriteError()
}

// State returns the lifecycle state of the store.
func (s *CartStore) State() State {
	return s.c.state()
}

func removeCartEntry(cart *domain.Cart, id int64) bool {
	i := cart.FindIndex(id)
	if i < 0 {
		return false
	}
	cart.Entries = append(cart.Entries[:i], cart.Entries[i+1:]...)
	return true
}
