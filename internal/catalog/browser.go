package catalog

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/utafrali/shopstate/internal/domain"
	"github.com/utafrali/shopstate/pkg/logger"
)

// Browser holds the product list shown by a browse or search screen. A failed
// fetch leaves an empty list and is only logged. If refreshes overlap, only
// the most recently started one may replace the list.
type Browser struct {
	client Client
	logger *slog.Logger

	mu       sync.RWMutex
	products []domain.Product
	gen      uint64 // generation of the most recently started refresh
	loading  bool
}

// NewBrowser creates a browser with an empty list. It is not loading until
// the first Refresh.
func NewBrowser(client Client, logger *slog.Logger) *Browser {
	return &Browser{
		client: client,
		logger: logger,
	}
}

// Refresh fetches the product list and returns what the screen now shows.
func (b *Browser) Refresh(ctx context.Context) []domain.Product {
	b.mu.Lock()
	b.gen++
	gen := b.gen
	b.loading = true
	b.mu.Unlock()

	products, err := b.client.Products(ctx)
	if err != nil {
		logger.WithContext(ctx, b.logger).ErrorContext(ctx, "failed to fetch products",
			slog.String("error", err.Error()),
		)
		products = nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if gen != b.gen {
		logger.WithContext(ctx, b.logger).DebugContext(ctx, "discarding superseded catalog response",
			slog.Uint64("generation", gen),
			slog.Uint64("latest", b.gen),
		)
		return cloneProducts(b.products)
	}
	b.products = products
	b.loading = false
	return cloneProducts(b.products)
}

// Loading reports whether the latest refresh is still in flight.
func (b *Browser) Loading() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.loading
}

// Products returns the current product list.
func (b *Browser) Products() []domain.Product {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return cloneProducts(b.products)
}

// Search returns the products whose title contains query, ignoring case. An
// empty query matches nothing.
func (b *Browser) Search(query string) []domain.Product {
	if query == "" {
		return []domain.Product{}
	}
	needle := strings.ToLower(query)

	b.mu.RLock()
	defer b.mu.RUnlock()

	matches := make([]domain.Product, 0)
	for _, p := range b.products {
		if strings.Contains(strings.ToLower(p.Title), needle) {
			matches = append(matches, p)
		}
	}
	return matches
}

// Product looks up a product in the current list by id.
func (b *Browser) Product(id int64) (domain.Product, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, p := range b.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}
