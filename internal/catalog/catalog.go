// Package catalog reads the remote product list and holds the state of the
// product-browse and search screens.
package catalog

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/utafrali/shopstate/internal/domain"
	"github.com/utafrali/shopstate/pkg/tracing"
)

// Client returns the current product list.
type Client interface {
	Products(ctx context.Context) ([]domain.Product, error)
}

var tracer = tracing.Tracer("github.com/utafrali/shopstate/internal/catalog")

var fetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "shopstate_catalog_fetches_total",
	Help: "Total number of catalog fetches by result.",
}, []string{"result"})

const (
	resultSuccess  = "success"
	resultFailure  = "failure"
	resultCacheHit = "cache_hit"
)

func cloneProducts(products []domain.Product) []domain.Product {
	out := make([]domain.Product, len(products))
	copy(out, products)
	return out
}
