package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/utafrali/shopstate/internal/domain"
	apperrors "github.com/utafrali/shopstate/pkg/errors"
	"github.com/utafrali/shopstate/pkg/httpclient"
	"github.com/utafrali/shopstate/pkg/logger"
	"github.com/utafrali/shopstate/pkg/validator"
)

const maxResponseBytes = 8 << 20

// envelope is the catalog response: {"products": [...], "total": n, ...}.
type envelope struct {
	Products []json.RawMessage `json:"products"`
}

// wireProduct is one catalog record. Fields beyond these are ignored.
type wireProduct struct {
	ID        int64            `json:"id" validate:"gt=0"`
	Title     string           `json:"title" validate:"required"`
	Price     *decimal.Decimal `json:"price" validate:"required"`
	Thumbnail string           `json:"thumbnail"`
}

// HTTPClient fetches the product list from a remote JSON endpoint through a
// retrying, circuit-broken HTTP client.
type HTTPClient struct {
	http   *httpclient.CircuitBreakerClient
	url    string
	logger *slog.Logger
}

// NewHTTPClient creates a catalog client for url.
func NewHTTPClient(url string, cfg httpclient.Config, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		http: httpclient.NewCircuitBreakerClient(
			httpclient.New(cfg),
			httpclient.DefaultCircuitBreakerConfig("catalog"),
			logger,
		),
		url:    url,
		logger: logger,
	}
}

// Products fetches and decodes the product list. Records that fail
// validation are skipped and logged; a missing "products" field yields an
// empty list.
func (c *HTTPClient) Products(ctx context.Context) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "catalog.fetch")
	span.SetAttributes(attribute.String("http.url", c.url))
	defer span.End()

	products, err := c.fetch(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		fetchesTotal.WithLabelValues(resultFailure).Inc()
		return nil, err
	}

	span.SetAttributes(attribute.Int("catalog.products", len(products)))
	fetchesTotal.WithLabelValues(resultSuccess).Inc()
	return products, nil
}

// Check fails while the catalog circuit breaker is open.
func (c *HTTPClient) Check(context.Context) error {
	if c.http.State() == gobreaker.StateOpen {
		return fmt.Errorf("catalog: %w", httpclient.ErrCircuitOpen)
	}
	return nil
}

func (c *HTTPClient) fetch(ctx context.Context) ([]domain.Product, error) {
	resp, err := c.http.Get(ctx, c.url)
	if err != nil {
		return nil, apperrors.Unavailable("catalog", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "catalog")
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}

	products := make([]domain.Product, 0, len(env.Products))
	skipped := 0
	for _, raw := range env.Products {
		p, err := decodeProduct(raw)
		if err != nil {
			skipped++
			continue
		}
		products = append(products, p)
	}

	if skipped > 0 {
		logger.WithContext(ctx, c.logger).WarnContext(ctx, "skipped invalid catalog records",
			slog.Int("skipped", skipped),
			slog.Int("kept", len(products)),
		)
	}
	return products, nil
}

func decodeProduct(raw json.RawMessage) (domain.Product, error) {
	var w wireProduct
	if err := json.Unmarshal(raw, &w); err != nil {
		return domain.Product{}, err
	}
	if err := validator.Validate(w); err != nil {
		return domain.Product{}, err
	}
	if w.Price.IsNegative() {
		return domain.Product{}, apperrors.InvalidInput("price must not be negative")
	}
	return domain.Product{
		ID:        w.ID,
		Title:     w.Title,
		Price:     *w.Price,
		Thumbnail: w.Thumbnail,
	}, nil
}
