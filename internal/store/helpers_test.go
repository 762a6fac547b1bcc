package store

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/shopstate/internal/domain"
	"github.com/utafrali/shopstate/internal/storage/memory"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func product(id int64, price string) domain.Product {
	return domain.Product{
		ID:        id,
		Title:     "Product",
		Price:     decimal.RequireFromString(price),
		Thumbnail: "https://cdn.example.com/p.png",
	}
}

// --- Mock Adapter ---

type mockAdapter struct {
	mock.Mock
}

func (m *mockAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockAdapter) Set(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// --- Gated Adapter ---

// gatedAdapter wraps a memory adapter. The first Get captures the stored
// value on entry, then blocks until release is closed before returning it,
// simulating a slow read that resolves after later operations.
type gatedAdapter struct {
	*memory.Adapter
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedAdapter() *gatedAdapter {
	return &gatedAdapter{
		Adapter: memory.New(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (g *gatedAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	first := false
	g.once.Do(func() { first = true })

	data, err := g.Adapter.Get(ctx, key)
	if first {
		close(g.entered)
		<-g.release
	}
	return data, err
}

func seed(t *testing.T, a *memory.Adapter, key, value string) {
	t.Helper()
	require.NoError(t, a.Set(context.Background(), key, []byte(value)))
}

func stored(t *testing.T, a *memory.Adapter, key string) string {
	t.Helper()
	data, err := a.Get(context.Background(), key)
	require.NoError(t, err)
	return string(data)
}
