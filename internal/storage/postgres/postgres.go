package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/shopstate/internal/storage"
	"github.com/utafrali/shopstate/pkg/database"
)

// Migrations holds the schema for the kv_store table.
//
//go:embed migrations/*.up.sql
var Migrations embed.FS

// Adapter implements storage.Adapter on a single PostgreSQL key/value table.
type Adapter struct {
	pool database.DBTX
}

// NewAdapter creates a PostgreSQL-backed adapter.
func NewAdapter(pool database.DBTX) *Adapter {
	return &Adapter{pool: pool}
}

// Get reads the value stored under key.
func (a *Adapter) Get(ctx context.Context, key string) (value []byte, err error) {
	query := `SELECT value FROM kv_store WHERE key = $1`

	ctx, end := database.TraceQuery(ctx, "kv_store.get", query)
	defer func() { end(err) }()

	if err = a.pool.QueryRow(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get kv %s: %w", key, err)
	}
	return value, nil
}

// Set upserts the value stored under key. The last writer wins.
func (a *Adapter) Set(ctx context.Context, key string, value []byte) (err error) {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

	ctx, end := database.TraceQuery(ctx, "kv_store.set", query)
	defer func() { end(err) }()

	if _, err = a.pool.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("set kv %s: %w", key, err)
	}
	return nil
}
