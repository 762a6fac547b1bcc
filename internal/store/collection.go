package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/utafrali/shopstate/internal/storage"
	"github.com/utafrali/shopstate/pkg/logger"
	"github.com/utafrali/shopstate/pkg/tracing"
)

var tracer = tracing.Tracer("github.com/utafrali/shopstate/internal/store")

// codec converts a collection to and from its persisted blob.
type codec[T any] struct {
	encode func(T) ([]byte, error)
	decode func([]byte) (T, int, error)
	clone  func(T) T
}

// collection owns one in-memory value of T and keeps the durable copy under
// key equal to it after every completed mutation.
//
// Mutations hold mu across the durable write, so operations on one instance
// complete in call order and each write carries the post-mutation value.
// Loads read storage without holding mu and apply their result only if no
// newer load or mutation has been applied in the meantime.
type collection[T any] struct {
	key     string
	adapter storage.Adapter
	logger  *slog.Logger
	codec   codec[T]

	mu       sync.Mutex
	value    T
	seq      uint64 // last sequence number handed out
	applied  uint64 // sequence number of the value currently held
	loading  int
	loaded   bool
	writeErr error
}

func newCollection[T any](key string, adapter storage.Adapter, logger *slog.Logger, c codec[T]) *collection[T] {
	return &collection[T]{
		key:     key,
		adapter: adapter,
		logger:  logger.With(slog.String("key", key)),
		codec:   c,
	}
}

// load replaces the in-memory value with the persisted one. A missing key, an
// unreadable key or a malformed blob all yield the zero (empty) collection.
func (c *collection[T]) load(ctx context.Context) {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.loading++
	c.mu.Unlock()

	value := c.read(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.loading--
	c.loaded = true
	if seq <= c.applied {
		staleLoadsTotal.WithLabelValues(c.key).Inc()
		logger.WithContext(ctx, c.logger).DebugContext(ctx, "discarding stale load result",
			slog.Uint64("seq", seq),
			slog.Uint64("applied", c.applied),
		)
		return
	}
	c.applied = seq
	c.value = value
}

func (c *collection[T]) read(ctx context.Context) T {
	ctx, span := tracer.Start(ctx, "store.load")
	span.SetAttributes(attribute.String("storage.key", c.key))
	defer span.End()

	var empty T
	l := logger.WithContext(ctx, c.logger)

	data, err := c.adapter.Get(ctx, c.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return empty
		}
		span.RecordError(err)
		storageReadFailuresTotal.WithLabelValues(c.key, reasonIO).Inc()
		l.WarnContext(ctx, "failed to read persisted collection, using empty",
			slog.String("error", err.Error()),
		)
		return empty
	}

	value, dropped, err := c.codec.decode(data)
	if err != nil {
		span.RecordError(err)
		storageReadFailuresTotal.WithLabelValues(c.key, reasonMalformed).Inc()
		l.WarnContext(ctx, "persisted collection is malformed, using empty",
			slog.String("error", err.Error()),
		)
		return empty
	}
	if dropped > 0 {
		storageReadFailuresTotal.WithLabelValues(c.key, reasonDropped).Add(float64(dropped))
		l.WarnContext(ctx, "dropped malformed persisted entries",
			slog.Int("dropped", dropped),
		)
	}
	return value
}

// mutate applies fn to the held value and writes the result through. The
// write happens even when fn reports no change, so that the durable copy
// equals the snapshot once mutate returns. It returns a clone of the new value.
func (c *collection[T]) mutate(ctx context.Context, op string, fn func(v *T) bool) T {
	c.mu.Lock()
	defer c.mu.Unlock()

	changed := fn(&c.value)
	c.seq++
	c.applied = c.seq
	c.writeLocked(ctx, op)

	if changed {
		logger.WithContext(ctx, c.logger).DebugContext(ctx, "collection updated", slog.String("op", op))
	}
	return c.codec.clone(c.value)
}

// persist rewrites the current value. It is the retry path after a failed
// write-through and the only operation that surfaces a storage error.
func (c *collection[T]) persist(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.writeLocked(ctx, "persist")
	return c.writeErr
}

// writeLocked serializes and stores the held value. Failures are logged and
// remembered; the in-memory value is never rolled back. Callers hold mu.
func (c *collection[T]) writeLocked(ctx context.Context, op string) {
	ctx, span := tracer.Start(ctx, "store.write")
	span.SetAttributes(
		attribute.String("storage.key", c.key),
		attribute.String("store.op", op),
	)
	defer span.End()

	data, err := c.codec.encode(c.value)
	if err == nil {
		err = c.adapter.Set(ctx, c.key, data)
	}
	if err != nil {
		c.writeErr = err
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		storageWritesTotal.WithLabelValues(c.key, "failure").Inc()
		logger.WithContext(ctx, c.logger).ErrorContext(ctx, "write-through failed, memory and storage diverge until next successful write",
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
		return
	}
	c.writeErr = nil
	storageWritesTotal.WithLabelValues(c.key, "success").Inc()
}

func (c *collection[T]) snapshot() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.codec.clone(c.value)
}

// view runs fn against the held value under the lock.
func (c *collection[T]) view(fn func(v T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.value)
}

func (c *collection[T]) state() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.loading > 0:
		return StateLoading
	case c.loaded:
		return StateReady
	default:
		return StateUninitialized
	}
}

func (c *collection[T]) lastWriteError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writeErr
}
