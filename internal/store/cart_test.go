package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/shopstate/internal/domain"
	"github.com/utafrali/shopstate/internal/storage"
	"github.com/utafrali/shopstate/internal/storage/memory"
)

func newTestCartStore(t *testing.T) (*CartStore, *memory.Adapter) {
	t.Helper()
	a := memory.New()
	return NewCartStore(a, newTestLogger()), a
}

// assertPersisted checks that the durable cart equals the given snapshot.
func assertPersisted(t *testing.T, a *memory.Adapter, snap domain.Cart) {
	t.Helper()
	want, err := encodeCart(snap)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), stored(t, a, storage.KeyCart))
}

// ---------------------------------------------------------------------------
// Scenario
// ---------------------------------------------------------------------------

func TestCartStore_Scenario(t *testing.T) {
	s, a := newTestCartStore(t)
	ctx := context.Background()
	s.Load(ctx)

	s.Add(ctx, product(1, "10.00"))
	cart := s.Add(ctx, product(1, "10.00"))
	require.Len(t, cart.Entries, 1)
	assert.Equal(t, 1, cart.Entries[0].Quantity)

	cart = s.IncrementQuantity(ctx, 1)
	assert.Equal(t, 2, cart.Entries[0].Quantity)
	assert.Equal(t, "20.00", s.Total().StringFixed(2))

	cart = s.DecrementQuantity(ctx, 1)
	assert.Equal(t, 1, cart.Entries[0].Quantity)
	assert.Equal(t, "10.00", s.Total().StringFixed(2))

	cart = s.DecrementQuantity(ctx, 1)
	assert.Empty(t, cart.Entries)
	assert.Equal(t, "0.00", s.Total().StringFixed(2))

	assertPersisted(t, a, cart)
}

// ---------------------------------------------------------------------------
// Add
// ---------------------------------------------------------------------------

func TestCartStore_Add_AppendsInOrder(t *testing.T) {
	s, _ := newTestCartStore(t)
	ctx := context.Background()

	s.Add(ctx, product(3, "1"))
	s.Add(ctx, product(1, "1"))
	cart := s.Add(ctx, product(2, "1"))

	require.Len(t, cart.Entries, 3)
	assert.Equal(t, int64(3), cart.Entries[0].ID)
	assert.Equal(t, int64(1), cart.Entries[1].ID)
	assert.Equal(t, int64(2), cart.Entries[2].ID)
}

func TestCartStore_Add_IsIdempotent(t *testing.T) {
	s, _ := newTestCartStore(t)
	ctx := context.Background()

	s.Add(ctx, product(1, "5"))
	s.IncrementQuantity(ctx, 1)
	before := s.Snapshot()

	after := s.Add(ctx, product(1, "99"))

	assert.Equal(t, before, after)
	assert.Equal(t, 2, after.Entries[0].Quantity)
	assert.Equal(t, "5", after.Entries[0].Price.String())
}

func TestCartStore_Add_BeforeLoadUsesEmptyCart(t *testing.T) {
	s, a := newTestCartStore(t)
	seed(t, a, storage.KeyCart, `[{"id":9,"price":1,"quantity":1}]`)

	cart := s.Add(context.Background(), product(1, "1"))

	require.Len(t, cart.Entries, 1)
	assert.Equal(t, int64(1), cart.Entries[0].ID)
	assert.Equal(t, StateUninitialized, s.State())
}

// ---------------------------------------------------------------------------
// Remove
// ---------------------------------------------------------------------------

func TestCartStore_Remove(t *testing.T) {
	s, a := newTestCartStore(t)
	ctx := context.Background()

	s.Add(ctx, product(1, "1"))
	s.Add(ctx, product(2, "1"))
	cart := s.Remove(ctx, 1)

	require.Len(t, cart.Entries, 1)
	assert.Equal(t, int64(2), cart.Entries[0].ID)
	assert.False(t, s.Contains(1))
	assertPersisted(t, a, cart)
}

func TestCartStore_Remove_AbsentIsNoop(t *testing.T) {
	s, a := newTestCartStore(t)
	ctx := context.Background()

	s.Add(ctx, product(1, "1"))
	cart := s.Remove(ctx, 42)

	assert.Len(t, cart.Entries, 1)
	assertPersisted(t, a, cart)
}

// ---------------------------------------------------------------------------
// Increment / Decrement
// ---------------------------------------------------------------------------

func TestCartStore_IncrementThenDecrement_RestoresQuantity(t *testing.T) {
	s, _ := newTestCartStore(t)
	ctx := context.Background()

	s.Add(ctx, product(1, "1"))
	s.IncrementQuantity(ctx, 1)
	s.IncrementQuantity(ctx, 1)

	s.IncrementQuantity(ctx, 1)
	cart := s.DecrementQuantity(ctx, 1)

	assert.Equal(t, 3, cart.Entries[0].Quantity)
}

func TestCartStore_IncrementThenDecrement_FromOneKeepsEntry(t *testing.T) {
	s, _ := newTestCartStore(t)
	ctx := context.Background()

	s.Add(ctx, product(1, "1"))
	s.IncrementQuantity(ctx, 1)
	cart := s.DecrementQuantity(ctx, 1)

	require.Len(t, cart.Entries, 1)
	assert.Equal(t, 1, cart.Entries[0].Quantity)
}

func TestCartStore_Decrement_AtOneRemovesEntry(t *testing.T) {
	s, _ := newTestCartStore(t)
	ctx := context.Background()

	s.Add(ctx, product(1, "4.00"))
	s.Add(ctx, product(2, "6.00"))
	cart := s.DecrementQuantity(ctx, 1)

	require.Len(t, cart.Entries, 1)
	assert.Equal(t, int64(2), cart.Entries[0].ID)
	assert.Equal(t, "6.00", s.Total().StringFixed(2))
}

func TestCartStore_IncrementDecrement_AbsentIsNoop(t *testing.T) {
	s, _ := newTestCartStore(t)
	ctx := context.Background()

	s.Add(ctx, product(1, "1"))
	s.IncrementQuantity(ctx, 7)
	cart := s.DecrementQuantity(ctx, 7)

	require.Len(t, cart.Entries, 1)
	assert.Equal(t, 1, cart.Entries[0].Quantity)
}

// ---------------------------------------------------------------------------
// Total
// ---------------------------------------------------------------------------

func TestCartStore_Total(t *testing.T) {
	s, _ := newTestCartStore(t)
	ctx := context.Background()

	assert.Equal(t, "0.00", s.Total().StringFixed(2))

	s.Add(ctx, product(1, "9.99"))
	s.Add(ctx, product(2, "0.01"))
	s.IncrementQuantity(ctx, 1)
	s.IncrementQuantity(ctx, 1)

	// 3 * 9.99 + 0.01
	assert.Equal(t, "29.98", s.Total().StringFixed(2))
}

// ---------------------------------------------------------------------------
// Write-through
// ---------------------------------------------------------------------------

func TestCartStore_WriteThrough_PersistsPostMutationState(t *testing.T) {
	s, a := newTestCartStore(t)
	ctx := context.Background()

	steps := []func() domain.Cart{
		func() domain.Cart { return s.Add(ctx, product(1, "2.50")) },
		func() domain.Cart { return s.Add(ctx, product(2, "1.00")) },
		func() domain.Cart { return s.IncrementQuantity(ctx, 2) },
		func() domain.Cart { return s.DecrementQuantity(ctx, 1) },
		func() domain.Cart { return s.Remove(ctx, 2) },
	}
	for i, step := range steps {
		snap := step()
		assert.Equal(t, snap, s.Snapshot(), "step %d", i)
		assertPersisted(t, a, snap)
	}
}

func TestCartStore_WriteThrough_OneWritePerMutation(t *testing.T) {
	a := new(mockAdapter)
	s := NewCartStore(a, newTestLogger())
	ctx := context.Background()

	a.On("Set", mock.Anything, storage.KeyCart, mock.Anything).Return(nil)

	s.Add(ctx, product(1, "1"))
	s.Add(ctx, product(1, "1"))
	s.IncrementQuantity(ctx, 1)
	s.Remove(ctx, 99)

	a.AssertNumberOfCalls(t, "Set", 4)
	a.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestCartStore_WriteFailure_KeepsMemoryState(t *testing.T) {
	a := new(mockAdapter)
	s := NewCartStore(a, newTestLogger())
	ctx := context.Background()

	writeErr := errors.New("disk full")
	a.On("Set", mock.Anything, storage.KeyCart, mock.Anything).Return(writeErr).Once()

	cart := s.Add(ctx, product(1, "3"))

	require.Len(t, cart.Entries, 1)
	assert.True(t, s.Contains(1))
	assert.ErrorIs(t, s.LastWriteError(), writeErr)

	var retried []byte
	a.On("Set", mock.Anything, storage.KeyCart, mock.Anything).
		Run(func(args mock.Arguments) { retried = args.Get(2).([]byte) }).
		Return(nil).Once()

	require.NoError(t, s.Persist(ctx))
	assert.NoError(t, s.LastWriteError())
	a.AssertExpectations(t)

	want, err := encodeCart(cart)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(retried))
}

// ---------------------------------------------------------------------------
// Load
// ---------------------------------------------------------------------------

func TestCartStore_Load_MissingKeyIsEmpty(t *testing.T) {
	s, _ := newTestCartStore(t)

	s.Load(context.Background())

	assert.Empty(t, s.Snapshot().Entries)
	assert.Equal(t, StateReady, s.State())
}

func TestCartStore_Load_ReadFailureIsEmpty(t *testing.T) {
	a := new(mockAdapter)
	s := NewCartStore(a, newTestLogger())
	ctx := context.Background()

	a.On("Get", mock.Anything, storage.KeyCart).Return(nil, errors.New("io error"))

	s.Load(ctx)

	assert.Empty(t, s.Snapshot().Entries)
	assert.Equal(t, StateReady, s.State())
	a.AssertExpectations(t)
}

func TestCartStore_Load_MalformedIsEmpty(t *testing.T) {
	s, a := newTestCartStore(t)
	seed(t, a, storage.KeyCart, `{{not-json`)

	s.Load(context.Background())

	assert.Empty(t, s.Snapshot().Entries)
}

func TestCartStore_Load_ReplacesStateWholesale(t *testing.T) {
	s, a := newTestCartStore(t)
	ctx := context.Background()

	s.Add(ctx, product(1, "1"))
	seed(t, a, storage.KeyCart, `[{"id":2,"price":1}]`)

	s.Load(ctx)

	cart := s.Snapshot()
	require.Len(t, cart.Entries, 1)
	assert.Equal(t, int64(2), cart.Entries[0].ID)
	assert.Equal(t, 1, cart.Entries[0].Quantity)
}

func TestCartStore_RoundTrip_FreshInstance(t *testing.T) {
	a := memory.New()
	ctx := context.Background()

	first := NewCartStore(a, newTestLogger())
	first.Add(ctx, product(1, "9.99"))
	first.Add(ctx, product(2, "5"))
	first.IncrementQuantity(ctx, 2)
	want := first.Snapshot()

	second := NewCartStore(a, newTestLogger())
	second.Load(ctx)
	got := second.Snapshot()

	require.Len(t, got.Entries, len(want.Entries))
	for i := range want.Entries {
		assert.Equal(t, want.Entries[i].ID, got.Entries[i].ID)
		assert.Equal(t, want.Entries[i].Title, got.Entries[i].Title)
		assert.Equal(t, want.Entries[i].Thumbnail, got.Entries[i].Thumbnail)
		assert.Equal(t, want.Entries[i].Quantity, got.Entries[i].Quantity)
		assert.True(t, want.Entries[i].Price.Equal(got.Entries[i].Price))
	}
	assert.True(t, first.Total().Equal(second.Total()))
}

// ---------------------------------------------------------------------------
// Lifecycle and stale-load guard
// ---------------------------------------------------------------------------

func TestCartStore_State_Transitions(t *testing.T) {
	a := newGatedAdapter()
	s := NewCartStore(a, newTestLogger())
	ctx := context.Background()

	assert.Equal(t, StateUninitialized, s.State())

	done := make(chan struct{})
	go func() {
		s.Load(ctx)
		close(done)
	}()

	<-a.entered
	assert.Equal(t, StateLoading, s.State())
	close(a.release)
	<-done

	assert.Equal(t, StateReady, s.State())
}

func TestCartStore_StaleLoad_DiscardedAfterMutation(t *testing.T) {
	a := newGatedAdapter()
	seed(t, a.Adapter, storage.KeyCart, `[{"id":1,"price":1}]`)
	s := NewCartStore(a, newTestLogger())
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		s.Load(ctx)
		close(done)
	}()
	<-a.entered

	// The mutation completes while the load is still in flight.
	s.Add(ctx, product(2, "1"))

	close(a.release)
	<-done

	cart := s.Snapshot()
	require.Len(t, cart.Entries, 1)
	assert.Equal(t, int64(2), cart.Entries[0].ID)
	assert.Equal(t, StateReady, s.State())
	assertPersisted(t, a.Adapter, cart)
}

func TestCartStore_StaleLoad_DiscardedAfterNewerLoad(t *testing.T) {
	a := newGatedAdapter()
	seed(t, a.Adapter, storage.KeyCart, `[{"id":1,"price":1}]`)
	s := NewCartStore(a, newTestLogger())
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		s.Load(ctx)
		close(done)
	}()
	<-a.entered

	// Another screen writes, then a newer load resolves first.
	seed(t, a.Adapter, storage.KeyCart, `[{"id":3,"price":1}]`)
	s.Load(ctx)

	close(a.release)
	<-done

	cart := s.Snapshot()
	require.Len(t, cart.Entries, 1)
	assert.Equal(t, int64(3), cart.Entries[0].ID)
}

// ---------------------------------------------------------------------------
// Cross-instance consistency
// ---------------------------------------------------------------------------

func TestCartStore_IndependentInstances_ConvergeOnReload(t *testing.T) {
	a := memory.New()
	ctx := context.Background()

	browse := NewCartStore(a, newTestLogger())
	cartScreen := NewCartStore(a, newTestLogger())
	browse.Load(ctx)
	cartScreen.Load(ctx)

	browse.Add(ctx, product(1, "10"))

	// No shared memory: the other instance is stale until it reloads.
	assert.Empty(t, cartScreen.Snapshot().Entries)

	cartScreen.Load(ctx)
	require.Len(t, cartScreen.Snapshot().Entries, 1)
}

func TestCartStore_IndependentInstances_LastWriteWins(t *testing.T) {
	a := memory.New()
	ctx := context.Background()

	one := NewCartStore(a, newTestLogger())
	two := NewCartStore(a, newTestLogger())
	one.Load(ctx)
	two.Load(ctx)

	one.Add(ctx, product(1, "1"))
	two.Add(ctx, product(2, "1"))

	fresh := NewCartStore(a, newTestLogger())
	fresh.Load(ctx)

	cart := fresh.Snapshot()
	require.Len(t, cart.Entries, 1)
	assert.Equal(t, int64(2), cart.Entries[0].ID)
}
