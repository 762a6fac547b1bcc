package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/shopstate/internal/storage"
)

func TestAdapter_GetMissing(t *testing.T) {
	a := New()

	got, err := a.Get(context.Background(), storage.KeyCart)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAdapter_SetThenGet(t *testing.T) {
	a := New()
	ctx := context.Background()

	require.NoError(t, a.Set(ctx, storage.KeyCart, []byte(`[]`)))

	got, err := a.Get(ctx, storage.KeyCart)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}

func TestAdapter_LastWriteWins(t *testing.T) {
	a := New()
	ctx := context.Background()

	require.NoError(t, a.Set(ctx, storage.KeyWishlist, []byte(`[1]`)))
	require.NoError(t, a.Set(ctx, storage.KeyWishlist, []byte(`[2]`)))

	got, err := a.Get(ctx, storage.KeyWishlist)
	require.NoError(t, err)
	assert.Equal(t, `[2]`, string(got))
}

func TestAdapter_ValuesAreCopied(t *testing.T) {
	a := New()
	ctx := context.Background()

	buf := []byte(`abc`)
	require.NoError(t, a.Set(ctx, "k", buf))
	buf[0] = 'x'

	got, err := a.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'y'
	again, _ := a.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestAdapter_Delete(t *testing.T) {
	a := New()
	ctx := context.Background()

	require.NoError(t, a.Set(ctx, "k", []byte(`1`)))
	require.NoError(t, a.Delete(ctx, "k"))
	require.NoError(t, a.Delete(ctx, "missing"))

	_, err := a.Get(ctx, "k")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestWithNamespace(t *testing.T) {
	a := New()
	ctx := context.Background()

	scoped := storage.WithNamespace(a, "device-1")
	require.NoError(t, scoped.Set(ctx, storage.KeyCart, []byte(`[]`)))

	_, err := a.Get(ctx, storage.KeyCart)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	raw, err := a.Get(ctx, "device-1:cart")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(raw))

	assert.Same(t, a, storage.WithNamespace(a, ""))
}
