package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/shopstate/internal/domain"
)

func TestEncodeCart_Layout(t *testing.T) {
	cart := domain.Cart{Entries: []domain.CartEntry{
		{Product: product(1, "10.5"), Quantity: 2},
	}}

	data, err := encodeCart(cart)
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"id":1,"title":"Product","price":10.5,"thumbnail":"https://cdn.example.com/p.png","quantity":2}]`,
		string(data))
}

func TestEncodeCart_EmptyIsArray(t *testing.T) {
	data, err := encodeCart(domain.Cart{})
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}

func TestEncodeWishlist_HasNoQuantity(t *testing.T) {
	wl := domain.Wishlist{Entries: []domain.WishlistEntry{{Product: product(5, "3")}}}

	data, err := encodeWishlist(wl)
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"id":5,"title":"Product","price":3,"thumbnail":"https://cdn.example.com/p.png"}]`,
		string(data))
}

func TestDecodeCart_Normalizes(t *testing.T) {
	tests := []struct {
		name        string
		blob        string
		wantIDs     []int64
		wantQty     []int
		wantDropped int
	}{
		{
			name:    "missing quantity defaults to 1",
			blob:    `[{"id":1,"title":"a","price":2.5}]`,
			wantIDs: []int64{1},
			wantQty: []int{1},
		},
		{
			name:    "non-positive quantity defaults to 1",
			blob:    `[{"id":1,"price":1,"quantity":0},{"id":2,"price":1,"quantity":-4}]`,
			wantIDs: []int64{1, 2},
			wantQty: []int{1, 1},
		},
		{
			name:    "unknown fields ignored",
			blob:    `[{"id":3,"price":1,"quantity":2,"brand":"x","rating":4.5}]`,
			wantIDs: []int64{3},
			wantQty: []int{2},
		},
		{
			name:        "entries without id or price dropped",
			blob:        `[{"title":"no id","price":1},{"id":4},{"id":0,"price":1},{"id":5,"price":1}]`,
			wantIDs:     []int64{5},
			wantQty:     []int{1},
			wantDropped: 3,
		},
		{
			name:        "negative price dropped",
			blob:        `[{"id":6,"price":-1}]`,
			wantIDs:     []int64{},
			wantQty:     []int{},
			wantDropped: 1,
		},
		{
			name:        "wrongly typed entries dropped",
			blob:        `[42,"x",null,{"id":"seven","price":1},{"id":7,"price":"1.25"}]`,
			wantIDs:     []int64{7},
			wantQty:     []int{1},
			wantDropped: 4,
		},
		{
			name:        "duplicate ids keep first",
			blob:        `[{"id":8,"price":1,"quantity":3},{"id":8,"price":9,"quantity":1}]`,
			wantIDs:     []int64{8},
			wantQty:     []int{3},
			wantDropped: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart, dropped, err := decodeCart([]byte(tt.blob))
			require.NoError(t, err)
			assert.Equal(t, tt.wantDropped, dropped)

			ids := make([]int64, 0, len(cart.Entries))
			qty := make([]int, 0, len(cart.Entries))
			for _, e := range cart.Entries {
				ids = append(ids, e.ID)
				qty = append(qty, e.Quantity)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantQty, qty)
		})
	}
}

func TestDecodeCart_QuotedPrice(t *testing.T) {
	cart, _, err := decodeCart([]byte(`[{"id":7,"price":"1.25"}]`))
	require.NoError(t, err)
	require.Len(t, cart.Entries, 1)
	assert.Equal(t, "1.25", cart.Entries[0].Price.String())
}

func TestDecodeCart_NotAnArray(t *testing.T) {
	for _, blob := range []string{`{"id":1}`, `not json`, `"cart"`} {
		_, _, err := decodeCart([]byte(blob))
		assert.Error(t, err, blob)
	}
}

func TestDecodeCart_Null(t *testing.T) {
	cart, dropped, err := decodeCart([]byte(`null`))
	require.NoError(t, err)
	assert.Zero(t, dropped)
	assert.Empty(t, cart.Entries)
}

func TestDecodeWishlist_IgnoresQuantity(t *testing.T) {
	wl, dropped, err := decodeWishlist([]byte(`[{"id":5,"title":"w","price":1,"quantity":9},{"id":5,"price":1}]`))
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
	require.Len(t, wl.Entries, 1)
	assert.Equal(t, "w", wl.Entries[0].Title)
}

func TestCodec_RoundTrip(t *testing.T) {
	cart := domain.Cart{Entries: []domain.CartEntry{
		{Product: product(1, "9.99"), Quantity: 3},
		{Product: product(2, "0.10"), Quantity: 1},
	}}

	data, err := encodeCart(cart)
	require.NoError(t, err)

	got, dropped, err := decodeCart(data)
	require.NoError(t, err)
	assert.Zero(t, dropped)
	require.Len(t, got.Entries, 2)
	for i := range cart.Entries {
		assert.Equal(t, cart.Entries[i].ID, got.Entries[i].ID)
		assert.Equal(t, cart.Entries[i].Quantity, got.Entries[i].Quantity)
		assert.True(t, cart.Entries[i].Price.Equal(got.Entries[i].Price))
	}
}
