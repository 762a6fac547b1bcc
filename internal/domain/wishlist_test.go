package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWishlist_FindIndex(t *testing.T) {
	w := Wishlist{Entries: []WishlistEntry{
		{Product: Product{ID: 5}},
		{Product: Product{ID: 6}},
	}}
	assert.Equal(t, 1, w.FindIndex(6))
	assert.Equal(t, -1, w.FindIndex(1))
	assert.Equal(t, 2, w.Len())
}

func TestWishlist_Clone(t *testing.T) {
	w := Wishlist{Entries: []WishlistEntry{{Product: Product{ID: 5, Title: "a"}}}}
	cp := w.Clone()
	cp.Entries[0].Title = "b"

	assert.Equal(t, "a", w.Entries[0].Title)
}
