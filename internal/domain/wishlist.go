package domain

// WishlistEntry is a product saved for later. It carries no quantity.
type WishlistEntry struct {
	Product
}

// Wishlist is an ordered collection of entries, unique by product ID.
type Wishlist struct {
	Entries []WishlistEntry `json:"entries"`
}

// Len returns the number of entries.
func (w Wishlist) Len() int {
	return len(w.Entries)
}

// FindIndex returns the index of the entry with the given product ID, or -1.
func (w Wishlist) FindIndex(id int64) int {
	for i := range w.Entries {
		if w.Entries[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a copy of the wishlist with its own backing array.
func (w Wishlist) Clone() Wishlist {
	entries := make([]WishlistEntry, len(w.Entries))
	copy(entries, w.Entries)
	return Wishlist{Entries: entries}
}
