package store

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/utafrali/shopstate/internal/domain"
)

// cartRecord is the persisted shape of a cart entry under the "cart" key.
type cartRecord struct {
	ID        int64       `json:"id"`
	Title     string      `json:"title"`
	Price     json.Number `json:"price"`
	Thumbnail string      `json:"thumbnail"`
	Quantity  int         `json:"quantity"`
}

// wishlistRecord is the persisted shape of a wishlist entry.
type wishlistRecord struct {
	ID        int64       `json:"id"`
	Title     string      `json:"title"`
	Price     json.Number `json:"price"`
	Thumbnail string      `json:"thumbnail"`
}

// storedRecord is the lenient read shape shared by both keys. Pointer fields
// distinguish "absent" from zero. Unknown fields are ignored.
type storedRecord struct {
	ID        *int64           `json:"id"`
	Title     string           `json:"title"`
	Price     *decimal.Decimal `json:"price"`
	Thumbnail string           `json:"thumbnail"`
	Quantity  *int             `json:"quantity"`
}

func encodeCart(c domain.Cart) ([]byte, error) {
	records := make([]cartRecord, 0, len(c.Entries))
	for _, e := range c.Entries {
		records = append(records, cartRecord{
			ID:        e.ID,
			Title:     e.Title,
			Price:     json.Number(e.Price.String()),
			Thumbnail: e.Thumbnail,
			Quantity:  e.Quantity,
		})
	}
	return json.Marshal(records)
}

func encodeWishlist(w domain.Wishlist) ([]byte, error) {
	records := make([]wishlistRecord, 0, len(w.Entries))
	for _, e := range w.Entries {
		records = append(records, wishlistRecord{
			ID:        e.ID,
			Title:     e.Title,
			Price:     json.Number(e.Price.String()),
			Thumbnail: e.Thumbnail,
		})
	}
	return json.Marshal(records)
}

// decodeCart parses a persisted cart. Entries without a positive id or with a
// missing or negative price are dropped, as are repeats of an id already seen.
// A missing or non-positive quantity becomes 1. It returns the number of
// dropped entries; err is set only when the blob is not an array at all.
func decodeCart(data []byte) (domain.Cart, int, error) {
	records, dropped, err := decodeRecords(data)
	if err != nil {
		return domain.Cart{}, 0, err
	}

	cart := domain.Cart{Entries: make([]domain.CartEntry, 0, len(records))}
	for _, r := range records {
		qty := 1
		if r.Quantity != nil && *r.Quantity > 0 {
			qty = *r.Quantity
		}
		cart.Entries = append(cart.Entries, domain.CartEntry{
			Product:  r.product(),
			Quantity: qty,
		})
	}
	return cart, dropped, nil
}

// decodeWishlist parses a persisted wishlist with the same entry rules as
// decodeCart. Any quantity field is ignored.
func decodeWishlist(data []byte) (domain.Wishlist, int, error) {
	records, dropped, err := decodeRecords(data)
	if err != nil {
		return domain.Wishlist{}, 0, err
	}

	wl := domain.Wishlist{Entries: make([]domain.WishlistEntry, 0, len(records))}
	for _, r := range records {
		wl.Entries = append(wl.Entries, domain.WishlistEntry{Product: r.product()})
	}
	return wl, dropped, nil
}

func decodeRecords(data []byte) ([]storedRecord, int, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("decode collection: %w", err)
	}

	records := make([]storedRecord, 0, len(raw))
	seen := make(map[int64]struct{}, len(raw))
	dropped := 0
	for _, msg := range raw {
		var r storedRecord
		if err := json.Unmarshal(msg, &r); err != nil {
			dropped++
			continue
		}
		if r.ID == nil || *r.ID <= 0 || r.Price == nil || r.Price.IsNegative() {
			dropped++
			continue
		}
		if _, dup := seen[*r.ID]; dup {
			dropped++
			continue
		}
		seen[*r.ID] = struct{}{}
		records = append(records, r)
	}
	return records, dropped, nil
}

func (r storedRecord) product() domain.Product {
	return domain.Product{
		ID:        *r.ID,
		Title:     r.Title,
		Price:     *r.Price,
		Thumbnail: r.Thumbnail,
	}
}
