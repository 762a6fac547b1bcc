package domain

import "github.com/shopspring/decimal"

// Product is a purchasable catalog item. The catalog owns it; carts and
// wishlists copy its fields at the moment it is added.
type Product struct {
	ID        int64           `json:"id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Thumbnail string          `json:"thumbnail"`
}
