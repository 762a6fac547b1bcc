package domain

import "github.com/shopspring/decimal"

// CartEntry is a product held in the cart together with its quantity.
// Quantity is always >= 1; an entry that would drop to 0 is removed instead.
type CartEntry struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal returns price * quantity without rounding.
func (e CartEntry) Subtotal() decimal.Decimal {
	return e.Price.Mul(decimal.NewFromInt(int64(e.Quantity)))
}

// Cart is an ordered collection of entries, unique by product ID.
type Cart struct {
	Entries []CartEntry `json:"entries"`
}

// Total returns the sum of price * quantity over all entries, rounded half-up
// to two decimal places. Rounding is applied once, to the final sum.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range c.Entries {
		total = total.Add(e.Subtotal())
	}
	return total.Round(2)
}

// ItemCount returns the total number of units in the cart.
func (c Cart) ItemCount() int {
	var count int
	for _, e := range c.Entries {
		count += e.Quantity
	}
	return count
}

// Len returns the number of distinct entries.
func (c Cart) Len() int {
	return len(c.Entries)
}

// FindIndex returns the index of the entry with the given product ID, or -1.
func (c Cart) FindIndex(id int64) int {
	for i := range c.Entries {
		if c.Entries[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy safe to hand out to renderers.
func (c Cart) Clone() Cart {
	entries := make([]CartEntry, len(c.Entries))
	copy(entries, c.Entries)
	return Cart{Entries: entries}
}
