package cart

import "time"

// Item is one cart line. Name, price and stock are snapshots taken when the
// line was added; the live catalog is consulted again on every mutation.
type Item struct {
	ID        string  `json:"itemId"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Stock     int     `json:"stock"`
}

type Cart struct {
	ID         string    `json:"cartId"`
	UserID     string    `json:"userId"`
	Items      []Item    `json:"items"`
	TotalItems int       `json:"totalItems"`
	TotalPrice float64   `json:"totalPrice"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// RecalcTotals rederives totalItems and totalPrice from the lines. Totals are
// never trusted as stored state: every mutation recomputes them here before
// the cart is persisted.
func (c *Cart) RecalcTotals() {
	total := 0.0
	count := 0
	for _, it := range c.Items {
		count += it.Quantity
		total += float64(it.Quantity) * it.Price
	}
	c.TotalItems = count
	c.TotalPrice = total
}
