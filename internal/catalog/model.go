package catalog

import "time"

// Product is owned by the catalog; the rest of the system only ever reads it
// and adjusts its stock counter through the inventory ledger.
type Product struct {
	ID        string    `json:"productId"`
	SellerID  string    `json:"sellerId"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
