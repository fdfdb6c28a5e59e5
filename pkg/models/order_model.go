package models

import "time"

// Order maps to table `orders`; its products come from `order_products`.
type Order struct {
	ID         int64
	CustomerID int64
	CreatedAt  time.Time
	// Associations
	Products []Product
}

// ProductIDs returns the ids of the associated products in order.
func (o Order) ProductIDs() []int64 {
	ids := make([]int64, 0, len(o.Products))
	for _, p := range o.Products {
		ids = append(ids, p.ID)
	}
	return ids
}
