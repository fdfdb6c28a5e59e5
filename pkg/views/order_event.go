package views

import "time"

// OrderCreatedEvent is published to Kafka after an order commits.
type OrderCreatedEvent struct {
	OrderID    int64     `json:"order_id"`
	CustomerID int64     `json:"customer_id"`
	ProductIDs []int64   `json:"product_ids"`
	CreatedAt  time.Time `json:"created_at"`
	TraceID    string    `json:"trace_id"`
}
