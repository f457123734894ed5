package events

import "time"

const (
	EventTypeOrderCreated      = "OrderCreated"
	EventTypeOrderCancelled    = "OrderCancelled"
	EventTypeConfirmationEmail = "OrderConfirmationEmail"
)

type OrderLineEvent struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type OrderCreated struct {
	EventType  string           `json:"eventType"`
	OrderID    string           `json:"orderId"`
	UserID     string           `json:"userId"`
	TotalPrice float64          `json:"totalPrice"`
	Items      []OrderLineEvent `json:"items"`
	Timestamp  time.Time        `json:"timestamp"`
}

type OrderCancelled struct {
	EventType string    `json:"eventType"`
	OrderID   string    `json:"orderId"`
	UserID    string    `json:"userId"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// ConfirmationEmail is the fire-and-forget hand-off to the notification
// sender. Delivery is best effort and never gates order correctness.
type ConfirmationEmail struct {
	EventType  string    `json:"eventType"`
	OrderID    string    `json:"orderId"`
	UserID     string    `json:"userId"`
	TotalPrice float64   `json:"totalPrice"`
	Timestamp  time.Time `json:"timestamp"`
}
