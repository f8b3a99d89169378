package domain

import "time"

type OrderStatus string

const (
	StatusPending OrderStatus = "pending"
	StatusPaid    OrderStatus = "paid"
)

type Order struct {
	ID     string `json:"id"`
	UserID string `json:"userId,omitempty"`
	// SessionID is the external payment session this order settles.
	// Unique: a redelivered completion webhook maps to the same order.
	SessionID        string      `json:"sessionId"`
	AmountTotalCents int64       `json:"amountTotal"`
	Currency         string      `json:"currency"`
	Status           OrderStatus `json:"status"`
	Shipping         Shipping    `json:"shipping"`
	Items            []OrderItem `json:"items"`
	CreatedAt        time.Time   `json:"createdAt"`
}

type Shipping struct {
	Name       string `json:"name,omitempty"`
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

// OrderItem is a snapshot of what was actually charged, independent of the
// live catalog.
type OrderItem struct {
	ProductID  string `json:"productId"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price"`
	Quantity   int    `json:"quantity"`
	Image      string `json:"image,omitempty"`
}
