package domain

type OrderCreated struct {
	OrderID          string      `json:"order_id"`
	UserID           string      `json:"user_id,omitempty"`
	SessionID        string      `json:"session_id"`
	AmountTotalCents int64       `json:"amount_total_cents"`
	Currency         string      `json:"currency"`
	Items            []OrderItem `json:"items"`
}
