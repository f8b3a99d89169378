package domain

import (
	"errors"
	"time"
)

// ErrSessionNotFound reports that no snapshot was persisted for a session
// ID, e.g. the session predates the snapshot table.
var ErrSessionNotFound = errors.New("checkout session not found")

// Session is the priced snapshot of a cart captured when a hosted payment
// session is opened. It survives process restarts so the completion webhook
// can reconstruct the order even if the in-memory cart is gone.
type Session struct {
	SessionID string    `json:"session_id"`
	CartID    string    `json:"cart_id"`
	UserID    string    `json:"user_id,omitempty"`
	Currency  string    `json:"currency"`
	Lines     []Line    `json:"lines"`
	CreatedAt time.Time `json:"created_at"`
}

type Line struct {
	ProductID       string   `json:"product_id"`
	VariantID       string   `json:"variant_id"`
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	Images          []string `json:"images,omitempty"`
	UnitAmountCents int64    `json:"unit_amount"`
	Quantity        int      `json:"quantity"`
}

func (s Session) TotalCents() int64 {
	var total int64
	for _, l := range s.Lines {
		total += l.UnitAmountCents * int64(l.Quantity)
	}
	return total
}
