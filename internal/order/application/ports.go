package application

import (
	"context"

	cartdomain "github.com/rayltitan1993/yournextstore-1/internal/cart/domain"
	checkoutdomain "github.com/rayltitan1993/yournextstore-1/internal/checkout/domain"
	"github.com/rayltitan1993/yournextstore-1/internal/order/domain"
)

type OrderRepository interface {
	// CreateWithOutbox inserts the order, its items, and an OrderCreated
	// outbox row in one transaction. Returns false without error when an
	// order for the same payment session already exists.
	CreateWithOutbox(ctx context.Context, o domain.Order, eventType string, payload []byte, traceparent string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

type SessionReader interface {
	Find(ctx context.Context, sessionID string) (checkoutdomain.Session, error)
}

type CartReader interface {
	Get(ctx context.Context, cartID string) (*cartdomain.Cart, bool)
}
