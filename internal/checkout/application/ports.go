package application

import (
	"context"

	cartdomain "github.com/rayltitan1993/yournextstore-1/internal/cart/domain"
	"github.com/rayltitan1993/yournextstore-1/internal/checkout/domain"
	"github.com/rayltitan1993/yournextstore-1/internal/payment"
)

type CartReader interface {
	Get(ctx context.Context, cartID string) (*cartdomain.Cart, bool)
}

type Gateway interface {
	CreateCheckoutSession(ctx context.Context, p payment.SessionParams) (payment.Session, error)
}

type SessionRepository interface {
	Save(ctx context.Context, s domain.Session) error
}
