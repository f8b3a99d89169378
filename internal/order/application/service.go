package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	cartdomain "github.com/rayltitan1993/yournextstore-1/internal/cart/domain"
	checkoutdomain "github.com/rayltitan1993/yournextstore-1/internal/checkout/domain"
	"github.com/rayltitan1993/yournextstore-1/internal/order/domain"
	"github.com/rayltitan1993/yournextstore-1/internal/payment"
	"github.com/rayltitan1993/yournextstore-1/pkg/tracing"
)

var ErrMissingReference = errors.New("notification carries no cart reference")

type Service struct {
	log      *slog.Logger
	repo     OrderRepository
	sessions SessionReader
	carts    CartReader
}

func NewService(log *slog.Logger, repo OrderRepository, sessions SessionReader, carts CartReader) *Service {
	return &Service{log: log, repo: repo, sessions: sessions, carts: carts}
}

// RecordPayment turns a verified completion notification into at most one
// durable order. Total, currency, and shipping come from the notification;
// items come from the checkout snapshot persisted at session creation, with
// the live cart as fallback for sessions opened before snapshots existed.
// Both gone means the notification is acknowledged as a no-op so the
// processor stops retrying.
func (s *Service) RecordPayment(ctx context.Context, event payment.Event) error {
	if event.Type != payment.EventCheckoutCompleted {
		s.log.Debug("ignoring webhook event", "type", event.Type)
		return nil
	}

	session := event.Session
	cartID := session.Metadata["cartId"]
	if cartID == "" {
		return ErrMissingReference
	}
	userID := session.Metadata["userId"]

	items := s.resolveItems(ctx, session.ID, cartID)
	if len(items) == 0 {
		s.log.Warn("no checkout snapshot or cart for completed session, dropping",
			"session_id", session.ID, "cart_id", cartID)
		return nil
	}

	o := domain.Order{
		ID:               uuid.NewString(),
		UserID:           userID,
		SessionID:        session.ID,
		AmountTotalCents: session.AmountTotal,
		Currency:         session.Currency,
		Status:           domain.StatusPaid,
		Items:            items,
	}
	if sd := session.ShippingDetails; sd != nil {
		o.Shipping = domain.Shipping{
			Name:       sd.Name,
			Line1:      sd.Address.Line1,
			Line2:      sd.Address.Line2,
			City:       sd.Address.City,
			State:      sd.Address.State,
			PostalCode: sd.Address.PostalCode,
			Country:    sd.Address.Country,
		}
	}

	created := domain.OrderCreated{
		OrderID:          o.ID,
		UserID:           o.UserID,
		SessionID:        o.SessionID,
		AmountTotalCents: o.AmountTotalCents,
		Currency:         o.Currency,
		Items:            o.Items,
	}
	payload, err := json.Marshal(created)
	if err != nil {
		return err
	}

	inserted, err := s.repo.CreateWithOutbox(ctx, o, "OrderCreated", payload, tracing.Traceparent(ctx))
	if err != nil {
		return fmt.Errorf("persist order: %w", err)
	}
	if !inserted {
		s.log.Info("duplicate completion notification, order already recorded", "session_id", session.ID)
		return nil
	}

	s.log.Info("order created",
		"order_id", o.ID, "session_id", o.SessionID, "total_cents", o.AmountTotalCents)
	return nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) resolveItems(ctx context.Context, sessionID, cartID string) []domain.OrderItem {
	snap, err := s.sessions.Find(ctx, sessionID)
	if err == nil && len(snap.Lines) > 0 {
		return itemsFromSnapshot(snap)
	}
	if err != nil && !errors.Is(err, checkoutdomain.ErrSessionNotFound) {
		s.log.Error("checkout snapshot lookup failed, falling back to cart", "session_id", sessionID, "err", err)
	}

	cart, ok := s.carts.Get(ctx, cartID)
	if !ok || len(cart.LineItems) == 0 {
		return nil
	}
	return itemsFromCart(cart)
}

func itemsFromSnapshot(snap checkoutdomain.Session) []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(snap.Lines))
	for _, l := range snap.Lines {
		items = append(items, domain.OrderItem{
			ProductID:  l.ProductID,
			Name:       l.Name,
			PriceCents: l.UnitAmountCents,
			Quantity:   l.Quantity,
			Image:      first(l.Images),
		})
	}
	return items
}

func itemsFromCart(cart *cartdomain.Cart) []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(cart.LineItems))
	for _, li := range cart.LineItems {
		image := first(li.Variant.Images)
		if image == "" {
			image = first(li.Product.Images)
		}
		items = append(items, domain.OrderItem{
			ProductID:  li.Product.ID,
			Name:       li.Product.Name,
			PriceCents: li.Variant.PriceCents,
			Quantity:   li.Quantity,
			Image:      image,
		})
	}
	return items
}

func first(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	return ss[0]
}
