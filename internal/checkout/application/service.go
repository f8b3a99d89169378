package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	cartdomain "github.com/rayltitan1993/yournextstore-1/internal/cart/domain"
	"github.com/rayltitan1993/yournextstore-1/internal/checkout/domain"
	"github.com/rayltitan1993/yournextstore-1/internal/payment"
)

var ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

// Countries the processor is allowed to collect a shipping address for.
var allowedShippingCountries = []string{"US", "CA", "GB", "AU", "DE", "FR"}

const currency = "usd"

type Service struct {
	log     *slog.Logger
	carts   CartReader
	gateway Gateway
	repo    SessionRepository

	successURL string
	cancelURL  string
}

func NewService(log *slog.Logger, carts CartReader, gateway Gateway, repo SessionRepository, publicOrigin string) *Service {
	return &Service{
		log:        log,
		carts:      carts,
		gateway:    gateway,
		repo:       repo,
		successURL: publicOrigin + "/checkout/success",
		cancelURL:  publicOrigin + "/",
	}
}

// Initiate opens a hosted payment session for the cart and returns the
// redirect URL. The priced line snapshot is persisted under the session ID
// before the URL is handed out, so a later completion webhook does not
// depend on the non-durable cart.
func (s *Service) Initiate(ctx context.Context, cartID, userID string) (string, error) {
	if cartID == "" {
		return "", ErrEmptyCart
	}
	cart, ok := s.carts.Get(ctx, cartID)
	if !ok || len(cart.LineItems) == 0 {
		return "", ErrEmptyCart
	}

	lines := project(cart)

	metadata := map[string]string{"cartId": cart.ID}
	if userID != "" {
		metadata["userId"] = userID
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payment.SessionParams{
		Currency:                 currency,
		Lines:                    toGatewayLines(lines),
		SuccessURL:               s.successURL,
		CancelURL:                s.cancelURL,
		Metadata:                 metadata,
		AllowedShippingCountries: allowedShippingCountries,
	})
	if err != nil {
		return "", fmt.Errorf("create payment session: %w", err)
	}

	snap := domain.Session{
		SessionID: session.ID,
		CartID:    cart.ID,
		UserID:    userID,
		Currency:  currency,
		Lines:     lines,
	}
	if err := s.repo.Save(ctx, snap); err != nil {
		// The hosted session already exists; losing the snapshot only
		// degrades completion to the live-cart fallback.
		s.log.Error("checkout snapshot save failed", "session_id", session.ID, "err", err)
	}

	s.log.Info("checkout initiated",
		"cart_id", cart.ID, "session_id", session.ID, "total_cents", snap.TotalCents())
	return session.URL, nil
}

// project maps cart line items to priced checkout lines. Variant images
// win; the parent product's images are the fallback.
func project(cart *cartdomain.Cart) []domain.Line {
	lines := make([]domain.Line, 0, len(cart.LineItems))
	for _, item := range cart.LineItems {
		images := item.Variant.Images
		if len(images) == 0 {
			images = item.Product.Images
		}
		lines = append(lines, domain.Line{
			ProductID:       item.Product.ID,
			VariantID:       item.Variant.ID,
			Name:            item.Product.Name,
			Description:     item.Product.Summary,
			Images:          images,
			UnitAmountCents: item.Variant.PriceCents,
			Quantity:        item.Quantity,
		})
	}
	return lines
}

func toGatewayLines(lines []domain.Line) []payment.Line {
	out := make([]payment.Line, 0, len(lines))
	for _, l := range lines {
		out = append(out, payment.Line{
			Name:            l.Name,
			Description:     l.Description,
			Images:          l.Images,
			UnitAmountCents: l.UnitAmountCents,
			Quantity:        l.Quantity,
		})
	}
	return out
}
