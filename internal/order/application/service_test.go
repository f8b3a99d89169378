package application

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdomain "github.com/rayltitan1993/yournextstore-1/internal/cart/domain"
	catalogdomain "github.com/rayltitan1993/yournextstore-1/internal/catalog/domain"
	checkoutdomain "github.com/rayltitan1993/yournextstore-1/internal/checkout/domain"
	"github.com/rayltitan1993/yournextstore-1/internal/order/domain"
	"github.com/rayltitan1993/yournextstore-1/internal/payment"
)

type mockRepo struct {
	created  []domain.Order
	existing map[string]bool // session IDs already recorded
	err      error
}

func (m *mockRepo) CreateWithOutbox(_ context.Context, o domain.Order, _ string, _ []byte, _ string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if m.existing[o.SessionID] {
		return false, nil
	}
	m.created = append(m.created, o)
	return true, nil
}

func (m *mockRepo) ListByUser(_ context.Context, _ string) ([]domain.Order, error) {
	return m.created, nil
}

type mockSessions struct {
	sessions map[string]checkoutdomain.Session
}

func (m *mockSessions) Find(_ context.Context, sessionID string) (checkoutdomain.Session, error) {
	s, ok := m.sessions[sessionID]
	if !ok {
		return checkoutdomain.Session{}, checkoutdomain.ErrSessionNotFound
	}
	return s, nil
}

type mockCarts struct {
	carts map[string]*cartdomain.Cart
}

func (m *mockCarts) Get(_ context.Context, cartID string) (*cartdomain.Cart, bool) {
	c, ok := m.carts[cartID]
	return c, ok
}

func completedEvent() payment.Event {
	return payment.Event{
		ID:   "evt_1",
		Type: payment.EventCheckoutCompleted,
		Session: payment.CheckoutSession{
			ID:          "cs_1",
			AmountTotal: 21900,
			Currency:    "usd",
			Metadata:    map[string]string{"cartId": "cart-1", "userId": "user-1"},
			ShippingDetails: &payment.ShippingDetails{
				Name: "Jane Doe",
				Address: payment.Address{
					Line1: "1 Main St", City: "Springfield", State: "IL",
					PostalCode: "62701", Country: "US",
				},
			},
		},
	}
}

func snapshotFixture() checkoutdomain.Session {
	return checkoutdomain.Session{
		SessionID: "cs_1",
		CartID:    "cart-1",
		UserID:    "user-1",
		Currency:  "usd",
		Lines: []checkoutdomain.Line{
			{ProductID: "p1", VariantID: "v1", Name: "Minimalist Ceramic Vase", UnitAmountCents: 4500, Quantity: 2, Images: []string{"https://img/vase.png"}},
			{ProductID: "p3", VariantID: "v3", Name: "Pro Wireless Earbuds", UnitAmountCents: 12900, Quantity: 1},
		},
	}
}

func TestRecordPayment_CreatesOrderFromSnapshot(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(slog.Default(), repo,
		&mockSessions{sessions: map[string]checkoutdomain.Session{"cs_1": snapshotFixture()}},
		&mockCarts{})

	err := svc.RecordPayment(context.Background(), completedEvent())
	require.NoError(t, err)
	require.Len(t, repo.created, 1)

	o := repo.created[0]
	assert.Equal(t, "cs_1", o.SessionID)
	assert.Equal(t, "user-1", o.UserID)
	assert.Equal(t, int64(21900), o.AmountTotalCents, "total comes from the notification")
	assert.Equal(t, "usd", o.Currency)
	assert.Equal(t, domain.StatusPaid, o.Status)
	assert.Equal(t, "Jane Doe", o.Shipping.Name)
	assert.Equal(t, "US", o.Shipping.Country)

	require.Len(t, o.Items, 2)
	assert.Equal(t, "p1", o.Items[0].ProductID)
	assert.Equal(t, int64(4500), o.Items[0].PriceCents)
	assert.Equal(t, 2, o.Items[0].Quantity)
	assert.Equal(t, "https://img/vase.png", o.Items[0].Image)
	assert.Equal(t, "p3", o.Items[1].ProductID)
}

func TestRecordPayment_FallsBackToLiveCart(t *testing.T) {
	repo := &mockRepo{}
	cart := &cartdomain.Cart{
		ID: "cart-1",
		LineItems: []cartdomain.LineItem{
			{
				Quantity: 3,
				Variant:  catalogdomain.Variant{ID: "v5", PriceCents: 2500},
				Product:  catalogdomain.Product{ID: "p5", Name: "Organic Cotton T-Shirt", Images: []string{"https://img/tee.png"}},
			},
		},
	}
	svc := NewService(slog.Default(), repo,
		&mockSessions{sessions: map[string]checkoutdomain.Session{}},
		&mockCarts{carts: map[string]*cartdomain.Cart{"cart-1": cart}})

	err := svc.RecordPayment(context.Background(), completedEvent())
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	require.Len(t, repo.created[0].Items, 1)
	assert.Equal(t, "Organic Cotton T-Shirt", repo.created[0].Items[0].Name)
	assert.Equal(t, "https://img/tee.png", repo.created[0].Items[0].Image)
}

func TestRecordPayment_MissingCartReference(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(slog.Default(), repo, &mockSessions{}, &mockCarts{})

	event := completedEvent()
	event.Session.Metadata = map[string]string{}

	err := svc.RecordPayment(context.Background(), event)
	assert.ErrorIs(t, err, ErrMissingReference)
	assert.Empty(t, repo.created)
}

func TestRecordPayment_CartGoneIsANoOp(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(slog.Default(), repo,
		&mockSessions{sessions: map[string]checkoutdomain.Session{}},
		&mockCarts{carts: map[string]*cartdomain.Cart{}})

	err := svc.RecordPayment(context.Background(), completedEvent())
	assert.NoError(t, err, "vanished cart must be acknowledged, not retried forever")
	assert.Empty(t, repo.created)
}

func TestRecordPayment_DuplicateSessionIsANoOp(t *testing.T) {
	repo := &mockRepo{existing: map[string]bool{"cs_1": true}}
	svc := NewService(slog.Default(), repo,
		&mockSessions{sessions: map[string]checkoutdomain.Session{"cs_1": snapshotFixture()}},
		&mockCarts{})

	err := svc.RecordPayment(context.Background(), completedEvent())
	assert.NoError(t, err)
	assert.Empty(t, repo.created)
}

func TestRecordPayment_IgnoresOtherEventTypes(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(slog.Default(), repo, &mockSessions{}, &mockCarts{})

	err := svc.RecordPayment(context.Background(), payment.Event{ID: "evt_2", Type: "payment_intent.created"})
	assert.NoError(t, err)
	assert.Empty(t, repo.created)
}

func TestRecordPayment_PersistenceFailureSurfaces(t *testing.T) {
	repo := &mockRepo{err: errors.New("db down")}
	svc := NewService(slog.Default(), repo,
		&mockSessions{sessions: map[string]checkoutdomain.Session{"cs_1": snapshotFixture()}},
		&mockCarts{})

	err := svc.RecordPayment(context.Background(), completedEvent())
	assert.Error(t, err)
}

func TestRecordPayment_AnonymousOrderKeepsEmptyUser(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(slog.Default(), repo,
		&mockSessions{sessions: map[string]checkoutdomain.Session{"cs_1": snapshotFixture()}},
		&mockCarts{})

	event := completedEvent()
	event.Session.Metadata = map[string]string{"cartId": "cart-1"}

	err := svc.RecordPayment(context.Background(), event)
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Empty(t, repo.created[0].UserID)
}
