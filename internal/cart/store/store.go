package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	cartdomain "github.com/rayltitan1993/yournextstore-1/internal/cart/domain"
	catalogdomain "github.com/rayltitan1993/yournextstore-1/internal/catalog/domain"
)

type VariantResolver interface {
	ResolveVariant(ctx context.Context, variantID string) (catalogdomain.Product, catalogdomain.Variant, error)
}

// Store holds every open cart in process memory, keyed by an opaque ID.
// Carts are deliberately not persisted: they are lost on restart, and
// checkout durability is the checkout session snapshot's job.
//
// Read-modify-write cycles on one cart are serialized by a per-ID lock so
// concurrent upserts cannot drop each other's updates.
type Store struct {
	catalog VariantResolver
	now     func() time.Time

	mu    sync.Mutex
	carts map[string]*cartdomain.Cart
	locks map[string]*sync.Mutex
}

func New(catalog VariantResolver) *Store {
	return &Store{
		catalog: catalog,
		now:     time.Now,
		carts:   make(map[string]*cartdomain.Cart),
		locks:   make(map[string]*sync.Mutex),
	}
}

// Get returns a copy of the cart, or false when no such cart exists.
// A miss is a normal outcome, never an error.
func (s *Store) Get(_ context.Context, cartID string) (*cartdomain.Cart, bool) {
	s.mu.Lock()
	cart, ok := s.carts[cartID]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}

	l := s.keyLock(cartID)
	l.Lock()
	defer l.Unlock()
	return snapshot(cart), true
}

// Upsert adjusts the quantity of variantID in the cart by delta.
//
// Semantics carried over from the storefront's observed behavior:
//   - delta == 0 removes the line item if present, otherwise no-op
//   - an existing line item gets delta added; a result <= 0 removes it
//   - a new line item is only created for delta > 0
//
// An empty cartID mints a fresh cart. The updated cart is returned as a copy.
func (s *Store) Upsert(ctx context.Context, cartID, variantID string, delta int) (*cartdomain.Cart, error) {
	product, variant, err := s.catalog.ResolveVariant(ctx, variantID)
	if err != nil {
		return nil, err
	}

	if cartID == "" {
		cartID = uuid.NewString()
	}

	l := s.keyLock(cartID)
	l.Lock()
	defer l.Unlock()

	s.mu.Lock()
	cart, ok := s.carts[cartID]
	if !ok {
		cart = &cartdomain.Cart{ID: cartID, CreatedAt: s.now()}
		s.carts[cartID] = cart
	}
	s.mu.Unlock()

	idx := cart.Find(variantID)
	switch {
	case delta == 0:
		if idx >= 0 {
			cart.LineItems = append(cart.LineItems[:idx], cart.LineItems[idx+1:]...)
		}
	case idx >= 0:
		q := cart.LineItems[idx].Quantity + delta
		if q <= 0 {
			cart.LineItems = append(cart.LineItems[:idx], cart.LineItems[idx+1:]...)
		} else {
			cart.LineItems[idx].Quantity = q
		}
	case delta > 0:
		cart.LineItems = append(cart.LineItems, cartdomain.LineItem{
			Quantity: delta,
			Variant:  variant,
			Product:  product,
		})
	}
	cart.UpdatedAt = s.now()

	return snapshot(cart), nil
}

func (s *Store) keyLock(cartID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[cartID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[cartID] = l
	}
	return l
}

func snapshot(cart *cartdomain.Cart) *cartdomain.Cart {
	cp := *cart
	cp.LineItems = make([]cartdomain.LineItem, len(cart.LineItems))
	copy(cp.LineItems, cart.LineItems)
	return &cp
}
