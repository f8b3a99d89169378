package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rayltitan1993/yournextstore-1/internal/catalog/application"
	catalogdomain "github.com/rayltitan1993/yournextstore-1/internal/catalog/domain"
)

type stubCatalog struct {
	products map[string]catalogdomain.Product // variantID -> owning product
}

func (s *stubCatalog) ResolveVariant(_ context.Context, variantID string) (catalogdomain.Product, catalogdomain.Variant, error) {
	p, ok := s.products[variantID]
	if !ok {
		return catalogdomain.Product{}, catalogdomain.Variant{}, application.ErrVariantNotFound
	}
	v, _ := p.Variant(variantID)
	return p, v, nil
}

func newTestStore() *Store {
	vase := catalogdomain.Product{
		ID:   "p1",
		Slug: "ceramic-vase",
		Name: "Minimalist Ceramic Vase",
		Variants: []catalogdomain.Variant{
			{ID: "v1", PriceCents: 4500},
		},
	}
	earbuds := catalogdomain.Product{
		ID:   "p3",
		Slug: "wireless-earbuds",
		Name: "Pro Wireless Earbuds",
		Variants: []catalogdomain.Variant{
			{ID: "v3", PriceCents: 12900},
		},
	}
	return New(&stubCatalog{products: map[string]catalogdomain.Product{
		"v1": vase,
		"v3": earbuds,
	}})
}

func TestGet_UnknownCartIsAMiss(t *testing.T) {
	s := newTestStore()

	cart, ok := s.Get(context.Background(), "nope")
	assert.False(t, ok)
	assert.Nil(t, cart)
}

func TestUpsert_MintsCartAndAddsItem(t *testing.T) {
	s := newTestStore()

	cart, err := s.Upsert(context.Background(), "", "v1", 2)
	require.NoError(t, err)
	require.NotEmpty(t, cart.ID)
	require.Len(t, cart.LineItems, 1)
	assert.Equal(t, 2, cart.LineItems[0].Quantity)
	assert.Equal(t, "v1", cart.LineItems[0].Variant.ID)
	assert.Equal(t, int64(4500), cart.LineItems[0].Variant.PriceCents)
	assert.Equal(t, "Minimalist Ceramic Vase", cart.LineItems[0].Product.Name)

	got, ok := s.Get(context.Background(), cart.ID)
	require.True(t, ok)
	assert.Equal(t, cart.LineItems, got.LineItems)
}

func TestUpsert_UnknownVariant(t *testing.T) {
	s := newTestStore()

	_, err := s.Upsert(context.Background(), "", "v999", 1)
	assert.ErrorIs(t, err, application.ErrVariantNotFound)
}

func TestUpsert_QuantityIsAdditive(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	cart, err := s.Upsert(ctx, "", "v1", 2)
	require.NoError(t, err)

	cart, err = s.Upsert(ctx, cart.ID, "v1", 3)
	require.NoError(t, err)
	require.Len(t, cart.LineItems, 1)
	assert.Equal(t, 5, cart.LineItems[0].Quantity)
}

func TestUpsert_NegativeResultRemovesItem(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	cart, err := s.Upsert(ctx, "", "v1", 2)
	require.NoError(t, err)

	cart, err = s.Upsert(ctx, cart.ID, "v1", -5)
	require.NoError(t, err)
	assert.Empty(t, cart.LineItems, "net quantity <= 0 must remove the line item")
}

func TestUpsert_ZeroRemovesExistingItem(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	cart, err := s.Upsert(ctx, "", "v1", 2)
	require.NoError(t, err)
	_, err = s.Upsert(ctx, cart.ID, "v3", 1)
	require.NoError(t, err)

	got, err := s.Upsert(ctx, cart.ID, "v1", 0)
	require.NoError(t, err)
	require.Len(t, got.LineItems, 1)
	assert.Equal(t, "v3", got.LineItems[0].Variant.ID)
}

func TestUpsert_ZeroForAbsentVariantIsNoOp(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	cart, err := s.Upsert(ctx, "", "v1", 2)
	require.NoError(t, err)

	got, err := s.Upsert(ctx, cart.ID, "v3", 0)
	require.NoError(t, err)
	require.Len(t, got.LineItems, 1)
	assert.Equal(t, "v1", got.LineItems[0].Variant.ID)
	assert.Equal(t, 2, got.LineItems[0].Quantity)
}

func TestUpsert_NegativeDeltaForAbsentVariantDoesNotInsert(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	cart, err := s.Upsert(ctx, "", "v1", -3)
	require.NoError(t, err)
	assert.Empty(t, cart.LineItems)
}

func TestUpsert_ConcurrentIncrementsAreNotLost(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	cart, err := s.Upsert(ctx, "", "v1", 1)
	require.NoError(t, err)

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := s.Upsert(ctx, cart.ID, "v1", 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, ok := s.Get(ctx, cart.ID)
	require.True(t, ok)
	require.Len(t, got.LineItems, 1)
	assert.Equal(t, workers+1, got.LineItems[0].Quantity)
}

func TestGet_ReturnsACopy(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	cart, err := s.Upsert(ctx, "", "v1", 2)
	require.NoError(t, err)

	got, ok := s.Get(ctx, cart.ID)
	require.True(t, ok)
	got.LineItems[0].Quantity = 99

	again, ok := s.Get(ctx, cart.ID)
	require.True(t, ok)
	assert.Equal(t, 2, again.LineItems[0].Quantity, "mutating a returned cart must not touch the store")
}
