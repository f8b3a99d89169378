package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdomain "github.com/rayltitan1993/yournextstore-1/internal/cart/domain"
	"github.com/rayltitan1993/yournextstore-1/internal/cart/store"
	"github.com/rayltitan1993/yournextstore-1/internal/catalog/application"
	catalogdomain "github.com/rayltitan1993/yournextstore-1/internal/catalog/domain"
)

type stubCatalog struct{}

func (stubCatalog) ResolveVariant(_ context.Context, variantID string) (catalogdomain.Product, catalogdomain.Variant, error) {
	if variantID != "v1" {
		return catalogdomain.Product{}, catalogdomain.Variant{}, application.ErrVariantNotFound
	}
	return catalogdomain.Product{ID: "p1", Name: "Minimalist Ceramic Vase"},
		catalogdomain.Variant{ID: "v1", PriceCents: 4500}, nil
}

func newTestHandler() *Handler {
	return NewHandler(slog.Default(), store.New(stubCatalog{}))
}

func TestGetCart_NoCookieReturnsEmptyCart(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var cart cartdomain.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	assert.Empty(t, cart.LineItems)
}

func TestUpsert_SetsCartCookie(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"variant_id":"v1","quantity":2}`))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "upsert must set the cart cookie")
	assert.NotEmpty(t, cookie.Value)

	var cart cartdomain.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	assert.Equal(t, cookie.Value, cart.ID)
	require.Len(t, cart.LineItems, 1)
	assert.Equal(t, 2, cart.LineItems[0].Quantity)
}

func TestUpsert_ReusesCartFromCookie(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"variant_id":"v1","quantity":2}`))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var first cartdomain.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"variant_id":"v1","quantity":3}`))
	req.AddCookie(&http.Cookie{Name: CookieName, Value: first.ID})
	rec = httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var second cartdomain.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Equal(t, first.ID, second.ID)
	require.Len(t, second.LineItems, 1)
	assert.Equal(t, 5, second.LineItems[0].Quantity)
}

func TestUpsert_UnknownVariantIs404(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"variant_id":"v999","quantity":1}`))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpsert_InvalidBody(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`not json`))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
