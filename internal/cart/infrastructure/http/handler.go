package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	cartdomain "github.com/rayltitan1993/yournextstore-1/internal/cart/domain"
	"github.com/rayltitan1993/yournextstore-1/internal/cart/store"
	"github.com/rayltitan1993/yournextstore-1/internal/catalog/application"
	"github.com/rayltitan1993/yournextstore-1/pkg/httpx"
)

// CookieName carries the opaque cart ID on the client side.
const CookieName = "cartId"

type Handler struct {
	log    *slog.Logger
	store  *store.Store
	tracer trace.Tracer
}

func NewHandler(log *slog.Logger, store *store.Store) *Handler {
	return &Handler{
		log:    log,
		store:  store,
		tracer: otel.Tracer("cart-http"),
	}
}

type upsertRequest struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.getCart)
	r.Post("/", h.upsert)
	return r
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetCart")
	defer span.End()

	cartID := cookieValue(r)
	if cartID == "" {
		httpx.RespondJSON(w, http.StatusOK, emptyCart())
		return
	}

	cart, ok := h.store.Get(ctx, cartID)
	if !ok {
		httpx.RespondJSON(w, http.StatusOK, emptyCart())
		return
	}
	httpx.RespondJSON(w, http.StatusOK, cart)
}

func (h *Handler) upsert(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpsertCart")
	defer span.End()

	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.RespondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.VariantID == "" {
		httpx.RespondError(w, http.StatusBadRequest, "invalid_variant_id", "variant_id is required")
		return
	}

	cart, err := h.store.Upsert(ctx, cookieValue(r), req.VariantID, req.Quantity)
	if errors.Is(err, application.ErrVariantNotFound) {
		httpx.RespondError(w, http.StatusNotFound, "not_found", "product variant not found")
		return
	}
	if err != nil {
		h.log.Error("cart upsert failed", "variant_id", req.VariantID, "err", err)
		httpx.RespondError(w, http.StatusInternalServerError, "internal_error", "failed to update cart")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    cart.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	httpx.RespondJSON(w, http.StatusOK, cart)
}

func cookieValue(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func emptyCart() *cartdomain.Cart {
	return &cartdomain.Cart{LineItems: []cartdomain.LineItem{}}
}
