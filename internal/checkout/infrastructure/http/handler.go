package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	carthttp "github.com/rayltitan1993/yournextstore-1/internal/cart/infrastructure/http"
	"github.com/rayltitan1993/yournextstore-1/internal/checkout/application"
	identityhttp "github.com/rayltitan1993/yournextstore-1/internal/identity/infrastructure/http"
	"github.com/rayltitan1993/yournextstore-1/pkg/httpx"
)

type Handler struct {
	log    *slog.Logger
	svc    *application.Service
	tracer trace.Tracer
}

func NewHandler(log *slog.Logger, svc *application.Service) *Handler {
	return &Handler{
		log:    log,
		svc:    svc,
		tracer: otel.Tracer("checkout-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.initiate)
	return r
}

func (h *Handler) initiate(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "InitiateCheckout")
	defer span.End()

	cartID := ""
	if c, err := r.Cookie(carthttp.CookieName); err == nil {
		cartID = c.Value
	}
	userID := identityhttp.UserID(ctx)

	url, err := h.svc.Initiate(ctx, cartID, userID)
	if errors.Is(err, application.ErrEmptyCart) {
		httpx.RespondError(w, http.StatusBadRequest, "empty_cart", "cart is empty")
		return
	}
	if err != nil {
		h.log.Error("checkout failed", "cart_id", cartID, "err", err)
		httpx.RespondError(w, http.StatusInternalServerError, "internal_error", "failed to start checkout")
		return
	}
	httpx.RespondJSON(w, http.StatusOK, map[string]string{"url": url})
}
