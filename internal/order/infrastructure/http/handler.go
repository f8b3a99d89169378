package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	identityhttp "github.com/rayltitan1993/yournextstore-1/internal/identity/infrastructure/http"
	"github.com/rayltitan1993/yournextstore-1/internal/order/application"
	"github.com/rayltitan1993/yournextstore-1/internal/payment"
	"github.com/rayltitan1993/yournextstore-1/pkg/httpx"
	"github.com/rayltitan1993/yournextstore-1/pkg/idempotency"
)

const maxWebhookBody = 1 << 20

type Handler struct {
	log           *slog.Logger
	svc           *application.Service
	idem          *idempotency.Store
	webhookSecret string
	tracer        trace.Tracer
}

func NewHandler(log *slog.Logger, svc *application.Service, idem *idempotency.Store, webhookSecret string) *Handler {
	return &Handler{
		log:           log,
		svc:           svc,
		idem:          idem,
		webhookSecret: webhookSecret,
		tracer:        otel.Tracer("order-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/webhooks/payment", h.paymentWebhook)
	r.With(identityhttp.RequireUser).Get("/orders", h.listOrders)
	return r
}

// paymentWebhook handles the processor's asynchronous, at-least-once
// completion callback. Unverifiable payloads are rejected outright.
func (h *Handler) paymentWebhook(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PaymentWebhook")
	defer span.End()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		httpx.RespondError(w, http.StatusBadRequest, "invalid_request", "failed to read body")
		return
	}

	event, err := payment.ConstructEvent(body, r.Header.Get(payment.SignatureHeader), h.webhookSecret)
	if err != nil {
		h.log.Warn("webhook rejected", "err", err)
		httpx.RespondError(w, http.StatusBadRequest, "invalid_signature", "signature verification failed")
		return
	}

	idemKey := ""
	if event.ID != "" {
		idemKey = h.idem.Key("payment", event.ID)
		seen, err := h.idem.Seen(ctx, idemKey)
		if err != nil {
			// Dedupe is best-effort; the session_id constraint is the backstop.
			h.log.Error("idempotency check failed", "event_id", event.ID, "err", err)
			idemKey = ""
		} else if seen {
			h.log.Info("duplicate webhook delivery skipped", "event_id", event.ID)
			httpx.RespondJSON(w, http.StatusOK, map[string]bool{"received": true})
			return
		}
	}

	if err := h.svc.RecordPayment(ctx, event); err != nil {
		if idemKey != "" {
			// Let the processor's retry through next time.
			_ = h.idem.Forget(ctx, idemKey)
		}
		if errors.Is(err, application.ErrMissingReference) {
			httpx.RespondError(w, http.StatusBadRequest, "missing_reference", "notification carries no cart reference")
			return
		}
		// Persistence failures return 5xx so the processor redelivers.
		h.log.Error("record payment failed", "event_id", event.ID, "err", err)
		httpx.RespondError(w, http.StatusInternalServerError, "internal_error", "failed to record payment")
		return
	}

	httpx.RespondJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListOrders")
	defer span.End()

	orders, err := h.svc.ListByUser(ctx, identityhttp.UserID(ctx))
	if err != nil {
		h.log.Error("list orders failed", "err", err)
		httpx.RespondError(w, http.StatusInternalServerError, "internal_error", "failed to load orders")
		return
	}
	httpx.RespondJSON(w, http.StatusOK, map[string]any{"data": orders})
}
