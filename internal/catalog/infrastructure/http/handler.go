package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/rayltitan1993/yournextstore-1/internal/catalog/application"
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
		tracer: otel.Tracer("catalog-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.browse)
	r.Get("/{idOrSlug}", h.get)
	return r
}

func (h *Handler) browse(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "BrowseProducts")
	defer span.End()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httpx.RespondError(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	products, err := h.svc.Browse(ctx, true, limit)
	if err != nil {
		h.log.Error("browse products failed", "err", err)
		httpx.RespondError(w, http.StatusInternalServerError, "internal_error", "failed to load products")
		return
	}
	httpx.RespondJSON(w, http.StatusOK, map[string]any{"data": products})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetProduct")
	defer span.End()

	idOrSlug := chi.URLParam(r, "idOrSlug")
	product, err := h.svc.Get(ctx, idOrSlug)
	if errors.Is(err, application.ErrProductNotFound) {
		httpx.RespondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if err != nil {
		h.log.Error("get product failed", "id_or_slug", idOrSlug, "err", err)
		httpx.RespondError(w, http.StatusInternalServerError, "internal_error", "failed to load product")
		return
	}
	httpx.RespondJSON(w, http.StatusOK, product)
}
