package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/rayltitan1993/yournextstore-1/internal/identity/application"
	"github.com/rayltitan1993/yournextstore-1/pkg/httpx"
)

const SessionCookie = "session"

type Handler struct {
	log    *slog.Logger
	svc    *application.Service
	tracer trace.Tracer
}

func NewHandler(log *slog.Logger, svc *application.Service) *Handler {
	return &Handler{
		log:    log,
		svc:    svc,
		tracer: otel.Tracer("identity-http"),
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	return r
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Register")
	defer span.End()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.RespondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	u, err := h.svc.Register(ctx, req.Name, req.Email, req.Password)
	switch {
	case errors.Is(err, application.ErrInvalidInput):
		httpx.RespondError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	case errors.Is(err, application.ErrEmailTaken):
		httpx.RespondError(w, http.StatusConflict, "email_taken", "email already in use")
		return
	case err != nil:
		h.log.Error("register failed", "err", err)
		httpx.RespondError(w, http.StatusInternalServerError, "internal_error", "failed to register")
		return
	}
	httpx.RespondJSON(w, http.StatusCreated, userResponse{ID: u.ID, Name: u.Name, Email: u.Email})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Login")
	defer span.End()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.RespondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	token, u, err := h.svc.Login(ctx, req.Email, req.Password)
	if errors.Is(err, application.ErrInvalidCredentials) {
		httpx.RespondError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
		return
	}
	if err != nil {
		h.log.Error("login failed", "err", err)
		httpx.RespondError(w, http.StatusInternalServerError, "internal_error", "failed to log in")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	httpx.RespondJSON(w, http.StatusOK, userResponse{ID: u.ID, Name: u.Name, Email: u.Email})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Logout")
	defer span.End()

	if c, err := r.Cookie(SessionCookie); err == nil {
		if err := h.svc.Logout(ctx, c.Value); err != nil {
			h.log.Error("logout failed", "err", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	httpx.RespondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
