package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rayltitan1993/yournextstore-1/internal/checkout/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) Save(ctx context.Context, s domain.Session) error {
	lines, err := json.Marshal(s.Lines)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO checkout_sessions (session_id, cart_id, user_id, currency, lines)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5)
		ON CONFLICT (session_id) DO NOTHING`,
		s.SessionID, s.CartID, s.UserID, s.Currency, lines)
	return err
}

func (r *Repository) Find(ctx context.Context, sessionID string) (domain.Session, error) {
	var (
		s      domain.Session
		userID *string
		lines  []byte
	)
	err := r.pool.QueryRow(ctx, `
		SELECT session_id, cart_id, user_id, currency, lines, created_at
		FROM checkout_sessions WHERE session_id=$1`,
		sessionID).
		Scan(&s.SessionID, &s.CartID, &userID, &s.Currency, &lines, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.Session{}, err
	}
	if userID != nil {
		s.UserID = *userID
	}
	if err := json.Unmarshal(lines, &s.Lines); err != nil {
		return domain.Session{}, err
	}
	return s, nil
}
