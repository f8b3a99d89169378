package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rayltitan1993/yournextstore-1/internal/identity/application"
	"github.com/rayltitan1993/yournextstore-1/internal/identity/domain"
)

const uniqueViolation = "23505"

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) Create(ctx context.Context, u domain.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, provider, provider_id, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Provider, u.ProviderID, u.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return application.ErrEmailTaken
	}
	return err
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	var (
		u                          domain.User
		hash, provider, providerID *string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, provider, provider_id, created_at
		FROM users WHERE email=$1`,
		email).
		Scan(&u.ID, &u.Name, &u.Email, &hash, &provider, &providerID, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, application.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	if hash != nil {
		u.PasswordHash = *hash
	}
	if provider != nil {
		u.Provider = *provider
	}
	if providerID != nil {
		u.ProviderID = *providerID
	}
	return u, nil
}
