package application

import (
	"context"
	"time"

	"github.com/rayltitan1993/yournextstore-1/internal/identity/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u domain.User) error
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

type SessionStore interface {
	Put(ctx context.Context, token, userID string, ttl time.Duration) error
	Resolve(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}
