package integration

import (
	"context"
	"path/filepath"
	"runtime"
	"time"

	"github.com/testcontainers/testcontainers-go/modules/postgres"

	pg "github.com/rayltitan1993/yournextstore-1/pkg/postgres"
)

type Env struct {
	PG     *postgres.PostgresContainer
	PGURL  string
	Cancel context.CancelFunc
}

func Setup(ctx context.Context) (*Env, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)

	pgC, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("storefront"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
	)
	if err != nil {
		cancel()
		return nil, err
	}

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		cancel()
		return nil, err
	}

	if err := pg.Migrate(pgURL, migrationsDir()); err != nil {
		cancel()
		return nil, err
	}

	return &Env{
		PG:     pgC,
		PGURL:  pgURL,
		Cancel: cancel,
	}, nil
}

func (e *Env) Teardown(ctx context.Context) {
	e.Cancel()
	_ = e.PG.Terminate(ctx)
}

// migrationsDir resolves the migrations directory relative to this file so
// tests in any package can share the harness.
func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}
