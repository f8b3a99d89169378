package postgres_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rayltitan1993/yournextstore-1/internal/checkout/domain"
	checkoutpg "github.com/rayltitan1993/yournextstore-1/internal/checkout/infrastructure/postgres"
	"github.com/rayltitan1993/yournextstore-1/pkg/postgres"
	"github.com/rayltitan1993/yournextstore-1/test/integration"
)

func TestRepository_SaveAndFind(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()
	env, err := integration.Setup(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { env.Teardown(ctx) })

	pool, err := postgres.Connect(ctx, env.PGURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo := checkoutpg.NewRepository(slog.Default(), pool)

	session := domain.Session{
		SessionID: "cs_test_snapshot_1",
		CartID:    "cart-abc",
		UserID:    uuid.NewString(),
		Currency:  "usd",
		Lines: []domain.Line{
			{ProductID: "p1", VariantID: "v1", Name: "Tote Bag", UnitAmountCents: 4500, Quantity: 2},
			{ProductID: "p5", VariantID: "v5", Name: "Mug", UnitAmountCents: 2500, Quantity: 1},
		},
	}
	require.NoError(t, repo.Save(ctx, session))

	// Saving the same session again keeps the original snapshot.
	altered := session
	altered.CartID = "cart-other"
	require.NoError(t, repo.Save(ctx, altered))

	got, err := repo.Find(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "cart-abc", got.CartID)
	assert.Equal(t, session.UserID, got.UserID)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, int64(4500), got.Lines[0].UnitAmountCents)
	assert.Equal(t, 2, got.Lines[0].Quantity)

	// Anonymous checkouts store no user reference.
	anon := domain.Session{SessionID: "cs_test_snapshot_2", CartID: "cart-anon", Currency: "usd",
		Lines: []domain.Line{{ProductID: "p2", VariantID: "v2", Name: "Cap", UnitAmountCents: 3200, Quantity: 1}}}
	require.NoError(t, repo.Save(ctx, anon))
	got, err = repo.Find(ctx, anon.SessionID)
	require.NoError(t, err)
	assert.Empty(t, got.UserID)

	_, err = repo.Find(ctx, "cs_missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
