package postgres

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rayltitan1993/yournextstore-1/internal/order/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

// CreateWithOutbox inserts the order, its items, and the outbox row in one
// transaction. The unique constraint on session_id makes redelivered
// completion notifications a no-op: ON CONFLICT DO NOTHING inserts zero
// rows and the whole write is skipped.
func (r *Repository) CreateWithOutbox(ctx context.Context, o domain.Order, eventType string, payload []byte, traceparent string) (bool, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	ct, err := tx.Exec(ctx, `
		INSERT INTO orders (id, user_id, session_id, amount_total_cents, currency, status,
			shipping_name, shipping_line1, shipping_line2, shipping_city,
			shipping_state, shipping_postal_code, shipping_country, created_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6,
			NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''),
			NULLIF($11, ''), NULLIF($12, ''), NULLIF($13, ''), now())
		ON CONFLICT (session_id) DO NOTHING`,
		o.ID, o.UserID, o.SessionID, o.AmountTotalCents, o.Currency, o.Status,
		o.Shipping.Name, o.Shipping.Line1, o.Shipping.Line2, o.Shipping.City,
		o.Shipping.State, o.Shipping.PostalCode, o.Shipping.Country)
	if err != nil {
		return false, err
	}
	if ct.RowsAffected() == 0 {
		// Already recorded for this payment session.
		return false, tx.Commit(ctx)
	}

	batch := &pgx.Batch{}
	for _, item := range o.Items {
		batch.Queue(`
			INSERT INTO order_items (order_id, product_id, name, price_cents, quantity, image)
			VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))`,
			o.ID, item.ProductID, item.Name, item.PriceCents, item.Quantity, item.Image)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return false, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, traceparent, status)
		VALUES ('order', $1, $2, $3, $4, 'pending')`,
		o.ID, eventType, payload, traceparent)
	if err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, COALESCE(user_id::text, ''), session_id, amount_total_cents, currency, status,
			COALESCE(shipping_name, ''), COALESCE(shipping_line1, ''), COALESCE(shipping_line2, ''),
			COALESCE(shipping_city, ''), COALESCE(shipping_state, ''),
			COALESCE(shipping_postal_code, ''), COALESCE(shipping_country, ''), created_at
		FROM orders WHERE user_id=$1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.SessionID, &o.AmountTotalCents, &o.Currency, &o.Status,
			&o.Shipping.Name, &o.Shipping.Line1, &o.Shipping.Line2, &o.Shipping.City,
			&o.Shipping.State, &o.Shipping.PostalCode, &o.Shipping.Country, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *Repository) loadItems(ctx context.Context, o *domain.Order) error {
	rows, err := r.pool.Query(ctx, `
		SELECT product_id, name, price_cents, quantity, COALESCE(image, '')
		FROM order_items WHERE order_id=$1 ORDER BY id`,
		o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.PriceCents, &item.Quantity, &item.Image); err != nil {
			return err
		}
		o.Items = append(o.Items, item)
	}
	return rows.Err()
}
