package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rayltitan1993/yournextstore-1/internal/catalog/application"
	"github.com/rayltitan1993/yournextstore-1/internal/catalog/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) Browse(ctx context.Context, activeOnly bool, limit int) ([]domain.Product, error) {
	q := `SELECT id, slug, name, summary, description, images, active FROM products`
	if activeOnly {
		q += ` WHERE active`
	}
	q += ` ORDER BY name`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range products {
		if err := r.loadVariants(ctx, &products[i]); err != nil {
			return nil, err
		}
	}
	return products, nil
}

func (r *Repository) GetByIDOrSlug(ctx context.Context, idOrSlug string) (domain.Product, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, slug, name, summary, description, images, active FROM products WHERE id=$1 OR slug=$1`,
		idOrSlug)
	return r.one(ctx, row)
}

func (r *Repository) FindByVariant(ctx context.Context, variantID string) (domain.Product, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT p.id, p.slug, p.name, p.summary, p.description, p.images, p.active
		FROM products p
		JOIN variants v ON v.product_id = p.id
		WHERE v.id = $1`,
		variantID)
	return r.one(ctx, row)
}

func (r *Repository) one(ctx context.Context, row pgx.Row) (domain.Product, error) {
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, application.ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}
	if err := r.loadVariants(ctx, &p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (r *Repository) loadVariants(ctx context.Context, p *domain.Product) error {
	rows, err := r.pool.Query(ctx,
		`SELECT id, price_cents, images, combinations FROM variants WHERE product_id=$1 ORDER BY id`,
		p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var v domain.Variant
		if err := rows.Scan(&v.ID, &v.PriceCents, &v.Images, &v.Combinations); err != nil {
			return err
		}
		p.Variants = append(p.Variants, v)
	}
	return rows.Err()
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	if err := row.Scan(&p.ID, &p.Slug, &p.Name, &p.Summary, &p.Description, &p.Images, &p.Active); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}
