package application

import (
	"context"

	"github.com/rayltitan1993/yournextstore-1/internal/catalog/domain"
)

type ProductRepository interface {
	Browse(ctx context.Context, activeOnly bool, limit int) ([]domain.Product, error)
	GetByIDOrSlug(ctx context.Context, idOrSlug string) (domain.Product, error)
	FindByVariant(ctx context.Context, variantID string) (domain.Product, error)
}
