package application

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/rayltitan1993/yournextstore-1/internal/catalog/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrVariantNotFound = errors.New("product variant not found")
)

type Service struct {
	repo ProductRepository
	sfg  singleflight.Group // collapses concurrent identical catalog reads
}

func NewService(repo ProductRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Browse(ctx context.Context, activeOnly bool, limit int) ([]domain.Product, error) {
	v, err, _ := s.sfg.Do(fmt.Sprintf("browse:%t:%d", activeOnly, limit), func() (interface{}, error) {
		return s.repo.Browse(ctx, activeOnly, limit)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

func (s *Service) Get(ctx context.Context, idOrSlug string) (domain.Product, error) {
	v, err, _ := s.sfg.Do("get:"+idOrSlug, func() (interface{}, error) {
		return s.repo.GetByIDOrSlug(ctx, idOrSlug)
	})
	if err != nil {
		return domain.Product{}, err
	}
	return v.(domain.Product), nil
}

// ResolveVariant finds the product owning variantID and the variant itself.
func (s *Service) ResolveVariant(ctx context.Context, variantID string) (domain.Product, domain.Variant, error) {
	product, err := s.repo.FindByVariant(ctx, variantID)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return domain.Product{}, domain.Variant{}, ErrVariantNotFound
		}
		return domain.Product{}, domain.Variant{}, err
	}
	variant, ok := product.Variant(variantID)
	if !ok {
		return domain.Product{}, domain.Variant{}, ErrVariantNotFound
	}
	return product, variant, nil
}
