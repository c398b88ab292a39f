package service

import (
	"context"
	"errors"
	"fmt"

	"go-resupply-order/internal/model"
	"go-resupply-order/internal/repository"
)

var ErrCatalogUnavailable = errors.New("catalog unavailable")

type CatalogService interface {
	Load(ctx context.Context) ([]model.Product, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
	limit       int
}

// NewCatalogService returns a loader that keeps at most limit products.
func NewCatalogService(productRepo repository.ProductRepository, limit int) CatalogService {
	return &catalogService{productRepo: productRepo, limit: limit}
}

// Load fetches the whole products collection and keeps the first products
// up to the cap, in the order the store returned them.
func (s *catalogService) Load(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	if s.limit > 0 && len(products) > s.limit {
		products = products[:s.limit]
	}
	return products, nil
}
