package repository

import (
	"context"

	"go-resupply-order/internal/model"
	"go-resupply-order/pkg/docstore"
)

// ProductRepository reads the catalog. It never writes products.
type ProductRepository interface {
	FindAll(ctx context.Context) ([]model.Product, error)
}

type productRepo struct {
	store docstore.Store
}

func NewProductRepo(store docstore.Store) ProductRepository {
	return &productRepo{store}
}

// FindAll returns every product in store-return order.
func (r *productRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	docs, err := r.store.List(ctx, docstore.CollectionProducts)
	if err != nil {
		return nil, err
	}
	products := make([]model.Product, len(docs))
	for i, doc := range docs {
		products[i] = model.ProductFromDocument(doc)
	}
	return products, nil
}
