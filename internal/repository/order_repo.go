package repository

import (
	"context"

	"go-resupply-order/internal/model"
	"go-resupply-order/pkg/docstore"
)

// OrderRepository appends orders to the sink. Orders are never read back.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
}

type orderRepo struct {
	store docstore.Store
}

func NewOrderRepo(store docstore.Store) OrderRepository {
	return &orderRepo{store}
}

// Create writes exactly one document and sets order.ID on success.
func (r *orderRepo) Create(ctx context.Context, order *model.Order) error {
	id, err := r.store.Append(ctx, docstore.CollectionOrders, order.Document())
	if err != nil {
		return err
	}
	order.ID = id
	return nil
}
