package repository

import (
	"context"
	"testing"
	"time"

	"go-resupply-order/internal/model"
	"go-resupply-order/pkg/docstore"

	"github.com/shopspring/decimal"
)

func TestProductRepoProjectsFields(t *testing.T) {
	store := docstore.NewMemoryStore()
	ctx := context.Background()
	store.Append(ctx, docstore.CollectionProducts, map[string]any{
		"name": "Whole Milk", "unit": "l", "price": 1.19, "parLevel": 12, "code": "MLK1", "supplier": "ignored",
	})
	store.Append(ctx, docstore.CollectionProducts, map[string]any{
		"name": "Bread", "unit": "each", "price": "0.85",
	})

	products, err := NewProductRepo(store).FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	milk := products[0]
	if milk.Name != "Whole Milk" || milk.Code != "MLK1" || !milk.Price.Equal(decimal.RequireFromString("1.19")) || !milk.ParLevel.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("unexpected projection: %+v", milk)
	}
	bread := products[1]
	if !bread.ParLevel.IsZero() || !bread.Price.Equal(decimal.RequireFromString("0.85")) || bread.Code != "" {
		t.Fatalf("unexpected projection: %+v", bread)
	}
}

func TestOrderRepoAppendsOneDocument(t *testing.T) {
	store := docstore.NewMemoryStore()
	stock := decimal.NewFromInt(2)
	order := &model.Order{
		Section: "Kitchen",
		Items: []model.LineItem{
			{ProductID: "p1", Name: "Flour", Unit: "kg", Price: decimal.RequireFromString("2.50"), Quantity: decimal.NewFromInt(3), Stock: &stock},
			{ProductID: "p2", Name: "Salt", Unit: "kg", Price: decimal.NewFromInt(1), Quantity: decimal.NewFromInt(1)},
		},
		Total:     decimal.RequireFromString("8.50"),
		OrderDate: "2024-06-03",
	}

	if err := NewOrderRepo(store).Create(context.Background(), order); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if order.ID == "" {
		t.Fatalf("order id not set")
	}
	if n := store.Count(docstore.CollectionOrders); n != 1 {
		t.Fatalf("expected 1 order document, got %d", n)
	}

	docs, _ := store.List(context.Background(), docstore.CollectionOrders)
	f := docs[0].Fields
	if f["section"] != "Kitchen" || f["total"] != 8.5 || f["orderDate"] != "2024-06-03" {
		t.Fatalf("unexpected order fields: %#v", f)
	}
	if _, ok := f["createdAt"].(time.Time); !ok {
		t.Fatalf("createdAt not server-assigned: %#v", f["createdAt"])
	}
	items := f["items"].([]map[string]any)
	if items[0]["qty"] != 3.0 || items[0]["stock"] != 2.0 || items[1]["stock"] != nil {
		t.Fatalf("unexpected items: %#v", items)
	}
}
