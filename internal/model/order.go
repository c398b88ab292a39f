package model

import (
	"fmt"

	"go-resupply-order/pkg/docstore"

	"github.com/shopspring/decimal"
)

// LineItem is one ordered product. Quantity is always > 0 in a submitted order.
type LineItem struct {
	ProductID string           `json:"productId" validate:"required"`
	Name      string           `json:"name"`
	Unit      string           `json:"unit"`
	Price     decimal.Decimal  `json:"price" validate:"gte=0"`
	Quantity  decimal.Decimal  `json:"qty" validate:"gt=0"`
	Stock     *decimal.Decimal `json:"stock" validate:"omitempty,gte=0"`
}

// Amount is quantity × price, unrounded.
func (li LineItem) Amount() decimal.Decimal {
	return li.Quantity.Mul(li.Price)
}

// ConfirmationLine renders "<qty> <unit> × <name>".
func (li LineItem) ConfirmationLine() string {
	return fmt.Sprintf("%s %s × %s", li.Quantity.String(), li.Unit, li.Name)
}

// Order is appended once to the orders collection and never changed.
// CreatedAt is assigned by the store at write time.
type Order struct {
	ID        string          `json:"id,omitempty"`
	Section   string          `json:"section" validate:"required"`
	Items     []LineItem      `json:"items" validate:"required,min=1,dive"`
	Total     decimal.Decimal `json:"total" validate:"gte=0"`
	OrderDate string          `json:"orderDate" validate:"required,datetime=2006-01-02"`
}

// Document builds the field map written to the order sink.
func (o *Order) Document() map[string]any {
	items := make([]map[string]any, len(o.Items))
	for i, li := range o.Items {
		var stock any
		if li.Stock != nil {
			stock = li.Stock.InexactFloat64()
		}
		items[i] = map[string]any{
			"productId": li.ProductID,
			"name":      li.Name,
			"unit":      li.Unit,
			"price":     li.Price.InexactFloat64(),
			"qty":       li.Quantity.InexactFloat64(),
			"stock":     stock,
		}
	}

	return map[string]any{
		"section":   o.Section,
		"items":     items,
		"total":     o.Total.InexactFloat64(),
		"createdAt": docstore.ServerTimestamp,
		"orderDate": o.OrderDate,
	}
}

// Confirmation is what the user sees after a successful submission.
type Confirmation struct {
	OrderID string   `json:"order_id"`
	Section string   `json:"section"`
	Heading string   `json:"heading"`
	Lines   []string `json:"lines"`
	Total   string   `json:"total"`
}

func (o *Order) Confirmation() Confirmation {
	lines := make([]string, len(o.Items))
	for i, li := range o.Items {
		lines[i] = li.ConfirmationLine()
	}
	return Confirmation{
		OrderID: o.ID,
		Section: o.Section,
		Heading: fmt.Sprintf("Order Submitted (%s)", o.Section),
		Lines:   lines,
		Total:   o.Total.StringFixed(2),
	}
}

// OrderSubmittedEvent is fanned out to WebSocket clients and the broker.
type OrderSubmittedEvent struct {
	OrderID   string                   `json:"order_id"`
	Section   string                   `json:"section"`
	Total     string                   `json:"total"`
	OrderDate string                   `json:"order_date"`
	Items     []OrderSubmittedItemEvent `json:"items"`
}

type OrderSubmittedItemEvent struct {
	ProductID string `json:"product_id"`
	Quantity  string `json:"qty"`
}

func (o *Order) SubmittedEvent() OrderSubmittedEvent {
	ev := OrderSubmittedEvent{
		OrderID:   o.ID,
		Section:   o.Section,
		Total:     o.Total.StringFixed(2),
		OrderDate: o.OrderDate,
		Items:     make([]OrderSubmittedItemEvent, len(o.Items)),
	}
	for i, li := range o.Items {
		ev.Items[i] = OrderSubmittedItemEvent{ProductID: li.ProductID, Quantity: li.Quantity.String()}
	}
	return ev
}
