package handler

import (
	"fmt"

	"go-resupply-order/internal/orderform"
)

type RowView struct {
	ProductID           string  `json:"product_id"`
	Name                string  `json:"name"`
	Unit                string  `json:"unit"`
	Code                string  `json:"code,omitempty"`
	Price               string  `json:"price"`
	PriceLabel          string  `json:"price_label"`
	QuantityPlaceholder string  `json:"quantity_placeholder"`
	Quantity            string  `json:"quantity"`
	Stock               string  `json:"stock"`
	ParsedStock         *string `json:"parsed_stock"`
	LineTotal           string  `json:"line_total"`
	LineTotalLabel      string  `json:"line_total_label"`
}

type TotalsView struct {
	Total         string `json:"total"`
	TotalLabel    string `json:"total_label"`
	Remaining     string `json:"remaining"`
	BankLabel     string `json:"bank_label"`
	SubmitEnabled bool   `json:"submit_enabled"`
}

type FormView struct {
	Query  string     `json:"query"`
	Rows   []RowView  `json:"rows"`
	Totals TotalsView `json:"totals"`
}

// presenter formats form state with the configured currency symbol.
type presenter struct {
	symbol string
}

func (p presenter) row(r orderform.Row) RowView {
	v := RowView{
		ProductID:           r.Product.ID,
		Name:                r.Product.Name,
		Unit:                r.Product.Unit,
		Code:                r.Product.Code,
		Price:               r.Product.Price.StringFixed(2),
		PriceLabel:          fmt.Sprintf("%s / %s", orderform.Money(p.symbol, r.Product.Price), r.Product.Unit),
		QuantityPlaceholder: r.QuantityPlaceholder(),
		Quantity:            r.QuantityInput,
		Stock:               r.StockInput,
		LineTotal:           r.LineTotal.StringFixed(2),
		LineTotalLabel:      orderform.Money(p.symbol, r.LineTotal),
	}
	if r.Stock != nil {
		s := r.Stock.String()
		v.ParsedStock = &s
	}
	return v
}

func (p presenter) totals(t orderform.Totals) TotalsView {
	return TotalsView{
		Total:         t.CartTotal.StringFixed(2),
		TotalLabel:    "Total: " + orderform.Money(p.symbol, t.CartTotal),
		Remaining:     t.Remaining.StringFixed(2),
		BankLabel:     "Bank: " + orderform.Money(p.symbol, t.Remaining),
		SubmitEnabled: t.SubmitEnabled,
	}
}

func (p presenter) form(s orderform.Snapshot) FormView {
	rows := make([]RowView, len(s.Rows))
	for i, r := range s.Rows {
		rows[i] = p.row(r)
	}
	return FormView{Query: s.Query, Rows: rows, Totals: p.totals(s.Totals)}
}
