package model

import (
	"math"
	"testing"

	"go-resupply-order/pkg/docstore"
)

func TestProductFromDocumentNumbers(t *testing.T) {
	tests := []struct {
		name  string
		price any
		want  string
	}{
		{"float", 2.5, "2.5"},
		{"int", 3, "3"},
		{"string", " 1.20 ", "1.2"},
		{"missing", nil, "0"},
		{"garbage", "n/a", "0"},
		{"nan", math.NaN(), "0"},
		{"positive infinity", math.Inf(1), "0"},
		{"negative infinity", math.Inf(-1), "0"},
		{"float32 nan", float32(math.NaN()), "0"},
		{"huge exponent", "1e100000000", "0"},
		{"tiny exponent", "1e-100000000", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := docstore.Document{ID: "p1", Fields: map[string]any{"name": "Flour", "price": tt.price}}
			got := ProductFromDocument(doc)
			if got.Price.String() != tt.want {
				t.Fatalf("price = %s, want %s", got.Price, tt.want)
			}
		})
	}
}
