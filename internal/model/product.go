package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"go-resupply-order/pkg/docstore"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry as projected from the products collection.
// It is owned by the catalog store and never written back.
type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Unit     string          `json:"unit"`
	Price    decimal.Decimal `json:"price"`
	ParLevel decimal.Decimal `json:"par_level"`
	Code     string          `json:"code,omitempty"`
}

// ProductFromDocument projects the fields name, price, unit, parLevel and
// code. Missing or unparsable numbers read as zero.
func ProductFromDocument(doc docstore.Document) Product {
	return Product{
		ID:       doc.ID,
		Name:     stringField(doc.Fields, "name"),
		Unit:     stringField(doc.Fields, "unit"),
		Price:    decimalField(doc.Fields, "price"),
		ParLevel: decimalField(doc.Fields, "parLevel"),
		Code:     stringField(doc.Fields, "code"),
	}
}

// Document is the inverse of ProductFromDocument, used when seeding.
func (p Product) Document() map[string]any {
	fields := map[string]any{
		"name":     p.Name,
		"unit":     p.Unit,
		"price":    p.Price.InexactFloat64(),
		"parLevel": p.ParLevel.InexactFloat64(),
	}
	if p.Code != "" {
		fields["code"] = p.Code
	}
	return fields
}

func stringField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// maxFieldExponent keeps stored numbers in a range where later arithmetic
// stays cheap. Anything outside it reads as zero.
const maxFieldExponent = 18

func decimalField(fields map[string]any, key string) decimal.Decimal {
	d := parseDecimal(fields[key])
	if exp := d.Exponent(); exp > maxFieldExponent || exp < -maxFieldExponent {
		return decimal.Zero
	}
	return d
}

func parseDecimal(raw any) decimal.Decimal {
	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(v)
	case float32:
		if f := float64(v); math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat32(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero
		}
		return d
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero
		}
		return d
	case decimal.Decimal:
		return v
	default:
		return decimal.Zero
	}
}
