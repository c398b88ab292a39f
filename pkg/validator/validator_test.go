package validator

import (
	"testing"

	"github.com/shopspring/decimal"
)

type sample struct {
	Name  string           `validate:"required"`
	Qty   decimal.Decimal  `validate:"gt=0"`
	Price decimal.Decimal  `validate:"gte=0"`
	Stock *decimal.Decimal `validate:"omitempty,gte=0"`
}

func TestValidateStructDecimals(t *testing.T) {
	neg := decimal.NewFromInt(-1)
	zero := decimal.Zero

	tests := []struct {
		name    string
		in      sample
		wantTag string
	}{
		{"valid", sample{Name: "Flour", Qty: decimal.NewFromInt(3), Price: decimal.RequireFromString("2.50")}, ""},
		{"zero price ok", sample{Name: "Water", Qty: decimal.NewFromInt(1), Price: zero}, ""},
		{"zero stock ok", sample{Name: "Water", Qty: decimal.NewFromInt(1), Stock: &zero}, ""},
		{"zero qty", sample{Name: "Flour", Qty: zero}, "gt"},
		{"negative price", sample{Name: "Flour", Qty: decimal.NewFromInt(1), Price: neg}, "gte"},
		{"negative stock", sample{Name: "Flour", Qty: decimal.NewFromInt(1), Stock: &neg}, "gte"},
		{"missing name", sample{Qty: decimal.NewFromInt(1)}, "required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateStruct(&tt.in)
			if tt.wantTag == "" {
				if len(errs) != 0 {
					t.Fatalf("expected no errors, got %+v", errs[0])
				}
				return
			}
			if len(errs) == 0 {
				t.Fatalf("expected %s error, got none", tt.wantTag)
			}
			if errs[0].Tag != tt.wantTag {
				t.Fatalf("expected tag %s, got %s (%s)", tt.wantTag, errs[0].Tag, errs[0].FailedField)
			}
		})
	}
}
