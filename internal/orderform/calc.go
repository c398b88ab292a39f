// Package orderform holds the state of one re-supply order form: the rows
// rendered for the visible products, their line totals, the budget
// calculation, filtering and construction of the order to submit.
package orderform

import (
	"errors"
	"strings"

	"go-resupply-order/internal/model"

	"github.com/shopspring/decimal"
)

var (
	ErrNegativeQuantity = errors.New("quantity cannot be negative")
	ErrNegativeStock    = errors.New("stock cannot be negative")
	ErrQuantityTooLarge = errors.New("quantity is out of range")
	ErrStockTooLarge    = errors.New("stock is out of range")
	ErrUnknownProduct   = errors.New("product is not on the form")
	ErrSectionRequired  = errors.New("section is required")
	ErrNoQuantities     = errors.New("no quantities entered")
	ErrOverBudget       = errors.New("order total exceeds the available budget")
	ErrSubmitInFlight   = errors.New("an order submission is already in progress")
	ErrInvalidOrder     = errors.New("invalid order")
)

// Inputs are bounded before any arithmetic. A decimal such as "1e100000000"
// parses cheaply but rescaling it during Mul or Round does not.
const (
	maxInputExponent = 9
	maxInputDigits   = 18
)

var maxInputValue = decimal.New(1, 6)

func inRange(v decimal.Decimal) bool {
	exp := v.Exponent()
	if exp > maxInputExponent || exp < -maxInputExponent || v.NumDigits() > maxInputDigits {
		return false
	}
	return !v.GreaterThan(maxInputValue)
}

// ParseQuantity reads a quantity input. Blank or non-numeric input is 0.
func ParseQuantity(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	q, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, nil
	}
	if q.IsNegative() {
		return decimal.Zero, ErrNegativeQuantity
	}
	if !inRange(q) {
		return decimal.Zero, ErrQuantityTooLarge
	}
	return q, nil
}

// ParseStock reads a stock input. Blank or non-numeric input is nil.
func ParseStock(raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	s, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, nil
	}
	if s.IsNegative() {
		return nil, ErrNegativeStock
	}
	if !inRange(s) {
		return nil, ErrStockTooLarge
	}
	return &s, nil
}

// LineTotal is quantity × price rounded to 2 decimal places.
func LineTotal(price, quantity decimal.Decimal) decimal.Decimal {
	return quantity.Mul(price).Round(2)
}

// CartTotal sums the rows' line totals. Line totals are already rounded to
// what is displayed, so this equals the sum of the displayed figures.
func CartTotal(rows []Row) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range rows {
		sum = sum.Add(r.LineTotal)
	}
	return sum
}

// Totals is the cart total against the budget.
type Totals struct {
	CartTotal     decimal.Decimal
	Remaining     decimal.Decimal
	SubmitEnabled bool
}

func ComputeTotals(budget decimal.Decimal, rows []Row) Totals {
	total := CartTotal(rows)
	remaining := budget.Sub(total)
	return Totals{
		CartTotal:     total,
		Remaining:     remaining,
		SubmitEnabled: !remaining.IsNegative(),
	}
}

// FilterProducts keeps the products whose name or code contains query,
// case-insensitively. An empty query keeps everything, in order.
func FilterProducts(catalog []model.Product, query string) []model.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Product, 0, len(catalog))
	for _, p := range catalog {
		if q == "" ||
			strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Code), q) {
			out = append(out, p)
		}
	}
	return out
}

// Money formats an amount as "<symbol><amount to 2dp>".
func Money(symbol string, amount decimal.Decimal) string {
	return symbol + amount.StringFixed(2)
}
