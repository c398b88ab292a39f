package orderform

import (
	"errors"
	"testing"
	"time"

	"go-resupply-order/internal/model"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLineTotalRoundsToTwoPlaces(t *testing.T) {
	tests := []struct {
		price, qty, want string
	}{
		{"2.50", "3", "7.50"},
		{"0.333", "3", "1.00"},
		{"1.005", "1", "1.01"},
		{"19.99", "0", "0.00"},
		{"0", "12", "0.00"},
		{"4.125", "2.5", "10.31"},
	}
	for _, tt := range tests {
		got := LineTotal(d(tt.price), d(tt.qty))
		if !got.Equal(d(tt.want)) {
			t.Fatalf("LineTotal(%s, %s) = %s, want %s", tt.price, tt.qty, got, tt.want)
		}
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr error
	}{
		{"", "0", nil},
		{"   ", "0", nil},
		{"abc", "0", nil},
		{"3", "3", nil},
		{" 2.5 ", "2.5", nil},
		{"-1", "0", ErrNegativeQuantity},
		{"1000000", "1000000", nil},
		{"0.000000001", "0.000000001", nil},
		{"1000000.01", "0", ErrQuantityTooLarge},
		{"1e100000000", "0", ErrQuantityTooLarge},
		{"1e-100000000", "0", ErrQuantityTooLarge},
		{"1234567890123456789", "0", ErrQuantityTooLarge},
	}
	for _, tt := range tests {
		got, err := ParseQuantity(tt.raw)
		if !errors.Is(err, tt.wantErr) {
			t.Fatalf("ParseQuantity(%q) err = %v, want %v", tt.raw, err, tt.wantErr)
		}
		if !got.Equal(d(tt.want)) {
			t.Fatalf("ParseQuantity(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestParseStock(t *testing.T) {
	if s, err := ParseStock(""); err != nil || s != nil {
		t.Fatalf("blank stock: got %v, %v", s, err)
	}
	if s, err := ParseStock("n/a"); err != nil || s != nil {
		t.Fatalf("unparsable stock: got %v, %v", s, err)
	}
	s, err := ParseStock("0")
	if err != nil || s == nil || !s.IsZero() {
		t.Fatalf("zero stock: got %v, %v", s, err)
	}
	if _, err := ParseStock("-4"); !errors.Is(err, ErrNegativeStock) {
		t.Fatalf("expected ErrNegativeStock, got %v", err)
	}
	if _, err := ParseStock("9e999999999"); !errors.Is(err, ErrStockTooLarge) {
		t.Fatalf("expected ErrStockTooLarge, got %v", err)
	}
}

func TestHugeExponentDoesNotHoldForm(t *testing.T) {
	f := New([]model.Product{{ID: "p1", Name: "Flour", Unit: "kg", Price: d("2.50")}}, d("500"))

	done := make(chan error, 1)
	go func() {
		_, _, err := f.SetQuantity("p1", "1e100000000")
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, ErrQuantityTooLarge) {
			t.Fatalf("expected ErrQuantityTooLarge, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("SetQuantity did not return, form is still locked")
	}

	if tot := f.Totals(); !tot.CartTotal.IsZero() {
		t.Fatalf("rejected input changed totals: %+v", tot)
	}
}

func TestComputeTotalsBudget(t *testing.T) {
	rows := []Row{{LineTotal: d("300.00")}, {LineTotal: d("150.25")}}
	got := ComputeTotals(d("500"), rows)
	if !got.CartTotal.Equal(d("450.25")) || !got.Remaining.Equal(d("49.75")) || !got.SubmitEnabled {
		t.Fatalf("unexpected totals: %+v", got)
	}

	exact := ComputeTotals(d("450.25"), rows)
	if !exact.Remaining.IsZero() || !exact.SubmitEnabled {
		t.Fatalf("remaining 0 must keep submit enabled: %+v", exact)
	}

	over := ComputeTotals(d("450.24"), rows)
	if over.SubmitEnabled {
		t.Fatalf("negative remaining must disable submit: %+v", over)
	}
}

func TestFilterProducts(t *testing.T) {
	catalog := []model.Product{
		{ID: "1", Name: "Whole Milk", Code: "MLK1"},
		{ID: "2", Name: "Bread"},
		{ID: "3", Name: "Oat drink", Code: "milk-alt"},
	}

	got := FilterProducts(catalog[:2], "milk")
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("expected only Whole Milk, got %+v", got)
	}

	got = FilterProducts(catalog, "  MILK ")
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Fatalf("expected name and code matches in order, got %+v", got)
	}

	got = FilterProducts(catalog, "")
	if len(got) != 3 {
		t.Fatalf("empty query must keep everything, got %d", len(got))
	}
	for i := range catalog {
		if got[i].ID != catalog[i].ID {
			t.Fatalf("empty query changed order: %+v", got)
		}
	}

	if got := FilterProducts(catalog, "zzz"); len(got) != 0 {
		t.Fatalf("expected no matches, got %+v", got)
	}
}

func TestMoney(t *testing.T) {
	if got := Money("£", d("7.5")); got != "£7.50" {
		t.Fatalf("got %s", got)
	}
	if got := Money("£", d("-10")); got != "£-10.00" {
		t.Fatalf("got %s", got)
	}
}
