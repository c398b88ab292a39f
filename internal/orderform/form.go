package orderform

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go-resupply-order/internal/model"
	"go-resupply-order/pkg/validator"

	"github.com/shopspring/decimal"
)

// Row binds one visible product to its quantity and stock inputs.
type Row struct {
	Product       model.Product
	QuantityInput string
	Quantity      decimal.Decimal
	StockInput    string
	Stock         *decimal.Decimal
	LineTotal     decimal.Decimal
}

func (r Row) QuantityPlaceholder() string {
	return fmt.Sprintf("Qty (Par %s)", r.Product.ParLevel.String())
}

// Snapshot is a consistent copy of the form for rendering.
type Snapshot struct {
	Query  string
	Rows   []Row
	Totals Totals
}

// Form is the order form of one session. Safe for concurrent use.
type Form struct {
	mu         sync.Mutex
	catalog    []model.Product
	budget     decimal.Decimal
	query      string
	rows       []*Row
	byID       map[string]*Row
	submitting bool
}

// New renders the whole catalog onto a fresh form.
func New(catalog []model.Product, budget decimal.Decimal) *Form {
	f := &Form{
		catalog: append([]model.Product(nil), catalog...),
		budget:  budget,
	}
	f.render(f.catalog)
	return f
}

func (f *Form) Catalog() []model.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Product(nil), f.catalog...)
}

func (f *Form) Budget() decimal.Decimal {
	return f.budget
}

// Render replaces every row with one empty row per product, in order.
func (f *Form) Render(products []model.Product) Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.render(products)
	return f.snapshot()
}

// Filter re-renders the catalog subset matching query. Entered quantities
// on the previous rows are discarded.
func (f *Form) Filter(query string) Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.query = query
	f.render(FilterProducts(f.catalog, query))
	return f.snapshot()
}

func (f *Form) render(products []model.Product) {
	f.rows = make([]*Row, 0, len(products))
	f.byID = make(map[string]*Row, len(products))
	for _, p := range products {
		r := &Row{Product: p, LineTotal: decimal.Zero}
		f.rows = append(f.rows, r)
		f.byID[p.ID] = r
	}
}

// SetQuantity records a quantity edit and recomputes the row and totals.
func (f *Form) SetQuantity(productID, raw string) (Row, Totals, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.byID[productID]
	if !ok {
		return Row{}, Totals{}, ErrUnknownProduct
	}
	q, err := ParseQuantity(raw)
	if err != nil {
		return Row{}, Totals{}, err
	}

	r.QuantityInput = raw
	r.Quantity = q
	r.LineTotal = LineTotal(r.Product.Price, q)
	return *r, f.totals(), nil
}

// SetStock records a stock edit. Nothing is derived from it.
func (f *Form) SetStock(productID, raw string) (Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.byID[productID]
	if !ok {
		return Row{}, ErrUnknownProduct
	}
	s, err := ParseStock(raw)
	if err != nil {
		return Row{}, err
	}

	r.StockInput = raw
	r.Stock = s
	return *r, nil
}

func (f *Form) Totals() Totals {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.totals()
}

func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot()
}

func (f *Form) totals() Totals {
	return ComputeTotals(f.budget, f.rowValues())
}

func (f *Form) snapshot() Snapshot {
	return Snapshot{Query: f.query, Rows: f.rowValues(), Totals: f.totals()}
}

func (f *Form) rowValues() []Row {
	out := make([]Row, len(f.rows))
	for i, r := range f.rows {
		out[i] = *r
	}
	return out
}

// BeginSubmit builds the order from the current rows and marks the form as
// submitting. Every successful call must be paired with FinishSubmit.
func (f *Form) BeginSubmit(section string, now time.Time) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.submitting {
		return nil, ErrSubmitInFlight
	}
	if !f.totals().SubmitEnabled {
		return nil, ErrOverBudget
	}
	order, err := BuildOrder(section, f.rowValues(), now)
	if err != nil {
		return nil, err
	}
	f.submitting = true
	return order, nil
}

// FinishSubmit releases the submit guard. After a successful write every
// quantity input and line total is cleared.
func (f *Form) FinishSubmit(succeeded bool) Totals {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.submitting = false
	if succeeded {
		for _, r := range f.rows {
			r.QuantityInput = ""
			r.Quantity = decimal.Zero
			r.LineTotal = decimal.Zero
		}
	}
	return f.totals()
}

// BuildOrder turns form rows into an order. Rows with quantity 0 are
// skipped. The total is computed from quantities and prices, not from the
// rounded line totals.
func BuildOrder(section string, rows []Row, now time.Time) (*model.Order, error) {
	if strings.TrimSpace(section) == "" {
		return nil, ErrSectionRequired
	}

	items := make([]model.LineItem, 0, len(rows))
	total := decimal.Zero
	for _, r := range rows {
		if !r.Quantity.IsPositive() {
			continue
		}
		li := model.LineItem{
			ProductID: r.Product.ID,
			Name:      r.Product.Name,
			Unit:      r.Product.Unit,
			Price:     r.Product.Price,
			Quantity:  r.Quantity,
			Stock:     r.Stock,
		}
		items = append(items, li)
		total = total.Add(li.Amount())
	}
	if len(items) == 0 {
		return nil, ErrNoQuantities
	}

	order := &model.Order{
		Section:   section,
		Items:     items,
		Total:     total,
		OrderDate: now.Format("2006-01-02"),
	}
	if errs := validator.ValidateStruct(order); len(errs) > 0 {
		return nil, fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrInvalidOrder, errs[0].FailedField, errs[0].Tag)
	}
	return order, nil
}
