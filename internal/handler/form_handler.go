package handler

import (
	"fmt"
	"strconv"

	"go-resupply-order/internal/service"

	"github.com/gofiber/fiber/v2"
)

type FormHandler struct {
	service service.OrderFormService
	present presenter
}

func NewFormHandler(s service.OrderFormService, currencySymbol string) *FormHandler {
	return &FormHandler{service: s, present: presenter{symbol: currencySymbol}}
}

type FilterRequest struct {
	Query string `json:"query" validate:"max=100"`
}

// InputRequest carries the raw content of a numeric input. Clients may send
// either a JSON string or a JSON number.
type InputRequest struct {
	Value any `json:"value"`
}

// rawInput is the text form of InputRequest.Value, bounded before parsing.
type rawInput struct {
	Value string `validate:"max=32"`
}

func (r InputRequest) raw() string {
	switch v := r.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// GetForm returns every row with the current totals.
// GET /api/v1/form
func (h *FormHandler) GetForm(c *fiber.Ctx) error {
	id, ok := getSessionID(c)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}
	snap, err := h.service.Snapshot(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(h.present.form(snap))
}

// Filter re-renders the form with the products matching the query.
// POST /api/v1/form/filter
func (h *FormHandler) Filter(c *fiber.Ctx) error {
	id, ok := getSessionID(c)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}
	var req FilterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if ok, err := validateRequest(c, &req); !ok {
		return err
	}
	snap, err := h.service.Filter(id, req.Query)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(h.present.form(snap))
}

// SetQuantity records a quantity edit.
// PUT /api/v1/form/rows/:productId/quantity
func (h *FormHandler) SetQuantity(c *fiber.Ctx) error {
	id, ok := getSessionID(c)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}
	var req InputRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	in := rawInput{Value: req.raw()}
	if ok, err := validateRequest(c, &in); !ok {
		return err
	}
	row, totals, err := h.service.SetQuantity(id, c.Params("productId"), in.Value)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"row":    h.present.row(row),
		"totals": h.present.totals(totals),
	})
}

// SetStock records a stock edit.
// PUT /api/v1/form/rows/:productId/stock
func (h *FormHandler) SetStock(c *fiber.Ctx) error {
	id, ok := getSessionID(c)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}
	var req InputRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	in := rawInput{Value: req.raw()}
	if ok, err := validateRequest(c, &in); !ok {
		return err
	}
	row, err := h.service.SetStock(id, c.Params("productId"), in.Value)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"row": h.present.row(row)})
}

// GetTotals returns the cart total against the budget.
// GET /api/v1/form/totals
func (h *FormHandler) GetTotals(c *fiber.Ctx) error {
	id, ok := getSessionID(c)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}
	totals, err := h.service.Totals(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(h.present.totals(totals))
}
