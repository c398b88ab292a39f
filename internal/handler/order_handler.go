package handler

import (
	"go-resupply-order/internal/service"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	service service.OrderFormService
	present presenter
}

func NewOrderHandler(s service.OrderFormService, currencySymbol string) *OrderHandler {
	return &OrderHandler{service: s, present: presenter{symbol: currencySymbol}}
}

type SubmitOrderRequest struct {
	Section string `json:"section" validate:"max=100"`
}

// Submit appends the order built from the form and returns the confirmation.
// POST /api/v1/orders
func (h *OrderHandler) Submit(c *fiber.Ctx) error {
	id, ok := getSessionID(c)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}
	var req SubmitOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if ok, err := validateRequest(c, &req); !ok {
		return err
	}

	res, err := h.service.Submit(c.UserContext(), id, req.Section)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"message":      "Order submitted",
		"confirmation": res.Confirmation,
		"totals":       h.present.totals(res.Totals),
	})
}
