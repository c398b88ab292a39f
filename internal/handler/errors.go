package handler

import (
	"errors"
	"fmt"

	"go-resupply-order/internal/orderform"
	"go-resupply-order/internal/service"
	"go-resupply-order/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// errorStatus maps domain errors onto an HTTP status and the notice shown
// to the user.
func errorStatus(err error) (int, string) {
	var writeErr *service.OrderWriteError
	switch {
	case errors.As(err, &writeErr):
		return fiber.StatusBadGateway, "Failed to save order: " + writeErr.Err.Error()
	case errors.Is(err, orderform.ErrSectionRequired):
		return fiber.StatusUnprocessableEntity, "Pick a section first."
	case errors.Is(err, orderform.ErrNoQuantities):
		return fiber.StatusUnprocessableEntity, "No quantities entered."
	case errors.Is(err, orderform.ErrOverBudget):
		return fiber.StatusUnprocessableEntity, "Order total exceeds the available budget."
	case errors.Is(err, orderform.ErrSubmitInFlight):
		return fiber.StatusConflict, "An order is already being submitted."
	case errors.Is(err, orderform.ErrNegativeQuantity), errors.Is(err, orderform.ErrNegativeStock),
		errors.Is(err, orderform.ErrQuantityTooLarge), errors.Is(err, orderform.ErrStockTooLarge):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, orderform.ErrInvalidOrder):
		return fiber.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, orderform.ErrUnknownProduct):
		return fiber.StatusNotFound, "Product not found"
	case errors.Is(err, service.ErrSessionNotFound):
		return fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrTooManySessions):
		return fiber.StatusServiceUnavailable, "Too many active sessions, try again later."
	case errors.Is(err, service.ErrCatalogUnavailable):
		return fiber.StatusServiceUnavailable, err.Error()
	default:
		return fiber.StatusInternalServerError, "Internal Server Error"
	}
}

func respondError(c *fiber.Ctx, err error) error {
	status, msg := errorStatus(err)
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// getSessionID reads the session set by middleware.RequireSession.
func getSessionID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals("session_id").(uuid.UUID)
	return id, ok
}

// validateRequest returns the first validation failure of req as a 400.
func validateRequest(c *fiber.Ctx, req interface{}) (bool, error) {
	errs := validator.ValidateStruct(req)
	if len(errs) == 0 {
		return true, nil
	}
	firstErr := errs[0]
	msg := fmt.Sprintf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	return false, c.Status(400).JSON(fiber.Map{"error": msg})
}
