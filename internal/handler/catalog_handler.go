package handler

import (
	"go-resupply-order/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	service  service.OrderFormService
	sections []string
}

func NewCatalogHandler(s service.OrderFormService, sections []string) *CatalogHandler {
	return &CatalogHandler{service: s, sections: sections}
}

// GetCatalog returns the products loaded for this session.
func (h *CatalogHandler) GetCatalog(c *fiber.Ctx) error {
	id, ok := getSessionID(c)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}
	products, err := h.service.Catalog(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"count": len(products), "data": products})
}

// GetSections returns the values offered by the section selector.
func (h *CatalogHandler) GetSections(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.sections})
}
