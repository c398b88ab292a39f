package handler

import (
	"go-resupply-order/internal/middleware"
	"go-resupply-order/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SessionHandler struct {
	sessionService service.SessionService
}

func NewSessionHandler(s service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: s}
}

// SignIn starts an anonymous session, or confirms the caller's current one.
// POST /api/v1/session
func (h *SessionHandler) SignIn(c *fiber.Ctx) error {
	resp, err := h.sessionService.SignInAnonymously(c.UserContext(), middleware.BearerToken(c))
	if err != nil {
		return respondError(c, err)
	}

	status := fiber.StatusOK
	if resp.Created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(resp)
}
