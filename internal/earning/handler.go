package earning

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pointsledger/loyalty-points-backend/internal/ledger"
	"github.com/pointsledger/loyalty-points-backend/internal/session"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/earnings", h.list)
}

func (h *Handler) list(c *fiber.Ctx) error {
	role, err := session.RoleFromCtx(c)
	if err != nil || role != ledger.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin only"})
	}

	return c.JSON(fiber.Map{
		"earnings": h.service.List(),
		"total":    h.service.Total(),
	})
}
