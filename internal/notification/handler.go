package notification

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pointsledger/loyalty-points-backend/internal/session"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/notifications", h.list)
	app.Put("/api/v1/notification/:id/read", h.markRead)
}

func (h *Handler) list(c *fiber.Ctx) error {
	userID, err := session.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	return c.JSON(fiber.Map{
		"notifications": h.service.ListFor(userID),
		"unread":        h.service.UnreadCount(userID),
	})
}

func (h *Handler) markRead(c *fiber.Ctx) error {
	if _, err := session.UserIDFromCtx(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	if !h.service.MarkRead(c.Params("id")) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "notification not found"})
	}
	return c.JSON(fiber.Map{"message": "notification read"})
}
