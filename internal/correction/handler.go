package correction

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pointsledger/loyalty-points-backend/internal/ledger"
	"github.com/pointsledger/loyalty-points-backend/internal/session"
)

type Handler struct {
	service *Service
}

type fileRequest struct {
	CustomerID string `json:"customerId"`
	Message    string `json:"message"`
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/corrections", h.file)
	app.Get("/api/v1/corrections", h.list)
	app.Put("/api/v1/correction/:id/resolve", h.resolve)
}

func (h *Handler) file(c *fiber.Ctx) error {
	storeID, err := session.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	role, err := session.RoleFromCtx(c)
	if err != nil || role != ledger.RoleStore {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "stores only"})
	}

	payload := new(fileRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.CustomerID == "" || payload.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "customerId and message are required"})
	}

	req := h.service.File(storeID, payload.CustomerID, payload.Message)
	return c.Status(fiber.StatusCreated).JSON(req)
}

func (h *Handler) resolve(c *fiber.Ctx) error {
	role, err := session.RoleFromCtx(c)
	if err != nil || role != ledger.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin only"})
	}

	if !h.service.Resolve(c.Params("id")) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "correction request not found"})
	}
	return c.JSON(fiber.Map{"message": "correction request resolved"})
}

func (h *Handler) list(c *fiber.Ctx) error {
	userID, err := session.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	role, err := session.RoleFromCtx(c)
	if err != nil || role == ledger.RoleCustomer {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "stores and admin only"})
	}

	return c.JSON(h.service.ListFor(role, userID))
}
