package voucher

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pointsledger/loyalty-points-backend/internal/ledger"
	"github.com/pointsledger/loyalty-points-backend/internal/session"
)

type Handler struct {
	service *Service
}

type requestVoucherRequest struct {
	StoreID string `json:"storeId"`
	Points  int    `json:"points"`
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/vouchers", h.request)
	app.Get("/api/v1/vouchers", h.list)
	app.Put("/api/v1/voucher/:id/status", h.setStatus)
}

func (h *Handler) request(c *fiber.Ctx) error {
	customerID, err := session.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	role, err := session.RoleFromCtx(c)
	if err != nil || role != ledger.RoleCustomer {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "customers only"})
	}

	payload := new(requestVoucherRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.StoreID == "" || payload.Points <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "storeId and a positive points value are required"})
	}

	v := h.service.Request(customerID, payload.StoreID, payload.Points)
	return c.Status(fiber.StatusCreated).JSON(v)
}

func (h *Handler) setStatus(c *fiber.Ctx) error {
	role, err := session.RoleFromCtx(c)
	if err != nil || role == ledger.RoleCustomer {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "stores and admin only"})
	}

	payload := new(setStatusRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	status := ledger.VoucherStatus(payload.Status)
	if status != ledger.VoucherActive && status != ledger.VoucherUsed {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "status must be active or used"})
	}

	if !h.service.SetStatus(c.Params("id"), status) {
		// unknown id, or a transition that would move the status backward
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "voucher not updated"})
	}
	return c.JSON(fiber.Map{"message": "voucher updated"})
}

func (h *Handler) list(c *fiber.Ctx) error {
	userID, err := session.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	role, err := session.RoleFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	return c.JSON(h.service.ListFor(role, userID))
}
