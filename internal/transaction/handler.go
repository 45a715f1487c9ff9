package transaction

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pointsledger/loyalty-points-backend/internal/ledger"
	"github.com/pointsledger/loyalty-points-backend/internal/session"
)

type Handler struct {
	service *Service
}

type addRequest struct {
	CustomerID string  `json:"customerId"`
	Amount     float64 `json:"amount"`
	// VoucherID, when set, marks that voucher used as part of the purchase.
	VoucherID string `json:"voucherId"`
}

type amendRequest struct {
	Amount float64 `json:"amount"`
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/transactions", h.add)
	app.Get("/api/v1/transactions", h.list)
	app.Put("/api/v1/transaction/:id", h.amend)
}

func (h *Handler) add(c *fiber.Ctx) error {
	storeID, err := session.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	role, err := session.RoleFromCtx(c)
	if err != nil || role != ledger.RoleStore {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "stores only"})
	}

	payload := new(addRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.CustomerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "customerId is required"})
	}

	txn := h.service.Add(payload.CustomerID, storeID, payload.Amount, payload.VoucherID)
	return c.Status(fiber.StatusCreated).JSON(txn)
}

func (h *Handler) amend(c *fiber.Ctx) error {
	role, err := session.RoleFromCtx(c)
	if err != nil || role == ledger.RoleCustomer {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "stores and admin only"})
	}

	payload := new(amendRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if !h.service.Amend(c.Params("id"), payload.Amount) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "transaction not found"})
	}
	return c.JSON(fiber.Map{"message": "transaction updated"})
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
