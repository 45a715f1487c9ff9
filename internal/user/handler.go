package user

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pointsledger/loyalty-points-backend/internal/ledger"
	"github.com/pointsledger/loyalty-points-backend/internal/session"
)

type Handler struct {
	service  *Service
	sessions *session.Manager
}

type signInRequest struct {
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type signUpRequest struct {
	Name     string `json:"name"`
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Address  string `json:"address"`
}

type addCustomerRequest struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
}

type completeProfileRequest struct {
	Mobile   string `json:"mobile"`
	Address  string `json:"address"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type changeAddressRequest struct {
	Address string `json:"address"`
}

func NewHandler(service *Service, sessions *session.Manager) *Handler {
	return &Handler{service: service, sessions: sessions}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/sign-in", h.signIn)
	app.Post("/api/v1/sign-up", h.signUp)
	// a store-created customer completes their profile before they can sign in
	app.Post("/api/v1/complete-profile", h.completeProfile)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/sign-out", h.signOut)
	app.Get("/api/v1/profile", h.getProfile)
	app.Put("/api/v1/profile/password", h.changePassword)
	app.Put("/api/v1/profile/address", h.changeAddress)
	app.Post("/api/v1/customers", h.addCustomer)
	app.Get("/api/v1/customers", h.listCustomers)
}

func (h *Handler) signIn(c *fiber.Ctx) error {
	payload := new(signInRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	u, err := h.service.Authenticate(payload.Mobile, payload.Password, ledger.Role(payload.Role))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid mobile, password or role"})
	}

	token, err := h.sessions.Issue(u, time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user":    sanitizeUser(u),
		"token":   token,
	})
}

func (h *Handler) signUp(c *fiber.Ctx) error {
	payload := new(signUpRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(err.Error())
	}

	role := ledger.Role(payload.Role)
	if payload.Name == "" || payload.Mobile == "" || payload.Password == "" {
		return c.Status(fiber.StatusBadRequest).SendString("Missing required fields")
	}
	// the single admin account is seeded, never registered
	if role != ledger.RoleStore && role != ledger.RoleCustomer {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid role")
	}

	created, err := h.service.Register(ledger.User{
		Name:              payload.Name,
		Mobile:            payload.Mobile,
		Password:          payload.Password,
		Role:              role,
		Address:           payload.Address,
		IsProfileComplete: role == ledger.RoleCustomer,
	})
	if err != nil {
		if err == ErrMobileExists {
			return c.Status(fiber.StatusConflict).SendString("Mobile number already registered")
		}
		return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(sanitizeUser(created))
}

func (h *Handler) completeProfile(c *fiber.Ctx) error {
	payload := new(completeProfileRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(err.Error())
	}
	if payload.Mobile == "" || payload.Address == "" || payload.Password == "" {
		return c.Status(fiber.StatusBadRequest).SendString("Missing required fields")
	}

	if !h.service.CompleteProfile(payload.Mobile, payload.Address, payload.Password) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "no incomplete customer with that mobile"})
	}
	return c.JSON(fiber.Map{"message": "profile completed"})
}

func (h *Handler) signOut(c *fiber.Ctx) error {
	jti, err := session.JTIFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	h.sessions.Revoke(jti)
	return c.JSON(fiber.Map{"message": "signed out"})
}

func (h *Handler) getProfile(c *fiber.Ctx) error {
	userID, err := session.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	u, err := h.service.Profile(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "user not found"})
	}

	resp := fiber.Map{"user": sanitizeUser(u)}
	if u.Role == ledger.RoleCustomer {
		resp["pointsBalance"] = h.service.PointsBalance(u.ID)
	}
	return c.JSON(resp)
}

func (h *Handler) changePassword(c *fiber.Ctx) error {
	userID, err := session.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(changePasswordRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	result := h.service.ChangePassword(userID, payload.OldPassword, payload.NewPassword)
	if !result.Success {
		return c.Status(fiber.StatusBadRequest).JSON(result)
	}
	return c.JSON(result)
}

func (h *Handler) changeAddress(c *fiber.Ctx) error {
	userID, err := session.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(changeAddressRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if !h.service.ChangeAddress(userID, payload.Address) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "user not found"})
	}
	return c.JSON(fiber.Map{"message": "address updated"})
}

func (h *Handler) addCustomer(c *fiber.Ctx) error {
	storeID, err := session.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	role, err := session.RoleFromCtx(c)
	if err != nil || role != ledger.RoleStore {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "stores only"})
	}

	payload := new(addCustomerRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(err.Error())
	}
	if payload.Name == "" || payload.Mobile == "" {
		return c.Status(fiber.StatusBadRequest).SendString("Missing required fields")
	}

	created, err := h.service.AddCustomer(payload.Name, payload.Mobile, storeID)
	if err != nil {
		if err == ErrMobileExists {
			return c.Status(fiber.StatusConflict).SendString("Mobile number already registered")
		}
		return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(sanitizeUser(created))
}

func (h *Handler) listCustomers(c *fiber.Ctx) error {
	userID, err := session.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	role, err := session.RoleFromCtx(c)
	if err != nil || role == ledger.RoleCustomer {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "stores and admin only"})
	}

	customers := h.service.Customers(role, userID)
	response := make([]ledger.User, 0, len(customers))
	for _, u := range customers {
		response = append(response, sanitizeUser(u))
	}
	return c.JSON(response)
}
