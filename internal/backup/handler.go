// Package backup exports and restores full ledger snapshots over HTTP.
package backup

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pointsledger/loyalty-points-backend/internal/ledger"
	"github.com/pointsledger/loyalty-points-backend/internal/session"
	"github.com/pointsledger/loyalty-points-backend/internal/snapshot"
)

type Handler struct {
	store *ledger.Store
}

func NewHandler(store *ledger.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/backup/export", h.export)
	app.Post("/api/v1/backup/import", h.restore)
}

func (h *Handler) export(c *fiber.Ctx) error {
	role, err := session.RoleFromCtx(c)
	if err != nil || role != ledger.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin only"})
	}

	raw, err := snapshot.Encode(h.store.Snapshot())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+snapshot.BackupFilename(time.Now())+`"`)
	return c.Send(raw)
}

func (h *Handler) restore(c *fiber.Ctx) error {
	role, err := session.RoleFromCtx(c)
	if err != nil || role != ledger.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin only"})
	}

	raw, err := importedBytes(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	data, err := snapshot.Decode(raw)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid backup file: " + err.Error()})
	}

	h.store.Replace(data)
	return c.JSON(fiber.Map{"message": "backup restored"})
}

// importedBytes reads the uploaded "file" form field, falling back to a raw
// JSON body so the endpoint also works without multipart encoding.
func importedBytes(c *fiber.Ctx) (raw []byte, err error) {
	fh, err := c.FormFile("file")
	if err != nil {
		if len(c.Body()) == 0 {
			return nil, fiber.NewError(fiber.StatusBadRequest, "backup file is required")
		}
		return c.Body(), nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
