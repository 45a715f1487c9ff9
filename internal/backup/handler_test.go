package backup

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/pointsledger/loyalty-points-backend/internal/ledger"
)

func makeApp(h *Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if id := c.Get("X-User-ID"); id != "" {
			claims := jwt.MapClaims{"user_id": id, "role": c.Get("X-Role"), "jti": "test-session"}
			c.Locals("user", &jwt.Token{Claims: claims})
		}
		return c.Next()
	})
	h.RegisterProtectedRoutes(app)
	return app
}

func TestExportRoundTripsThroughImport(t *testing.T) {
	store := ledger.NewStore(ledger.Bootstrap(), nil, nil, ledger.DefaultRates(), nil)
	app := makeApp(NewHandler(store))

	store.RegisterUser(ledger.User{Name: "Mona", Mobile: "0100", Role: ledger.RoleCustomer})
	store.AddTransaction("1", "store-1", 500, "")

	req := httptest.NewRequest("GET", "/api/v1/backup/export", nil)
	req.Header.Set("X-User-ID", ledger.SeedAdminID)
	req.Header.Set("X-Role", "admin")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if cd := res.Header.Get(fiber.HeaderContentDisposition); !strings.Contains(cd, "loyalty_backup_") {
		t.Fatalf("expected download disposition, got %q", cd)
	}
	exported, _ := io.ReadAll(res.Body)

	// restore into a fresh store
	fresh := ledger.NewStore(ledger.Bootstrap(), nil, nil, ledger.DefaultRates(), nil)
	freshApp := makeApp(NewHandler(fresh))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "loyalty_backup_2026-01-01.json")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	fw.Write(exported)
	mw.Close()

	req = httptest.NewRequest("POST", "/api/v1/backup/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-User-ID", ledger.SeedAdminID)
	req.Header.Set("X-Role", "admin")
	res, err = freshApp.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	if fresh.UserByMobile("0100") == nil {
		t.Fatal("imported customer should be present")
	}
	if len(fresh.Transactions()) != 1 {
		t.Fatal("imported transaction should be present")
	}
}

func TestImportRejectsPartialSnapshot(t *testing.T) {
	store := ledger.NewStore(ledger.Bootstrap(), nil, nil, ledger.DefaultRates(), nil)
	app := makeApp(NewHandler(store))

	before := len(store.Snapshot().Users)

	req := httptest.NewRequest("POST", "/api/v1/backup/import", strings.NewReader(`{"users":[]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", ledger.SeedAdminID)
	req.Header.Set("X-Role", "admin")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
	if len(store.Snapshot().Users) != before {
		t.Fatal("a rejected import must leave the ledger untouched")
	}
}

func TestExportForbiddenForStores(t *testing.T) {
	store := ledger.NewStore(ledger.Bootstrap(), nil, nil, ledger.DefaultRates(), nil)
	app := makeApp(NewHandler(store))

	req := httptest.NewRequest("GET", "/api/v1/backup/export", nil)
	req.Header.Set("X-User-ID", "store-1")
	req.Header.Set("X-Role", "store")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403, got %d", res.StatusCode)
	}
}
