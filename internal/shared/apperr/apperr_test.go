package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func TestFromDB(t *testing.T) {
	if FromDB(nil, "client") != nil {
		t.Fatal("nil stays nil")
	}

	err := FromDB(fmt.Errorf("query: %w", gorm.ErrRecordNotFound), "client")
	if !Is(err, KindNotFound) || err.Error() != "client not found" {
		t.Fatalf("not found mapping: %v", err)
	}

	err = FromDB(errors.New("UNIQUE constraint failed: invoices.invoice_number"), "invoice")
	if !Is(err, KindConflict) || err.Error() != "invoice already exists" {
		t.Fatalf("unique mapping: %v", err)
	}

	original := Validation("month", "must be between 1 and 12")
	if FromDB(original, "invoice") != error(original) {
		t.Fatal("app errors pass through unchanged")
	}

	err = FromDB(errors.New("connection reset"), "invoice")
	if !Is(err, KindInternal) || err.Error() != "failed to access invoice" {
		t.Fatalf("internal mapping: %v", err)
	}
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/validation", func(c *fiber.Ctx) error { return Validation("unitPrice", "must not be negative") })
	app.Get("/conflict", func(c *fiber.Ctx) error { return Conflict("invoice already paid") })
	app.Get("/missing", func(c *fiber.Ctx) error { return gorm.ErrRecordNotFound })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("secret detail") })
	app.Get("/fiber", func(c *fiber.Ctx) error { return fiber.ErrMethodNotAllowed })

	cases := []struct {
		path   string
		status int
		body   map[string]string
	}{
		{"/validation", fiber.StatusBadRequest, map[string]string{"error": "unitPrice: must not be negative", "field": "unitPrice"}},
		{"/conflict", fiber.StatusConflict, map[string]string{"error": "invoice already paid"}},
		{"/missing", fiber.StatusNotFound, map[string]string{"error": "resource not found"}},
		{"/boom", fiber.StatusInternalServerError, map[string]string{"error": "Internal server error"}},
		{"/fiber", fiber.StatusMethodNotAllowed, map[string]string{"error": "Method Not Allowed"}},
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tc.path, nil))
		if err != nil {
			t.Fatalf("%s: %v", tc.path, err)
		}
		raw, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != tc.status {
			t.Fatalf("%s: status %d", tc.path, resp.StatusCode)
		}
		var body map[string]string
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("%s: decode %q: %v", tc.path, raw, err)
		}
		if len(body) != len(tc.body) {
			t.Fatalf("%s: body %v", tc.path, body)
		}
		for k, v := range tc.body {
			if body[k] != v {
				t.Fatalf("%s: %s = %q, want %q", tc.path, k, body[k], v)
			}
		}
	}
}
