package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/papertrade/papertrade/internal/logging"
)

func setupTestApp(t *testing.T) (*fiber.App, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app := fiber.New()
	logger := logging.Discard()
	app.Use(Idempotency(cache, time.Minute, logger))

	calls := 0
	app.Post("/trade", func(c *fiber.Ctx) error {
		calls++
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"calls": calls})
	})

	cleanup := func() {
		cache.Close()
		mr.Close()
	}

	return app, cleanup
}

func TestIdempotencyPassesThroughWithoutHeader(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(fiber.MethodPost, "/trade", strings.NewReader("{}"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("request %d: expected %d got %d", i, fiber.StatusOK, resp.StatusCode)
		}
	}

	// Without a key every request reaches the handler.
	req := httptest.NewRequest(fiber.MethodPost, "/trade", strings.NewReader("{}"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("third request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), `"calls":3`) {
		t.Fatalf("expected third handler invocation, got %s", body)
	}
}

func TestIdempotencyReplaysKeyedResponse(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	first := httptest.NewRequest(fiber.MethodPost, "/trade", strings.NewReader("{}"))
	first.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	first.Header.Set(idempotencyKeyHeader, "order-1")

	resp, err := app.Test(first)
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	firstBody, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	second := httptest.NewRequest(fiber.MethodPost, "/trade", strings.NewReader("{}"))
	second.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	second.Header.Set(idempotencyKeyHeader, "order-1")

	resp2, err := app.Test(second)
	if err != nil {
		t.Fatalf("second request: %v", err)
	}
	secondBody, _ := io.ReadAll(resp2.Body)
	resp2.Body.Close()

	if string(firstBody) != string(secondBody) {
		t.Fatalf("expected replayed response, got %s then %s", firstBody, secondBody)
	}
}
