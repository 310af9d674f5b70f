package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func TestMiddlewareExposesCookie(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/", func(c *fiber.Ctx) error {
		id, ok := PlayerID(c)
		if !ok {
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendString(id)
	})

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 without cookie, got %d", resp.StatusCode)
	}

	req2 := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req2.AddCookie(&http.Cookie{Name: CookieName, Value: "abc-123"})
	resp2, err := app.Test(req2)
	if err != nil {
		t.Fatalf("app.Test with cookie: %v", err)
	}
	if resp2.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 with cookie, got %d", resp2.StatusCode)
	}
}

func TestIssueSetsCookie(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		id := Issue(c, 24*time.Hour)
		return c.SendString(id)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}

	var issued *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == CookieName {
			issued = c
		}
	}
	if issued == nil || issued.Value == "" {
		t.Fatal("expected player_id cookie to be set")
	}
	if issued.MaxAge != int((24 * time.Hour).Seconds()) {
		t.Fatalf("unexpected cookie max age: %d", issued.MaxAge)
	}
}
