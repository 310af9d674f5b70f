package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RegisterHealthRoutes adds the liveness endpoint. Backend pings are included
// only for the backends the deployment actually configured.
func RegisterHealthRoutes(app *fiber.App, d Deps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		status := http.StatusOK
		detail := fiber.Map{}

		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		if d.DB != nil {
			if err := d.DB.Ping(ctx); err != nil {
				detail["postgres"] = err.Error()
				status = http.StatusServiceUnavailable
			} else {
				detail["postgres"] = "ok"
			}
		}
		if d.Cache != nil {
			if err := d.Cache.Ping(ctx).Err(); err != nil {
				detail["redis"] = err.Error()
				status = http.StatusServiceUnavailable
			} else {
				detail["redis"] = "ok"
			}
		}

		body := fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		if len(detail) > 0 {
			body["stores"] = detail
		}
		return c.Status(status).JSON(body)
	})
}
