package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/papertrade/papertrade/internal/trading"
)

// RegisterTradingRoutes wires the wallet and trade endpoints.
func RegisterTradingRoutes(r fiber.Router, h *trading.Handler) {
	r.Get("/wallet", h.Wallet)
	r.Post("/trade", h.Trade)
	r.Post("/reset", h.Reset)
}
