package routes

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/papertrade/papertrade/internal/session"
	"github.com/papertrade/papertrade/internal/trading"
	"github.com/papertrade/papertrade/internal/wallet"
	"github.com/papertrade/papertrade/internal/web"
)

// RegisterIndexRoute serves the game page and handles identity issuance: a
// first visit (or a cookie whose wallet the store no longer has) gets a fresh
// player id and a seeded wallet before the page renders.
func RegisterIndexRoute(app *fiber.App, svc *trading.Service, cookieMaxAge time.Duration, logger *slog.Logger) {
	app.Get("/", func(c *fiber.Ctx) error {
		playerID, ok := session.PlayerID(c)
		if ok {
			if _, err := svc.Wallet(c.UserContext(), playerID); err != nil {
				if !errors.Is(err, wallet.ErrNotFound) {
					return err
				}
				ok = false
			}
		}

		if !ok {
			playerID = session.Issue(c, cookieMaxAge)
			if _, err := svc.Ensure(c.UserContext(), playerID); err != nil {
				return err
			}
			logger.Info("new player seeded", slog.String("player_id", playerID))
		} else {
			session.Refresh(c, playerID, cookieMaxAge)
		}

		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Send(web.Index())
	})
}
