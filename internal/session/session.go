// Package session issues and recognizes the opaque per-browser player
// identifier. It is the only identity the game has; there is no account or
// credential behind it.
package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// CookieName carries the player identifier between requests.
	CookieName = "player_id"

	localsKey = "player_id"
)

// Middleware copies the player cookie into request locals so handlers do not
// touch cookie parsing themselves.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id := c.Cookies(CookieName); id != "" {
			c.Locals(localsKey, id)
		}
		return c.Next()
	}
}

// PlayerID returns the identifier attached to the request, if any.
func PlayerID(c *fiber.Ctx) (string, bool) {
	id, ok := c.Locals(localsKey).(string)
	return id, ok && id != ""
}

// Issue allocates a new player identifier and sets the cookie on the response.
func Issue(c *fiber.Ctx, maxAge time.Duration) string {
	id := uuid.NewString()
	Refresh(c, id, maxAge)
	c.Locals(localsKey, id)
	return id
}

// Refresh re-sets the cookie so an active player's session keeps sliding.
func Refresh(c *fiber.Ctx, id string, maxAge time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    id,
		MaxAge:   int(maxAge.Seconds()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
