package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/benchlab/gaia-eval-api/internal/utils"
)

// UserHeader is the request header carrying the caller's identity. The
// authentication layer sits in front of this service; by the time a request
// arrives here the identity is already verified and forwarded as a header.
const UserHeader = "X-User-ID"

// WithUser binds the caller identity into the request locals without
// requiring it; handlers that need identity reject its absence themselves.
func WithUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user := strings.TrimSpace(c.Get(UserHeader)); user != "" {
			c.Locals("user_id", user)
		}
		return c.Next()
	}
}

// RequireUser rejects requests that carry no caller identity.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user := strings.TrimSpace(c.Get(UserHeader)); user != "" {
			c.Locals("user_id", user)
			return c.Next()
		}

		return utils.SendError(c, fiber.StatusUnauthorized, "user identity is required")
	}
}
