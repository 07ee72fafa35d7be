package requestid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Header carries the request identifier on responses and may supply
// one on requests from upstream proxies.
const Header = "X-Request-ID"

// New tags every request with an identifier so log lines of one
// request can be correlated.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(Header)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals("request_id", id)
		c.Set(Header, id)
		return c.Next()
	}
}
