package middlewares

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rs/xid"
)

const RequestIDKey = "request_id"

// RequestIDMiddleware attaches a request ID to every request for log and
// error correlation. An inbound X-Request-Id header is honored,
// otherwise a fresh req_<xid> is generated; either way the ID is echoed
// on the response.
func RequestIDMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		rid := c.Get("X-Request-Id")
		if rid == "" {
			rid = "req_" + xid.New().String()
		}

		c.Locals(RequestIDKey, rid)
		c.Set("X-Request-Id", rid)

		return c.Next()
	}
}

// RequestID reads the request ID attached by RequestIDMiddleware.
func RequestID(c fiber.Ctx) string {
	if rid, ok := c.Locals(RequestIDKey).(string); ok {
		return rid
	}
	return ""
}
