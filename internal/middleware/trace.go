package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"wiki-echo/internal/pkg/logger"
)

const (
	TraceIDHeader     = "X-Request-ID"
	TraceIDContextKey = "trace_id"
)

// Trace tags each request with a trace id, reusing the caller's request id
// when one is sent, and carries it on the request context for logging.
func Trace() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := c.Get(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		c.Locals(TraceIDContextKey, traceID)
		c.SetUserContext(logger.WithTraceID(c.UserContext(), traceID))
		c.Set(TraceIDHeader, traceID)

		return c.Next()
	}
}

func GetTraceID(c *fiber.Ctx) string {
	id, _ := c.Locals(TraceIDContextKey).(string)
	return id
}
