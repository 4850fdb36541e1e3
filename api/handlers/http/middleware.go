package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"gitlab.apk-group.net/siem/backend/asset-visibility/pkg/logger"
)

const (
	traceIDHeader = "X-Trace-ID"
	traceIDLocal  = "traceID"
)

// TraceMiddleware tags every request with a trace id, reusing the caller's
// X-Trace-ID when present, and carries it in the user context for logging
func TraceMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := c.Get(traceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		c.Locals(traceIDLocal, traceID)
		c.Set(traceIDHeader, traceID)
		c.SetUserContext(logger.WithTraceID(c.UserContext(), traceID))
		return c.Next()
	}
}
