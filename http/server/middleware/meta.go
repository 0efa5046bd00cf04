package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/cqsdata/http/server"
	"github.com/rise-and-shine/cqsdata/meta"
	"github.com/rise-and-shine/cqsdata/tracing"
)

// HeaderTraceID echoes the trace id of every response.
const HeaderTraceID = "X-Trace-ID"

// NewMetaInjectMW stores the trace id, client address, user agent and service
// identity in the request context.
func NewMetaInjectMW(serviceName, serviceVersion string) server.Middleware {
	return server.Middleware{
		Priority: 700,
		Handler: func(c *fiber.Ctx) error {
			traceID := tracing.GetStartingTraceID(c.UserContext())

			ctx := meta.InjectMetaToContext(c.UserContext(), map[meta.ContextKey]string{
				meta.TraceID:        traceID,
				meta.IPAddress:      c.IP(),
				meta.UserAgent:      c.Get(fiber.HeaderUserAgent),
				meta.ServiceName:    serviceName,
				meta.ServiceVersion: serviceVersion,
			})
			c.SetUserContext(ctx)
			c.Set(HeaderTraceID, traceID)

			return c.Next()
		},
	}
}
