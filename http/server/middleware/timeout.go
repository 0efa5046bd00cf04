package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/cqsdata/http/server"
)

// NewTimeoutMW gives every request context a deadline of d. Broker requests made
// by the handler inherit it. A non-positive d leaves the context alone.
func NewTimeoutMW(d time.Duration) server.Middleware {
	handler := func(c *fiber.Ctx) error {
		if d <= 0 {
			return c.Next()
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), d)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}

	return server.Middleware{Priority: 800, Handler: handler}
}
