package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/cqsdata/http/server"
)

// NewErrorHandlerMW renders handler errors as JSON error responses so the logger
// and tracing middlewares above it see the final status code.
func NewErrorHandlerMW(hideDetails bool) server.Middleware {
	handler := func(c *fiber.Ctx) error {
		err := c.Next()
		if err == nil || c.Response().StatusCode() >= fiber.StatusBadRequest {
			return err
		}
		return server.WriteErrorResponse(c, err, hideDetails)
	}

	return server.Middleware{Priority: 400, Handler: handler}
}
