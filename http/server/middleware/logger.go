package middleware

import (
	"time"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/cqsdata/http/server"
	"github.com/rise-and-shine/cqsdata/logger"
)

// NewLoggerMW writes one access log line per request: info below 400, warn for
// 4xx and error for 5xx.
func NewLoggerMW(log logger.Logger) server.Middleware {
	log = log.Named("http.logger")

	handler := func(c *fiber.Ctx) error {
		started := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()

		entry := log.WithContext(c.UserContext()).With(
			"http_method", c.Method(),
			"http_path", c.Path(),
			"http_route", c.Route().Path,
			"http_status_code", status,
			"query_params", c.Queries(),
			"request_size", c.Request().Header.ContentLength(),
			"duration", time.Since(started),
		)
		if err != nil {
			entry = entry.With("error", errorFields(errx.AsErrorX(err)))
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			entry.Error("request failed")
		case status >= fiber.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Info("request served")
		}

		return err
	}

	return server.Middleware{Priority: 500, Handler: handler}
}

func errorFields(e errx.ErrorX) map[string]any {
	return map[string]any{
		"code":    e.Code(),
		"type":    e.Type().String(),
		"message": e.Error(),
		"fields":  e.Fields(),
		"details": e.Details(),
		"trace":   e.Trace(),
	}
}
