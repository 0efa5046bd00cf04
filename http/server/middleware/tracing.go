package middleware

import (
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.23.1"
	"go.opentelemetry.io/otel/trace"

	"github.com/rise-and-shine/cqsdata/http/server"
)

const tracerName = "cqsdata/http"

// NewTracingMW opens a server span per request. The span is renamed to
// "METHOD /route/pattern" once routing has matched.
func NewTracingMW() server.Middleware {
	tracer := otel.Tracer(tracerName)

	handler := func(c *fiber.Ctx) error {
		method := c.Method()
		ctx, span := tracer.Start(c.UserContext(), method, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()
		c.SetUserContext(ctx)

		err := c.Next()

		route := c.Route().Path
		status := c.Response().StatusCode()
		if route != "" {
			span.SetName(method + " " + route)
		}
		span.SetAttributes(
			semconv.HTTPRequestMethodKey.String(method),
			semconv.HTTPRouteKey.String(route),
			semconv.URLPathKey.String(c.Path()),
			semconv.HTTPResponseStatusCodeKey.Int(status),
		)

		switch {
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		case status >= fiber.StatusInternalServerError:
			span.SetStatus(codes.Error, fiber.ErrInternalServerError.Message)
		}

		return err
	}

	return server.Middleware{Priority: 900, Handler: handler}
}
