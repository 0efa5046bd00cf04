package server

import (
	"errors"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/cqsdata/cqrs"
	"github.com/rise-and-shine/cqsdata/meta"
)

const codeRouterError = "ROUTER_ERROR"

//nolint:gochecknoglobals // lookup tables
var (
	statusByCode = map[string]int{
		cqrs.CodeCanceled:             fiber.StatusGatewayTimeout,
		cqrs.CodeHandlerNotRegistered: fiber.StatusNotImplemented,
		cqrs.CodeRequestNotSupported:  fiber.StatusNotImplemented,
	}

	statusByType = map[errx.Type]int{
		errx.T_Authentication: fiber.StatusUnauthorized,
		errx.T_Forbidden:      fiber.StatusForbidden,
		errx.T_NotFound:       fiber.StatusNotFound,
		errx.T_Validation:     fiber.StatusBadRequest,
		errx.T_Conflict:       fiber.StatusConflict,
		errx.T_Throttling:     fiber.StatusTooManyRequests,
	}
)

type errorBody struct {
	Code    string            `json:"code"`
	Cause   string            `json:"cause"`
	Trace   string            `json:"trace,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Details map[string]any    `json:"details,omitempty"`
}

type errorEnvelope struct {
	TraceID       string    `json:"trace_id"`
	TransactionID string    `json:"transaction_id"`
	Error         errorBody `json:"error"`
}

// WriteErrorResponse renders err as the JSON error envelope with the status its
// code or type maps to, and returns err converted to errx.ErrorX.
func WriteErrorResponse(c *fiber.Ctx, err error, hideDetails bool) error {
	e := toErrorX(err)

	body := errorBody{Code: e.Code(), Cause: e.Error(), Fields: e.Fields()}
	if !hideDetails {
		body.Trace = e.Trace()
		body.Details = e.Details()
	}

	ctx := c.UserContext()
	_ = c.Status(statusOf(e)).JSON(errorEnvelope{
		TraceID:       meta.Find(ctx, meta.TraceID),
		TransactionID: meta.Find(ctx, meta.TransactionID),
		Error:         body,
	})

	return e
}

// customErrorHandler writes errors that reach the router, unless a middleware
// already produced an error status.
func customErrorHandler(hideDetails bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if c.Response().StatusCode() >= fiber.StatusBadRequest {
			return nil
		}
		_ = WriteErrorResponse(c, err, hideDetails)
		return nil
	}
}

func statusOf(e errx.ErrorX) int {
	if status, ok := statusByCode[e.Code()]; ok {
		return status
	}
	if status, ok := statusByType[e.Type()]; ok {
		return status
	}
	return fiber.StatusInternalServerError
}

// toErrorX converts err to errx.ErrorX. A *fiber.Error gets the type whose status
// matches its code; other 4xx become validation errors.
func toErrorX(err error) errx.ErrorX {
	var fe *fiber.Error
	if !errors.As(err, &fe) {
		return errx.AsErrorX(err)
	}

	typ := errx.T_Internal
	if fe.Code >= fiber.StatusBadRequest && fe.Code < fiber.StatusInternalServerError {
		typ = errx.T_Validation
	}
	for t, status := range statusByType {
		if status == fe.Code {
			typ = t
			break
		}
	}

	return errx.AsErrorX(errx.New(
		fe.Message,
		errx.WithCode(codeRouterError),
		errx.WithType(typ),
		errx.WithDetails(errx.D{"fiber_code": fe.Code, "fiber_msg": fe.Message}),
	))
}
