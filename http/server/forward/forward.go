// Package forward adapts broker requests to Fiber handlers.
//
// Each helper decodes the HTTP request into a cqrs request, dispatches it through
// an executor and writes the result as JSON. A client may pass its own
// transaction id in the X-Transaction-ID header; the id is echoed on every
// response. Failure results become errors typed by request kind, so the error
// middleware picks the status code.
package forward

import (
	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/rise-and-shine/cqsdata/cqrs"
	"github.com/rise-and-shine/cqsdata/meta"
)

const (
	// HeaderTransactionID carries the transaction id of a request and its response.
	HeaderTransactionID = "X-Transaction-ID"

	// ParamUID is the path parameter holding a record uid.
	ParamUID = "uid"
)

const (
	CodeInvalidTransactionID = "INVALID_TRANSACTION_ID"
	CodeInvalidContentType   = "INVALID_CONTENT_TYPE"
	CodeInvalidJSONBody      = "INVALID_JSON_BODY"
	CodeInvalidPathParams    = "INVALID_PATH_PARAMS"
	CodeInvalidQueryParams   = "INVALID_QUERY_PARAMS"
	CodeRequestFailed        = "REQUEST_FAILED"
)

// requestOptions reuses the client's transaction id when the header is present.
func requestOptions(c *fiber.Ctx) ([]cqrs.RequestOption, error) {
	raw := c.Get(HeaderTransactionID)
	if raw == "" {
		return nil, nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, errx.Wrap(err,
			errx.WithType(errx.T_Validation),
			errx.WithCode(CodeInvalidTransactionID),
			errx.WithDetails(errx.D{"header": raw}),
		)
	}
	return []cqrs.RequestOption{cqrs.WithTransactionID(id)}, nil
}

// bind records the transaction id of req on the response and in the request context.
func bind(c *fiber.Ctx, req cqrs.Request) {
	id := req.TransactionID().String()
	c.Set(HeaderTransactionID, id)
	c.SetUserContext(meta.InjectMetaToContext(c.UserContext(), map[meta.ContextKey]string{
		meta.TransactionID: id,
	}))
}

// pathUID parses the uid path parameter.
func pathUID(c *fiber.Ctx) (uuid.UUID, error) {
	raw := c.Params(ParamUID)

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errx.Wrap(err,
			errx.WithType(errx.T_Validation),
			errx.WithCode(CodeInvalidPathParams),
			errx.WithFields(errx.M{ParamUID: "must be a valid uuid"}),
		)
	}
	return id, nil
}

// decodeBody decodes a JSON request body into a T.
func decodeBody[T any](c *fiber.Ctx) (T, error) {
	var record T

	if c.Get(fiber.HeaderContentType) != fiber.MIMEApplicationJSON {
		return record, errx.New(
			"content type must be application/json for this request",
			errx.WithType(errx.T_Validation),
			errx.WithCode(CodeInvalidContentType),
		)
	}

	if err := c.BodyParser(&record); err != nil {
		return record, errx.Wrap(err,
			errx.WithType(errx.T_Validation),
			errx.WithCode(CodeInvalidJSONBody),
		)
	}

	return record, nil
}

// failure converts an unsuccessful result into an error of type t.
func failure(req cqrs.Request, res cqrs.Result, t errx.Type) error {
	return errx.New(res.Message(),
		errx.WithType(t),
		errx.WithCode(CodeRequestFailed),
		errx.WithDetails(errx.D{
			"transaction_id": req.TransactionID().String(),
			"request_kind":   string(req.Kind()),
		}),
	)
}
