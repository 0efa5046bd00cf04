package forward

import (
	"net/url"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/rise-and-shine/cqsdata/cqrs"
	"github.com/rise-and-shine/cqsdata/wire"
)

// ListBuilder builds the list request served by ToList from the decoded page
// parameters. It may read further values, such as path parameters, from c.
type ListBuilder[T any] func(c *fiber.Ctx, params cqrs.ListParams, opts ...cqrs.RequestOption) (cqrs.ListRequest[T], error)

// GenericList builds the built-in list query over T.
func GenericList[T any](_ *fiber.Ctx, params cqrs.ListParams, opts ...cqrs.RequestOption) (cqrs.ListRequest[T], error) {
	return cqrs.NewListQuery[T](params, opts...), nil
}

// RecordResponse is the body written for a found record.
type RecordResponse[T any] struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	Record        T         `json:"record"`
}

// FKListResponse is the body written for a reference list.
type FKListResponse struct {
	TransactionID uuid.UUID     `json:"transaction_id"`
	Items         []cqrs.FKItem `json:"items"`
}

// ToRecord serves the record whose uid is in the path. A missing record is a 404.
func ToRecord[T any](ex cqrs.Executor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid, err := pathUID(c)
		if err != nil {
			return errx.Wrap(err)
		}

		opts, err := requestOptions(c)
		if err != nil {
			return errx.Wrap(err)
		}

		q := cqrs.NewRecordQuery[T](uid, opts...)
		bind(c, q)

		res, err := cqrs.Dispatch[*cqrs.RecordProviderResult[T]](c.UserContext(), ex, q)
		if err != nil {
			return errx.Wrap(err)
		}

		record, ok := res.Record()
		if !ok {
			return failure(q, res, errx.T_NotFound)
		}

		return errx.Wrap(c.JSON(RecordResponse[T]{TransactionID: q.TransactionID(), Record: record}))
	}
}

// ToList serves a page of T. Page parameters come from the query string, see
// wire.ListParamsFromValues; filter and sort fields are limited to allowedFields.
func ToList[T any](ex cqrs.Executor, cfg wire.PageConfig, build ListBuilder[T], allowedFields ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		values, err := url.ParseQuery(string(c.Request().URI().QueryString()))
		if err != nil {
			return errx.Wrap(err, errx.WithType(errx.T_Validation), errx.WithCode(CodeInvalidQueryParams))
		}

		params, err := wire.ListParamsFromValues(values, cfg, allowedFields...)
		if err != nil {
			return errx.Wrap(err)
		}

		opts, err := requestOptions(c)
		if err != nil {
			return errx.Wrap(err)
		}

		q, err := build(c, params, opts...)
		if err != nil {
			return errx.Wrap(err)
		}
		bind(c, q)

		res, err := cqrs.Dispatch[*cqrs.ListProviderResult[T]](c.UserContext(), ex, q)
		if err != nil {
			return errx.Wrap(err)
		}
		if !res.Success() {
			return failure(q, res, errx.T_Validation)
		}

		return errx.Wrap(c.JSON(wire.NewListResponse(q, res)))
	}
}

// ToFKList serves every record of T as an {id, name} reference.
func ToFKList[T cqrs.FKRecord](ex cqrs.Executor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		opts, err := requestOptions(c)
		if err != nil {
			return errx.Wrap(err)
		}

		q := cqrs.NewFKListQuery[T](opts...)
		bind(c, q)

		res, err := cqrs.Dispatch[*cqrs.FKListProviderResult](c.UserContext(), ex, q)
		if err != nil {
			return errx.Wrap(err)
		}
		if !res.Success() {
			return failure(q, res, errx.T_Internal)
		}

		return errx.Wrap(c.JSON(FKListResponse{TransactionID: q.TransactionID(), Items: res.Items()}))
	}
}
