// Package wire carries queries and their results across a process boundary.
//
// Envelopes hold the transport-safe form of a request: the transaction id, paging
// values, the JSON predicate and a "field:asc|desc" sort string. Decoding an
// envelope validates the predicate and sort against the allowed fields and rebuilds
// the request with its original transaction id, so handlers only ever see native
// filter values.
package wire

import (
	"github.com/code19m/errx"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/rise-and-shine/cqsdata/cqrs"
	"github.com/rise-and-shine/cqsdata/filter"
)

//nolint:gochecknoglobals // shared codec configuration
var json = jsoniter.ConfigCompatibleWithStandardLibrary

const CodeInvalidEnvelope = "INVALID_ENVELOPE"

// ListQueryEnvelope is the wire form of a list query.
type ListQueryEnvelope struct {
	TransactionID uuid.UUID    `json:"transaction_id"`
	StartIndex    int          `json:"start_index"`
	PageSize      int          `json:"page_size"`
	Filter        *filter.Expr `json:"filter,omitempty"`
	Sort          string       `json:"sort,omitempty"`
}

// RecordQueryEnvelope is the wire form of a record query.
type RecordQueryEnvelope struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	UID           uuid.UUID `json:"uid"`
}

type listSource interface {
	TransactionID() uuid.UUID
	Params() cqrs.ListParams
}

// NewListQueryEnvelope captures a built-in or custom list query.
func NewListQueryEnvelope(q listSource) ListQueryEnvelope {
	params := q.Params()
	env := ListQueryEnvelope{
		TransactionID: q.TransactionID(),
		StartIndex:    params.StartIndex,
		PageSize:      params.PageSize,
		Sort:          params.Sort.String(),
	}
	if !params.Filter.IsZero() {
		f := params.Filter
		env.Filter = &f
	}
	return env
}

// EncodeListQuery renders q as JSON.
func EncodeListQuery(q listSource) ([]byte, error) {
	data, err := json.Marshal(NewListQueryEnvelope(q))
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return data, nil
}

// DecodeListEnvelope parses a list query envelope without interpreting it.
func DecodeListEnvelope(data []byte) (ListQueryEnvelope, error) {
	var env ListQueryEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return ListQueryEnvelope{}, errx.Wrap(err,
			errx.WithCode(CodeInvalidEnvelope),
			errx.WithType(errx.T_Validation),
		)
	}
	return env, nil
}

// Params converts the envelope into native list parameters. When allowedFields is
// given, the predicate and sort may only reference those fields.
func (e ListQueryEnvelope) Params(allowedFields ...string) (cqrs.ListParams, error) {
	params := cqrs.ListParams{
		StartIndex: e.StartIndex,
		PageSize:   e.PageSize,
	}

	if e.Filter != nil {
		if err := e.Filter.Validate(allowedFields...); err != nil {
			return cqrs.ListParams{}, errx.Wrap(err)
		}
		params.Filter = *e.Filter
	}

	if e.Sort != "" {
		s, ok := filter.ParseSort(e.Sort, allowedFields...)
		if !ok {
			return cqrs.ListParams{}, errx.New(
				"invalid sort",
				errx.WithCode(CodeInvalidEnvelope),
				errx.WithType(errx.T_Validation),
				errx.WithDetails(errx.D{"sort": e.Sort}),
			)
		}
		params.Sort = s
	}

	return params, nil
}

// Options returns the request options that keep the envelope's transaction id.
func (e ListQueryEnvelope) Options() []cqrs.RequestOption {
	return transactionOptions(e.TransactionID)
}

// DecodeListQuery rebuilds a generic list query over T from its JSON form.
func DecodeListQuery[T any](data []byte, allowedFields ...string) (*cqrs.ListQuery[T], error) {
	env, err := DecodeListEnvelope(data)
	if err != nil {
		return nil, err
	}

	params, err := env.Params(allowedFields...)
	if err != nil {
		return nil, err
	}

	return cqrs.NewListQuery[T](params, env.Options()...), nil
}

// EncodeRecordQuery renders q as JSON.
func EncodeRecordQuery[T any](q *cqrs.RecordQuery[T]) ([]byte, error) {
	data, err := json.Marshal(RecordQueryEnvelope{TransactionID: q.TransactionID(), UID: q.UID()})
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return data, nil
}

// DecodeRecordQuery rebuilds a record query over T from its JSON form.
func DecodeRecordQuery[T any](data []byte) (*cqrs.RecordQuery[T], error) {
	var env RecordQueryEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errx.Wrap(err, errx.WithCode(CodeInvalidEnvelope), errx.WithType(errx.T_Validation))
	}
	return cqrs.NewRecordQuery[T](env.UID, transactionOptions(env.TransactionID)...), nil
}

// transactionOptions keeps id unless it is missing, in which case a fresh one is generated.
func transactionOptions(id uuid.UUID) []cqrs.RequestOption {
	if id == uuid.Nil {
		return nil
	}
	return []cqrs.RequestOption{cqrs.WithTransactionID(id)}
}
