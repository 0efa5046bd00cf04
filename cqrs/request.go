package cqrs

import (
	"context"
	"reflect"

	"github.com/google/uuid"

	"github.com/rise-and-shine/cqsdata/filter"
)

// RequestOption configures a request at construction.
type RequestOption func(*envelope)

// WithTransactionID keeps an existing transaction id, typically one decoded from
// the wire, instead of generating a new one.
func WithTransactionID(id uuid.UUID) RequestOption {
	return func(e *envelope) {
		e.txID = id
	}
}

type envelope struct {
	txID uuid.UUID
}

func newEnvelope(opts []RequestOption) envelope {
	e := envelope{txID: uuid.New()}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func (e envelope) TransactionID() uuid.UUID {
	return e.txID
}

// dispatcher is implemented by the built-in request shapes only. Custom list
// queries embed ListQueryBase, which does not implement it, so they are routed
// through the registry.
type dispatcher interface {
	Request
	dispatch(ctx context.Context, b *Broker) (Result, error)
}

type command[T any] struct {
	envelope
	record T
}

func (c command[T]) Record() T {
	return c.record
}

func (c command[T]) RecordType() reflect.Type {
	return reflect.TypeFor[T]()
}

// AddCommand inserts its record.
type AddCommand[T any] struct{ command[T] }

// UpdateCommand replaces the stored record with the same key.
type UpdateCommand[T any] struct{ command[T] }

// DeleteCommand removes the stored record with the same key.
type DeleteCommand[T any] struct{ command[T] }

func NewAddCommand[T any](record T, opts ...RequestOption) *AddCommand[T] {
	return &AddCommand[T]{command[T]{envelope: newEnvelope(opts), record: record}}
}

func NewUpdateCommand[T any](record T, opts ...RequestOption) *UpdateCommand[T] {
	return &UpdateCommand[T]{command[T]{envelope: newEnvelope(opts), record: record}}
}

func NewDeleteCommand[T any](record T, opts ...RequestOption) *DeleteCommand[T] {
	return &DeleteCommand[T]{command[T]{envelope: newEnvelope(opts), record: record}}
}

func (*AddCommand[T]) Kind() Kind { return KindAddCommand }
func (*UpdateCommand[T]) Kind() Kind { return KindUpdateCommand }
func (*DeleteCommand[T]) Kind() Kind { return KindDeleteCommand }

func (c *AddCommand[T]) dispatch(ctx context.Context, b *Broker) (Result, error) {
	res, err := NewAddHandler[T](b.opener).Execute(ctx, c)
	return asResult(res, err)
}

func (c *UpdateCommand[T]) dispatch(ctx context.Context, b *Broker) (Result, error) {
	res, err := NewUpdateHandler[T](b.opener).Execute(ctx, c)
	return asResult(res, err)
}

func (c *DeleteCommand[T]) dispatch(ctx context.Context, b *Broker) (Result, error) {
	res, err := NewDeleteHandler[T](b.opener).Execute(ctx, c)
	return asResult(res, err)
}

// RecordQuery fetches one record by Uid.
type RecordQuery[T any] struct {
	envelope
	uid uuid.UUID
}

func NewRecordQuery[T any](uid uuid.UUID, opts ...RequestOption) *RecordQuery[T] {
	return &RecordQuery[T]{envelope: newEnvelope(opts), uid: uid}
}

func (q *RecordQuery[T]) UID() uuid.UUID { return q.uid }
func (*RecordQuery[T]) Kind() Kind { return KindRecordQuery }
func (*RecordQuery[T]) RecordType() reflect.Type { return reflect.TypeFor[T]() }

func (q *RecordQuery[T]) dispatch(ctx context.Context, b *Broker) (Result, error) {
	res, err := NewRecordQueryHandler[T](b.opener).Execute(ctx, q)
	return asResult(res, err)
}

// ListParams selects a page of a filtered, sorted record set.
type ListParams struct {
	// StartIndex is the number of matching records to skip.
	StartIndex int `json:"start_index" validate:"gte=0"`
	// PageSize is the maximum number of records returned. Zero returns the whole set.
	PageSize int         `json:"page_size" validate:"gte=0"`
	Filter   filter.Expr `json:"filter"`
	Sort     filter.Sort `json:"sort"`
}

// ListRequest is a list query over T, built-in or custom.
type ListRequest[T any] interface {
	Request
	Params() ListParams
	listOf() T
}

// ListQueryBase holds what every list query over T carries. Custom list queries
// embed it and are dispatched to the handler registered for T.
type ListQueryBase[T any] struct {
	envelope
	params ListParams
}

// NewListQueryBase builds the base a custom list query embeds.
func NewListQueryBase[T any](params ListParams, opts ...RequestOption) ListQueryBase[T] {
	return ListQueryBase[T]{envelope: newEnvelope(opts), params: params}
}

func (b ListQueryBase[T]) Params() ListParams { return b.params }
func (ListQueryBase[T]) Kind() Kind { return KindListQuery }
func (ListQueryBase[T]) RecordType() reflect.Type { return reflect.TypeFor[T]() }

func (ListQueryBase[T]) listOf() T {
	var zero T
	return zero
}

// ListQuery is the generic list query, handled by ListQueryHandler.
type ListQuery[T any] struct {
	ListQueryBase[T]
}

func NewListQuery[T any](params ListParams, opts ...RequestOption) *ListQuery[T] {
	return &ListQuery[T]{ListQueryBase: NewListQueryBase[T](params, opts...)}
}

func (q *ListQuery[T]) dispatch(ctx context.Context, b *Broker) (Result, error) {
	res, err := NewListQueryHandler[T](b.opener).Execute(ctx, q)
	return asResult(res, err)
}

// FKListQuery lists every record of T as an {ID, Name} reference.
type FKListQuery[T FKRecord] struct {
	envelope
}

func NewFKListQuery[T FKRecord](opts ...RequestOption) *FKListQuery[T] {
	return &FKListQuery[T]{envelope: newEnvelope(opts)}
}

func (*FKListQuery[T]) Kind() Kind { return KindFKListQuery }
func (*FKListQuery[T]) RecordType() reflect.Type { return reflect.TypeFor[T]() }

func (q *FKListQuery[T]) dispatch(ctx context.Context, b *Broker) (Result, error) {
	res, err := NewFKListQueryHandler[T](b.opener).Execute(ctx, q)
	return asResult(res, err)
}

var (
	_ dispatcher = (*AddCommand[struct{}])(nil)
	_ dispatcher = (*UpdateCommand[struct{}])(nil)
	_ dispatcher = (*DeleteCommand[struct{}])(nil)
	_ dispatcher = (*RecordQuery[struct{}])(nil)
	_ dispatcher = (*ListQuery[struct{}])(nil)

	_ ListRequest[struct{}] = (*ListQuery[struct{}])(nil)
	_ ListRequest[struct{}] = ListQueryBase[struct{}]{}
)
