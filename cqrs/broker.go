package cqrs

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/code19m/errx"
	"github.com/samber/lo"

	"github.com/rise-and-shine/cqsdata/store"
)

// ListHandler executes custom list queries over T.
type ListHandler[T any] interface {
	Handle(ctx context.Context, req Request) (*ListProviderResult[T], error)
}

// ListHandlerFunc adapts a function to ListHandler.
type ListHandlerFunc[T any] func(ctx context.Context, req Request) (*ListProviderResult[T], error)

func (f ListHandlerFunc[T]) Handle(ctx context.Context, req Request) (*ListProviderResult[T], error) {
	return f(ctx, req)
}

// listRequest matches any list query, built-in or custom.
type listRequest interface {
	Request
	Params() ListParams
}

type registration struct {
	recordType reflect.Type
	execute    func(ctx context.Context, req Request) (Result, error)
}

// Broker routes requests to their handlers.
//
// Built-in request shapes go to the generic handlers. Any other list query goes to
// the handler registered for its record type; at most one handler may be registered
// per record type.
type Broker struct {
	opener store.Opener

	mu       sync.RWMutex
	registry map[reflect.Type]registration
}

var _ Executor = (*Broker)(nil)

func NewBroker(opener store.Opener) *Broker {
	return &Broker{
		opener:   opener,
		registry: make(map[reflect.Type]registration),
	}
}

// Execute runs req on a fresh store handle.
//
// The returned error is non-nil only for cancellation, a custom list query without
// a registered handler, or a request shape the broker does not know.
func (b *Broker) Execute(ctx context.Context, req Request) (Result, error) {
	switch r := req.(type) {
	case dispatcher:
		return r.dispatch(ctx, b)

	case listRequest:
		if isNilPointer(req) {
			return nil, unsupported(req)
		}
		reg, ok := b.lookup(r.RecordType())
		if !ok {
			return nil, errx.New(
				fmt.Sprintf("no list query handler registered for %s", r.RecordType()),
				errx.WithCode(CodeHandlerNotRegistered),
				errx.WithType(errx.T_Internal),
				errx.WithDetails(errx.D{
					"request_type":   fmt.Sprintf("%T", req),
					"record_type":    r.RecordType().String(),
					"transaction_id": r.TransactionID().String(),
				}),
			)
		}
		return reg.execute(ctx, r)

	default:
		return nil, unsupported(req)
	}
}

func unsupported(req Request) error {
	return errx.New(
		fmt.Sprintf("request %T is not supported", req),
		errx.WithCode(CodeRequestNotSupported),
		errx.WithType(errx.T_Internal),
	)
}

// isNilPointer reports whether req is a typed nil pointer. Custom queries reach
// their transaction id and record type through the embedded base by value.
func isNilPointer(req Request) bool {
	v := reflect.ValueOf(req)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func (b *Broker) lookup(typ reflect.Type) (registration, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	reg, ok := b.registry[typ]
	return reg, ok
}

// RegisteredTypes lists the record types that have a custom list handler, sorted by name.
func (b *Broker) RegisteredTypes() []reflect.Type {
	b.mu.RLock()
	defer b.mu.RUnlock()

	types := lo.Map(lo.Values(b.registry), func(r registration, _ int) reflect.Type {
		return r.recordType
	})
	sort.Slice(types, func(i, j int) bool { return types[i].String() < types[j].String() })
	return types
}

// RegisterListQueryHandler registers h for custom list queries over T.
// A second registration for the same T is rejected.
func RegisterListQueryHandler[T any](b *Broker, h ListHandler[T]) error {
	typ := reflect.TypeFor[T]()

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.registry[typ]; exists {
		return errx.New(
			fmt.Sprintf("list query handler for %s is already registered", typ),
			errx.WithCode(CodeDuplicateRegistration),
			errx.WithType(errx.T_Internal),
			errx.WithDetails(errx.D{"record_type": typ.String()}),
		)
	}

	b.registry[typ] = registration{
		recordType: typ,
		execute: func(ctx context.Context, req Request) (Result, error) {
			res, err := h.Handle(ctx, req)
			return asResult(res, err)
		},
	}
	return nil
}

// MustRegisterListQueryHandler is RegisterListQueryHandler for startup code; it panics on error.
func MustRegisterListQueryHandler[T any](b *Broker, h ListHandler[T]) {
	if err := RegisterListQueryHandler[T](b, h); err != nil {
		panic(err)
	}
}

// Dispatch executes req and asserts the result type.
func Dispatch[R Result](ctx context.Context, ex Executor, req Request) (R, error) {
	var zero R

	res, err := ex.Execute(ctx, req)
	if err != nil {
		return zero, errx.Wrap(err)
	}

	typed, ok := res.(R)
	if !ok {
		return zero, errx.New(
			fmt.Sprintf("unexpected result %T, want %T", res, zero),
			errx.WithCode(CodeResultMismatch),
			errx.WithType(errx.T_Internal),
		)
	}
	return typed, nil
}
