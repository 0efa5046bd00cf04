// Package cqrs is a generic command/query separated data access layer.
//
// Callers build typed requests (add, update and delete commands; record, list and
// foreign key list queries) and hand them to a Broker. The broker routes built-in
// request shapes to their generic handlers and custom list queries to the handler
// registered for their record type. Every handler opens its own store handle, so
// invocations never share state.
//
// Data conditions (not found, nothing affected, store faults) come back as failed
// results. Configuration problems (no handler registered, unsupported request)
// and cancellation come back as errors.
package cqrs

import (
	"context"
	"reflect"

	"github.com/google/uuid"
)

// Kind names the shape of a request.
type Kind string

const (
	KindAddCommand    Kind = "add_command"
	KindUpdateCommand Kind = "update_command"
	KindDeleteCommand Kind = "delete_command"
	KindRecordQuery   Kind = "record_query"
	KindListQuery     Kind = "list_query"
	KindFKListQuery   Kind = "fk_list_query"
)

const (
	CodeHandlerNotRegistered  = "HANDLER_NOT_REGISTERED"
	CodeRequestNotSupported   = "REQUEST_NOT_SUPPORTED"
	CodeDuplicateRegistration = "DUPLICATE_REGISTRATION"
	CodeCanceled              = "REQUEST_CANCELED"
	CodeResultMismatch        = "RESULT_MISMATCH"
)

// Request is a single-use value that produces exactly one Result.
// Cancellation travels in the context passed to Executor.Execute.
type Request interface {
	// TransactionID is fixed at construction and survives serialization.
	TransactionID() uuid.UUID
	Kind() Kind
	// RecordType is the record type the request operates on.
	RecordType() reflect.Type
}

// Result is the outcome of a request.
type Result interface {
	Success() bool
	Message() string
}

// Executor executes requests. The Broker is the root Executor; wrappers decorate it.
type Executor interface {
	Execute(ctx context.Context, req Request) (Result, error)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, req Request) (Result, error)

func (f ExecutorFunc) Execute(ctx context.Context, req Request) (Result, error) {
	return f(ctx, req)
}

// WrapFunc decorates an Executor with a cross-cutting concern.
type WrapFunc func(Executor) Executor

// Wrap applies wrappers around ex. The first wrapper is the outermost.
func Wrap(ex Executor, wrappers ...WrapFunc) Executor {
	for i := len(wrappers) - 1; i >= 0; i-- {
		ex = wrappers[i](ex)
	}
	return ex
}
