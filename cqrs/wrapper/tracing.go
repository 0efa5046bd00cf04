package wrapper

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rise-and-shine/cqsdata/cqrs"
)

const tracerName = "cqsdata/cqrs"

// TracingWrapper runs each request in its own span named after the request kind.
type TracingWrapper struct {
	tracer trace.Tracer
	next   cqrs.Executor
}

func NewTracingWrapper() cqrs.WrapFunc {
	return func(next cqrs.Executor) cqrs.Executor {
		return &TracingWrapper{tracer: otel.Tracer(tracerName), next: next}
	}
}

func (w *TracingWrapper) Execute(ctx context.Context, req cqrs.Request) (cqrs.Result, error) {
	if req == nil {
		return w.next.Execute(ctx, req)
	}

	ctx, span := w.tracer.Start(ctx, "cqrs."+string(req.Kind()), trace.WithAttributes(
		attribute.String("cqrs.transaction_id", req.TransactionID().String()),
		attribute.String("cqrs.record_type", recordTypeName(req)),
	))
	defer span.End()

	res, err := w.next.Execute(ctx, req)

	span.SetAttributes(attribute.String("cqrs.outcome", outcome(res, err)))
	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case res == nil:
		span.SetStatus(codes.Error, "no result")
	case !res.Success():
		span.SetStatus(codes.Error, res.Message())
	}

	return res, err
}
