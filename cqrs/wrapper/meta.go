package wrapper

import (
	"context"

	"github.com/rise-and-shine/cqsdata/cqrs"
	"github.com/rise-and-shine/cqsdata/meta"
	"github.com/rise-and-shine/cqsdata/tracing"
)

// MetaInjectWrapper stores the request's transaction id, kind and record type,
// the trace id and the service identity in the context.
type MetaInjectWrapper struct {
	serviceName    string
	serviceVersion string
	next           cqrs.Executor
}

func NewMetaInjectWrapper(serviceName, serviceVersion string) cqrs.WrapFunc {
	return func(next cqrs.Executor) cqrs.Executor {
		return &MetaInjectWrapper{serviceName: serviceName, serviceVersion: serviceVersion, next: next}
	}
}

func (w *MetaInjectWrapper) Execute(ctx context.Context, req cqrs.Request) (cqrs.Result, error) {
	if req == nil {
		return w.next.Execute(ctx, req)
	}

	ctx = meta.InjectMetaToContext(ctx, map[meta.ContextKey]string{
		meta.TraceID:        traceID(ctx),
		meta.TransactionID:  req.TransactionID().String(),
		meta.RequestKind:    string(req.Kind()),
		meta.RecordType:     recordTypeName(req),
		meta.ServiceName:    w.serviceName,
		meta.ServiceVersion: w.serviceVersion,
	})

	return w.next.Execute(ctx, req)
}

func traceID(ctx context.Context) string {
	if id := meta.Find(ctx, meta.TraceID); id != "" {
		return id
	}
	return tracing.GetStartingTraceID(ctx)
}
