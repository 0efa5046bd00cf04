package wrapper

import (
	"context"
	"time"

	"github.com/rcrowley/go-metrics"

	"github.com/rise-and-shine/cqsdata/cqrs"
)

// MetricsWrapper records a timer per request kind and a counter per kind and outcome,
// named "cqrs.<kind>.duration" and "cqrs.<kind>.<outcome>".
type MetricsWrapper struct {
	registry metrics.Registry
	next     cqrs.Executor
}

// NewMetricsWrapper records into registry, or into metrics.DefaultRegistry when nil.
func NewMetricsWrapper(registry metrics.Registry) cqrs.WrapFunc {
	if registry == nil {
		registry = metrics.DefaultRegistry
	}
	return func(next cqrs.Executor) cqrs.Executor {
		return &MetricsWrapper{registry: registry, next: next}
	}
}

func (w *MetricsWrapper) Execute(ctx context.Context, req cqrs.Request) (cqrs.Result, error) {
	if req == nil {
		return w.next.Execute(ctx, req)
	}

	start := time.Now()
	res, err := w.next.Execute(ctx, req)

	prefix := "cqrs." + string(req.Kind())
	metrics.GetOrRegisterTimer(prefix+".duration", w.registry).UpdateSince(start)
	metrics.GetOrRegisterCounter(prefix+"."+outcome(res, err), w.registry).Inc(1)

	return res, err
}
