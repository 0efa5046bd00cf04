package wrapper

import (
	"context"
	"time"

	"github.com/rise-and-shine/cqsdata/cqrs"
)

// TimeoutConfig bounds how long the broker may spend on one request.
type TimeoutConfig struct {
	// Timeout is applied to every request. Zero disables it.
	Timeout time.Duration `yaml:"timeout" default:"30s"`
}

// TimeoutWrapper cancels the request context after a fixed duration.
// Handlers observe it as cancellation.
type TimeoutWrapper struct {
	timeout time.Duration
	next    cqrs.Executor
}

func NewTimeoutWrapper(cfg TimeoutConfig) cqrs.WrapFunc {
	return func(next cqrs.Executor) cqrs.Executor {
		if cfg.Timeout <= 0 {
			return next
		}
		return &TimeoutWrapper{timeout: cfg.Timeout, next: next}
	}
}

func (w *TimeoutWrapper) Execute(ctx context.Context, req cqrs.Request) (cqrs.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	return w.next.Execute(ctx, req)
}
