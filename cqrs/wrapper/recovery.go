package wrapper

import (
	"context"
	"fmt"
	"runtime"

	"github.com/code19m/errx"

	"github.com/rise-and-shine/cqsdata/cqrs"
	"github.com/rise-and-shine/cqsdata/logger"
)

const CodePanicRecovered = "PANIC_RECOVERED"

// RecoveryWrapper turns a panic in a handler into an error. It never fabricates a result.
type RecoveryWrapper struct {
	logger logger.Logger
	next   cqrs.Executor
}

func NewRecoveryWrapper(log logger.Logger) cqrs.WrapFunc {
	return func(next cqrs.Executor) cqrs.Executor {
		return &RecoveryWrapper{logger: log.Named("cqrs.recovery"), next: next}
	}
}

func (w *RecoveryWrapper) Execute(ctx context.Context, req cqrs.Request) (res cqrs.Result, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		stackTrace := make([]byte, 4096) //nolint:mnd // 4KB
		stackTrace = stackTrace[:runtime.Stack(stackTrace, false)]

		w.logger.
			WithContext(ctx).
			With("stack_trace", string(stackTrace)).
			With("panic_values", fmt.Sprintf("%v", r)).
			Error("panic recovered while executing request")

		res = nil
		err = errx.New("panic recovered while executing request",
			errx.WithCode(CodePanicRecovered),
			errx.WithType(errx.T_Internal),
			errx.WithDetails(errx.D{
				"stack_trace":  string(stackTrace),
				"panic_values": fmt.Sprintf("%v", r),
				"request_type": fmt.Sprintf("%T", req),
			}),
		)
	}()

	return w.next.Execute(ctx, req)
}
