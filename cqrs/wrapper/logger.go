package wrapper

import (
	"context"
	"time"

	"github.com/rise-and-shine/cqsdata/cqrs"
	"github.com/rise-and-shine/cqsdata/logger"
)

// LoggerWrapper logs one line per executed request.
// Errors are logged at error level, failed results at warn level.
type LoggerWrapper struct {
	logger logger.Logger
	next   cqrs.Executor
}

func NewLoggerWrapper(log logger.Logger) cqrs.WrapFunc {
	return func(next cqrs.Executor) cqrs.Executor {
		return &LoggerWrapper{logger: log.Named("cqrs.broker"), next: next}
	}
}

func (w *LoggerWrapper) Execute(ctx context.Context, req cqrs.Request) (cqrs.Result, error) {
	start := time.Now()

	res, err := w.next.Execute(ctx, req)

	log := w.logger.
		WithContext(ctx).
		With("execution_time", time.Since(start).String()).
		With("outcome", outcome(res, err))

	if req != nil {
		log = log.
			With("transaction_id", req.TransactionID().String()).
			With("request_kind", string(req.Kind())).
			With("record_type", recordTypeName(req))
	}

	switch {
	case err != nil:
		log.Errorx(err)
	case res == nil:
		log.Warn("request returned no result")
	case !res.Success():
		log.With("message", res.Message()).Warn("request failed")
	default:
		log.With("message", res.Message()).Info("request executed")
	}

	return res, err
}
