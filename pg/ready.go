package pg

import (
	"context"

	"github.com/avast/retry-go/v4"
	"github.com/code19m/errx"
	"github.com/uptrace/bun"

	"github.com/rise-and-shine/cqsdata/logger"
)

const codeNotReady = "DATABASE_NOT_READY"

// WaitReady pings db until it answers, backing off between attempts.
// It gives up after cfg.ReadyAttempts or when ctx is done.
func WaitReady(ctx context.Context, db *bun.DB, cfg Config) error {
	log := logger.Named("pg.ready").WithContext(ctx)

	err := retry.Do(
		func() error {
			return db.PingContext(ctx)
		},
		retry.Attempts(cfg.ReadyAttempts),
		retry.Delay(cfg.ReadyDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.With("attempt", n+1).
				With("max_attempts", cfg.ReadyAttempts).
				With("error", err.Error()).
				Warn("database not ready, retrying")
		}),
		retry.Context(ctx),
	)
	if err != nil {
		return errx.Wrap(err, errx.WithCode(codeNotReady), errx.WithDetails(errx.D{
			"host":     cfg.Host,
			"database": cfg.Database,
		}))
	}
	return nil
}
