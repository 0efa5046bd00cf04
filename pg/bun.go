// Package pg opens the PostgreSQL database behind the store layer: a pgx pool
// exposed as a bun.DB with query logging and OpenTelemetry hooks, plus startup
// readiness checks and errx classification of PostgreSQL errors.
package pg

import (
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/extra/bunotel"

	"github.com/rise-and-shine/cqsdata/pg/hooks"
)

// NewBunDB opens a bun.DB over a new pgx pool. Queries are traced always and
// logged when cfg.Debug is set; slow and failed queries are logged at warn and error.
func NewBunDB(cfg Config) (*bun.DB, error) {
	pool, err := NewPool(cfg)
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(stdlib.OpenDBFromPool(pool), pgdialect.New())
	db.AddQueryHook(hooks.NewDebugHook(
		hooks.WithEnabled(cfg.Debug),
		hooks.WithSlowQueryThreshold(cfg.SlowQueryThreshold),
	))
	db.AddQueryHook(bunotel.NewQueryHook(bunotel.WithDBName(cfg.Database)))

	return db, nil
}
