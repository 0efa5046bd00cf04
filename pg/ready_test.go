package pg_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rise-and-shine/cqsdata/internal/testdb"
	"github.com/rise-and-shine/cqsdata/pg"
)

func TestWaitReady(t *testing.T) {
	cfg := pg.Config{Database: "weather", ReadyAttempts: 3, ReadyDelay: time.Millisecond}

	t.Run("reachable", func(t *testing.T) {
		db := testdb.New(t)
		assert.NoError(t, pg.WaitReady(context.Background(), db, cfg))
	})

	t.Run("closed database", func(t *testing.T) {
		db := testdb.New(t)
		_ = db.Close()
		assert.Error(t, pg.WaitReady(context.Background(), db, cfg))
	})

	t.Run("canceled", func(t *testing.T) {
		db := testdb.New(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.Error(t, pg.WaitReady(ctx, db, cfg))
	})
}
