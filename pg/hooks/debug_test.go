package hooks_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rise-and-shine/cqsdata/logger"
	"github.com/rise-and-shine/cqsdata/pg/hooks"
)

func newObserved() (logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logger.FromZap(zap.New(core)), logs
}

func TestDebugHook(t *testing.T) {
	tests := []struct {
		name      string
		opts      []hooks.DebugHookOption
		err       error
		age       time.Duration
		wantLevel zapcore.Level
		wantLogs  int
	}{
		{name: "verbose success", wantLevel: zapcore.DebugLevel, wantLogs: 1},
		{name: "quiet success", opts: []hooks.DebugHookOption{hooks.WithVerbose(false)}, wantLogs: 0},
		{name: "disabled", opts: []hooks.DebugHookOption{hooks.WithEnabled(false)}, err: errors.New("boom"), wantLogs: 0},
		{name: "failure", opts: []hooks.DebugHookOption{hooks.WithVerbose(false)}, err: errors.New("boom"), wantLevel: zapcore.ErrorLevel, wantLogs: 1},
		{name: "no rows", err: sql.ErrNoRows, wantLevel: zapcore.WarnLevel, wantLogs: 1},
		{name: "tx done is not a failure", opts: []hooks.DebugHookOption{hooks.WithVerbose(false)}, err: sql.ErrTxDone, wantLogs: 0},
		{
			name:      "slow",
			opts:      []hooks.DebugHookOption{hooks.WithVerbose(false), hooks.WithSlowQueryThreshold(time.Millisecond)},
			age:       time.Second,
			wantLevel: zapcore.WarnLevel,
			wantLogs:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, logs := newObserved()
			hook := hooks.NewDebugHook(append(tt.opts, hooks.WithLogger(log))...)

			hook.AfterQuery(context.Background(), &bun.QueryEvent{
				Query:     `SELECT "uid" FROM "weather_forecasts"`,
				StartTime: time.Now().Add(-tt.age),
				Err:       tt.err,
			})

			require.Equal(t, tt.wantLogs, logs.Len())
			if tt.wantLogs == 0 {
				return
			}
			entry := logs.All()[0]
			assert.Equal(t, tt.wantLevel, entry.Level)
			assert.Equal(t, "SELECT uid FROM weather_forecasts", entry.ContextMap()["query"])
		})
	}
}
