// Package hooks contains bun query hooks used by the pg package.
package hooks

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/rise-and-shine/cqsdata/logger"
)

var _ bun.QueryHook = (*DebugHook)(nil)

// DebugHook logs executed queries with their duration and outcome.
// Failed and slow queries are always logged once the hook is enabled;
// successful queries only in verbose mode.
type DebugHook struct {
	enabled            bool
	verbose            bool
	slowQueryThreshold time.Duration
	log                logger.Logger
}

// DebugHookOption configures a DebugHook.
type DebugHookOption func(*DebugHook)

// NewDebugHook creates a hook that is enabled, verbose and treats queries over 100ms as slow.
func NewDebugHook(opts ...DebugHookOption) *DebugHook {
	hook := &DebugHook{
		enabled:            true,
		verbose:            true,
		slowQueryThreshold: 100 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(hook)
	}

	if hook.log == nil {
		hook.log = logger.Named("bun_debug_hook")
	}

	return hook
}

// WithEnabled turns the hook on or off.
func WithEnabled(enabled bool) DebugHookOption {
	return func(h *DebugHook) {
		h.enabled = enabled
	}
}

// WithVerbose controls whether successful queries are logged at debug level.
func WithVerbose(verbose bool) DebugHookOption {
	return func(h *DebugHook) {
		h.verbose = verbose
	}
}

// WithSlowQueryThreshold sets the duration at which queries are logged at warn level.
// Zero disables slow query detection.
func WithSlowQueryThreshold(threshold time.Duration) DebugHookOption {
	return func(h *DebugHook) {
		h.slowQueryThreshold = threshold
	}
}

// WithLogger replaces the global named logger.
func WithLogger(log logger.Logger) DebugHookOption {
	return func(h *DebugHook) {
		h.log = log
	}
}

// BeforeQuery implements bun.QueryHook.
func (h *DebugHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

// AfterQuery implements bun.QueryHook.
func (h *DebugHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	if !h.enabled {
		return
	}

	duration := time.Since(event.StartTime)

	noRows := errors.Is(event.Err, sql.ErrNoRows)
	failed := event.Err != nil && !noRows && !errors.Is(event.Err, sql.ErrTxDone)
	slow := h.slowQueryThreshold > 0 && duration >= h.slowQueryThreshold

	if !h.verbose && !failed && !noRows && !slow {
		return
	}

	entry := h.log.WithContext(ctx).With(
		"operation", event.Operation(),
		"query", strings.ReplaceAll(event.Query, `"`, ""),
		"duration", duration.Round(time.Microsecond),
	)

	if event.Result != nil {
		if n, err := event.Result.RowsAffected(); err == nil {
			entry = entry.With("rows_affected", n)
		}
	}

	msg := "[bun-debug] - " + event.Operation()
	switch {
	case failed:
		entry.With("error", event.Err.Error()).Error(msg)
	case noRows:
		entry.With("error", event.Err.Error()).Warn(msg)
	case slow:
		entry.Warn(msg)
	default:
		entry.Debug(msg)
	}
}
