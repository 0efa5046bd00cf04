package logger

import (
	"context"
	"sync"
)

//nolint:gochecknoglobals // process-wide logger
var (
	mu       sync.RWMutex
	global   Logger
	assigned bool
)

// SetGlobal replaces the process-wide logger. Calling it twice panics, as does an
// invalid cfg.
func SetGlobal(cfg Config) {
	l, err := New(cfg)
	if err != nil {
		panic("[logger]: failed to initialize global logger: " + err.Error())
	}

	mu.Lock()
	defer mu.Unlock()
	if assigned {
		panic("[logger]: SetGlobal can only be called once")
	}
	global, assigned = l, true
}

func Info(msg any) { current().Info(msg) }
func Warn(msg any) { current().Warn(msg) }
func Errorx(err error) { current().Errorx(err) }
func Fatalx(err error) { current().Fatalx(err) }
func With(keysAndValues ...any) Logger { return current().With(keysAndValues...) }
func WithContext(ctx context.Context) Logger { return current().WithContext(ctx) }
func Named(name string) Logger { return current().Named(name) }
func Sync() error { return current().Sync() }

// current returns the global logger, falling back to a debug-level JSON logger
// until SetGlobal runs.
func current() Logger {
	mu.RLock()
	l := global
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if global == nil {
		fallback, err := New(Config{Level: levelDebug, Encoding: encJSON})
		if err != nil {
			panic("[logger]: failed to initialize default logger: " + err.Error())
		}
		global = fallback
	}
	return global
}
