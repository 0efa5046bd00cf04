// Package logger is the structured logger used by every package of the module.
// It is a thin layer over zap's SugaredLogger that knows how to expand errx errors
// and how to pick up request metadata (package meta) from a context.
package logger

import (
	"context"
	"errors"
	"maps"
	"slices"

	"github.com/code19m/errx"
	"go.uber.org/zap"

	"github.com/rise-and-shine/cqsdata/meta"
)

// Logger is implemented by loggers returned from New and FromZap.
type Logger interface {
	Debug(msg any)
	Info(msg any)
	Warn(msg any)
	Error(msg any)
	// Fatal exits the process after logging.
	Fatal(msg any)

	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)

	// Warnx, Errorx and Fatalx log err.Error() with the code, type, trace,
	// fields and details of the errx.ErrorX in its chain, if any.
	Warnx(err error)
	Errorx(err error)
	Fatalx(err error)

	With(keysAndValues ...any) Logger
	// WithContext attaches every meta value found in ctx.
	WithContext(ctx context.Context) Logger
	Named(name string) Logger

	Sync() error
}

type logger struct {
	*zap.SugaredLogger
}

// New builds a zap logger from cfg, or a no-op logger when cfg.Disable is set.
func New(cfg Config) (Logger, error) {
	if cfg.Disable {
		return FromZap(zap.NewNop()), nil
	}

	zc, err := cfg.zapConfig()
	if err != nil {
		return nil, err
	}
	z, err := zc.Build()
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return FromZap(z), nil
}

// FromZap adapts an existing zap logger, typically a zaptest/observer core.
func FromZap(z *zap.Logger) Logger {
	return &logger{SugaredLogger: z.Sugar()}
}

func (l *logger) Debug(msg any) { l.SugaredLogger.Debug(msg) }
func (l *logger) Info(msg any) { l.SugaredLogger.Info(msg) }
func (l *logger) Warn(msg any) { l.SugaredLogger.Warn(msg) }
func (l *logger) Error(msg any) { l.SugaredLogger.Error(msg) }
func (l *logger) Fatal(msg any) { l.SugaredLogger.Fatal(msg) }

func (l *logger) Warnx(err error) { l.errorScoped(err).Warn(err.Error()) }
func (l *logger) Errorx(err error) { l.errorScoped(err).Error(err.Error()) }
func (l *logger) Fatalx(err error) { l.errorScoped(err).Fatal(err.Error()) }

func (l *logger) errorScoped(err error) Logger {
	var e errx.ErrorX
	if !errors.As(err, &e) {
		return l
	}
	return l.With(
		"error_code", e.Code(),
		"error_type", e.Type().String(),
		"error_trace", e.Trace(),
		"error_fields", e.Fields(),
		"error_details", e.Details(),
	)
}

func (l *logger) With(keysAndValues ...any) Logger {
	return &logger{SugaredLogger: l.SugaredLogger.With(keysAndValues...)}
}

func (l *logger) WithContext(ctx context.Context) Logger {
	if ctx == nil {
		return l
	}
	found := meta.ExtractMetaFromContext(ctx)
	if len(found) == 0 {
		return l
	}

	kv := make([]any, 0, 2*len(found)) //nolint:mnd // key and value
	for _, k := range slices.Sorted(maps.Keys(found)) {
		kv = append(kv, string(k), found[k])
	}
	return l.With(kv...)
}

func (l *logger) Named(name string) Logger {
	return &logger{SugaredLogger: l.SugaredLogger.Named(name)}
}
