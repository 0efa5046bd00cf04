package logger

import (
	"github.com/code19m/errx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	encConsole = "console"
	encJSON    = "json"
	levelDebug = "debug"
)

// Config controls the level and output format of loggers built by New.
type Config struct {
	// Level is the minimum enabled level: debug, info, warn or error.
	Level string `yaml:"level" validate:"oneof=debug info warn error" default:"debug"`
	// Encoding is json for log shippers or console for colored local output.
	Encoding string `yaml:"encoding" validate:"oneof=json console" default:"json"`
	// Disable makes New return a no-op logger.
	Disable bool `yaml:"disable" default:"false"`
}

func (c Config) zapConfig() (*zap.Config, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"level": c.Level}))
	}

	enc := zap.NewProductionEncoderConfig()
	enc.MessageKey = "msg"
	enc.TimeKey = "time"
	enc.EncodeTime = zapcore.RFC3339TimeEncoder
	enc.EncodeDuration = zapcore.StringDurationEncoder
	enc.CallerKey = zapcore.OmitKey
	enc.StacktraceKey = zapcore.OmitKey
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	if c.Encoding == encConsole {
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	return &zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         c.Encoding,
		EncoderConfig:    enc,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}, nil
}
