package logger

import (

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log = zap.NewNop()

// Init installs a JSON logger writing to stdout at the given level.
// Unknown levels fall back to info.
func Init(level string) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stdout"}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return
	}
	log = l
	log.Info("logger initialized", zap.String("level", lvl.String()))
}

// Set replaces the process logger. Used by tests and embedders.
func Set(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	log = l
}

// L returns the underlying zap logger.
func L() *zap.Logger {
	return log
}

func Sync() {
	_ = log.Sync()
}

func Debug(msg string, fields map[string]any) {
	log.Debug(msg, toZap(fields)...)
}

func Info(msg string, fields map[string]any) {
	log.Info(msg, toZap(fields)...)
}

func Warn(msg string, fields map[string]any) {
	log.Warn(msg, toZap(fields)...)
}

func Error(msg string, fields map[string]any) {
	log.Error(msg, toZap(fields)...)
}

func toZap(fields map[string]any) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		if err, ok := v.(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, v))
	}
	return out
}
