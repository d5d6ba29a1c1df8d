package logger

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	envLocal = "local"
	envProd  = "prod"
)

var global *zap.Logger = zap.NewNop()

// SetupLogger builds the process-wide zap logger for the given environment
// and installs it as the package global.
func SetupLogger(env string) *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)

	switch env {
	case envLocal:
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		l, err = cfg.Build()
	case envProd:
		l, err = zap.NewProduction()
	default:
		l, err = zap.NewProduction()
	}

	if err != nil {
		log.Fatalf("cannot build logger: %s", err)
	}

	global = l

	return l
}

// Logger returns the process-wide logger.
func Logger() *zap.Logger {
	return global
}

func Info(msg string, fields ...zap.Field) {
	global.Info(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	global.Error(msg, fields...)
}

func Debug(msg string, fields ...zap.Field) {
	global.Debug(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	global.Warn(msg, fields...)
}
