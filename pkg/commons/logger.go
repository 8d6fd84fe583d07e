// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package commons

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// =============================================================================
// Logger Interface
// =============================================================================

// Logger is the logging contract shared by every component in this module.
type Logger interface {
	Level() zapcore.Level
	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	DPanic(args ...interface{})
	DPanicf(template string, args ...interface{})
	Panic(args ...interface{})
	Panicf(template string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(template string, args ...interface{})
	Benchmark(functionName string, duration time.Duration)
	Tracef(ctx context.Context, format string, args ...interface{})
	Sync() error
}

// =============================================================================
// Trace Context
// =============================================================================

type traceIDKey struct{}

// ContextWithTraceID attaches a trace identifier to ctx so that Tracef calls
// made anywhere below can correlate their output to a single normalize call.
func ContextWithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, id)
}

// TraceIDFromContext returns the trace identifier stored by
// ContextWithTraceID, or the empty string.
func TraceIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(traceIDKey{}).(string); ok {
		return id
	}
	return ""
}

// =============================================================================
// Application Logger
// =============================================================================

type applicationLogger struct {
	sugar *zap.SugaredLogger
	level zapcore.Level
}

// LoggerOption customizes the application logger.
type LoggerOption func(*loggerOptions)

type loggerOptions struct {
	fileName   string
	maxSizeMB  int
	maxBackups int
	maxAgeDays int
}

// WithRotatingFile mirrors log output into a size-rotated file.
func WithRotatingFile(fileName string, maxSizeMB, maxBackups, maxAgeDays int) LoggerOption {
	return func(o *loggerOptions) {
		o.fileName = fileName
		o.maxSizeMB = maxSizeMB
		o.maxBackups = maxBackups
		o.maxAgeDays = maxAgeDays
	}
}

// NewApplicationLogger builds a zap-backed Logger for the given service name
// and level ("debug", "info", "warn", "error"). Unknown levels fall back to
// info.
func NewApplicationLogger(name, level string, opts ...LoggerOption) Logger {
	var o loggerOptions
	for _, opt := range opts {
		opt(&o)
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewConsoleEncoder(encCfg)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), lvl),
	}
	if o.fileName != "" {
		rotated := &lumberjack.Logger{
			Filename:   o.fileName,
			MaxSize:    o.maxSizeMB,
			MaxBackups: o.maxBackups,
			MaxAge:     o.maxAgeDays,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(rotated), lvl))
	}

	logger := zap.New(zapcore.NewTee(cores...)).Named(name)
	return &applicationLogger{sugar: logger.Sugar(), level: lvl}
}

// NewNopLogger returns a Logger that discards everything. Intended for tests
// and for callers that wire their own observability.
func NewNopLogger() Logger {
	return &applicationLogger{sugar: zap.NewNop().Sugar(), level: zapcore.InvalidLevel}
}

func (l *applicationLogger) Level() zapcore.Level { return l.level }

func (l *applicationLogger) Debug(args ...interface{})                    { l.sugar.Debug(args...) }
func (l *applicationLogger) Debugf(t string, args ...interface{})         { l.sugar.Debugf(t, args...) }
func (l *applicationLogger) Info(args ...interface{})                     { l.sugar.Info(args...) }
func (l *applicationLogger) Infof(t string, args ...interface{})          { l.sugar.Infof(t, args...) }
func (l *applicationLogger) Warn(args ...interface{})                     { l.sugar.Warn(args...) }
func (l *applicationLogger) Warnf(t string, args ...interface{})          { l.sugar.Warnf(t, args...) }
func (l *applicationLogger) Error(args ...interface{})                    { l.sugar.Error(args...) }
func (l *applicationLogger) Errorf(t string, args ...interface{})         { l.sugar.Errorf(t, args...) }
func (l *applicationLogger) DPanic(args ...interface{})                   { l.sugar.DPanic(args...) }
func (l *applicationLogger) DPanicf(t string, args ...interface{})        { l.sugar.DPanicf(t, args...) }
func (l *applicationLogger) Panic(args ...interface{})                    { l.sugar.Panic(args...) }
func (l *applicationLogger) Panicf(t string, args ...interface{})         { l.sugar.Panicf(t, args...) }
func (l *applicationLogger) Fatal(args ...interface{})                    { l.sugar.Fatal(args...) }
func (l *applicationLogger) Fatalf(t string, args ...interface{})         { l.sugar.Fatalf(t, args...) }

func (l *applicationLogger) Benchmark(functionName string, duration time.Duration) {
	l.sugar.Debugf("benchmark: %s took %s", functionName, duration)
}

func (l *applicationLogger) Tracef(ctx context.Context, format string, args ...interface{}) {
	if id := TraceIDFromContext(ctx); id != "" {
		l.sugar.Debugf("[%s] "+format, append([]interface{}{id}, args...)...)
		return
	}
	l.sugar.Debugf(format, args...)
}

func (l *applicationLogger) Sync() error { return l.sugar.Sync() }
