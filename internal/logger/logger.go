// Package logger provides the process-wide structured logger for Sercha.
// Printf-style helpers cover the common case; L returns the underlying
// zap.Logger for call sites that attach typed fields (provider, request id).
// When verbose mode is enabled via the --verbose flag, debug messages
// are emitted so operators can follow the search pipeline.
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format selects the log encoding.
type Format string

const (
	// FormatConsole writes human-readable lines. Used by the CLI.
	FormatConsole Format = "console"
	// FormatJSON writes one JSON object per line. Used by the server.
	FormatJSON Format = "json"
)

type contextKey string

const requestIDKey = contextKey("request_id")

var (
	mu      sync.RWMutex
	verbose bool
	format            = FormatConsole
	output  io.Writer = os.Stderr
	level             = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	base              = build(os.Stderr, FormatConsole)
)

func build(w io.Writer, f Format) *zap.Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	}

	var encoder zapcore.Encoder
	if f == FormatJSON {
		encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), level))
}

// SetVerbose enables or disables debug logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	if v {
		level.SetLevel(zapcore.DebugLevel)
	} else {
		level.SetLevel(zapcore.WarnLevel)
	}
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetLevel sets the minimum level by name ("debug", "info", "warn", "error").
// Unknown names fall back to info.
func SetLevel(name string) {
	mu.Lock()
	defer mu.Unlock()
	switch strings.ToLower(name) {
	case "debug":
		level.SetLevel(zapcore.DebugLevel)
	case "warn":
		level.SetLevel(zapcore.WarnLevel)
	case "error":
		level.SetLevel(zapcore.ErrorLevel)
	default:
		level.SetLevel(zapcore.InfoLevel)
	}
	verbose = level.Level() == zapcore.DebugLevel
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	base = build(w, format)
}

// SetFormat switches between console and JSON encoding.
func SetFormat(f Format) {
	mu.Lock()
	defer mu.Unlock()
	format = f
	base = build(output, f)
}

// L returns the underlying zap logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// With returns a child logger carrying the given fields.
func With(fields ...zap.Field) *zap.Logger {
	return L().With(fields...)
}

// WithRequestID stores a request id on the context for FromContext.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID returns the request id stored on ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// FromContext returns a logger tagged with the request id carried by ctx.
func FromContext(ctx context.Context) *zap.Logger {
	if id := RequestID(ctx); id != "" {
		return L().With(zap.String("request_id", id))
	}
	return L()
}

// Sync flushes buffered entries.
func Sync() {
	_ = L().Sync()
}

// Debug logs a formatted debug message.
func Debug(template string, args ...any) {
	L().Sugar().Debugf(template, args...)
}

// Section logs a section header at debug level.
func Section(name string) {
	L().Debug("=== " + name + " ===")
}

// Info logs a formatted informational message.
func Info(template string, args ...any) {
	L().Sugar().Infof(template, args...)
}

// Warn logs a formatted warning.
func Warn(template string, args ...any) {
	L().Sugar().Warnf(template, args...)
}

// Error logs a formatted error.
func Error(template string, args ...any) {
	L().Sugar().Errorf(template, args...)
}
