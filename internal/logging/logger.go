// Package logging builds the zap loggers used across the tool.
package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DebugEnv enables debug logging, including raw OCR text, when set to a
// truthy value.
const DebugEnv = "ZWIFT_OCR_DEBUG"

// DebugEnabled reports whether DebugEnv is set to 1, true, yes or on.
func DebugEnabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(DebugEnv))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// New builds a production logger writing JSON to stderr. stdout is left to
// command output and the MCP protocol. An unknown level falls back to info.
func New(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zapcore.InfoLevel
	}
	if DebugEnabled() {
		lvl = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// WithOperation enriches the logger with an operation name and image path.
func WithOperation(logger *zap.Logger, operation, path string) *zap.Logger {
	fields := []zap.Field{zap.String("operation", operation)}
	if path != "" {
		fields = append(fields, zap.String("image", path))
	}
	return logger.With(fields...)
}
