package pkg

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Component identifies a subsystem for log filtering.
type Component string

// Component identifiers.
const (
	ComponentHAL   Component = "hal"   // control-transfer backends
	ComponentCDC   Component = "cdc"   // generic CDC-ACM session
	ComponentCH34x Component = "ch34x" // CH34x vendor command encoder
	ComponentCLI   Component = "cli"   // command-line tools
	ComponentUSBID Component = "usbid" // USB ID database
)

// LogFormat specifies the output format for logging.
type LogFormat int

// Log format options.
const (
	LogFormatText LogFormat = iota // Text format (default)
	LogFormatJSON                  // JSON format
)

var (
	// DefaultLogger is the logger used by all packages in this module.
	DefaultLogger *slog.Logger

	logLevel = new(slog.LevelVar)
	logMutex sync.RWMutex
)

func init() {
	logLevel.Set(slog.LevelWarn)
	DefaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

// SetLogLevel sets the minimum log level.
func SetLogLevel(level slog.Level) {
	logMutex.Lock()
	defer logMutex.Unlock()
	logLevel.Set(level)
}

// GetLogLevel returns the current minimum log level.
func GetLogLevel() slog.Level {
	logMutex.RLock()
	defer logMutex.RUnlock()
	return logLevel.Level()
}

// SetLogger replaces the default logger.
func SetLogger(logger *slog.Logger) {
	logMutex.Lock()
	defer logMutex.Unlock()
	DefaultLogger = logger
}

// SetLogFormat reconfigures the default logger to write the given format to
// os.Stderr at the current log level.
func SetLogFormat(format LogFormat) {
	logMutex.Lock()
	defer logMutex.Unlock()
	opts := &slog.HandlerOptions{Level: logLevel}
	switch format {
	case LogFormatJSON:
		DefaultLogger = slog.New(slog.NewJSONHandler(os.Stderr, opts))
	default:
		DefaultLogger = slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
}

// NewLogger creates a text logger writing to w.
func NewLogger(w io.Writer, opts *slog.HandlerOptions) *slog.Logger {
	if opts == nil {
		opts = &slog.HandlerOptions{Level: logLevel}
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// NewJSONLogger creates a JSON logger writing to w.
func NewJSONLogger(w io.Writer, opts *slog.HandlerOptions) *slog.Logger {
	if opts == nil {
		opts = &slog.HandlerOptions{Level: logLevel}
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func logAt(level slog.Level, component Component, msg string, args []any) {
	logMutex.RLock()
	logger := DefaultLogger
	logMutex.RUnlock()
	if !logger.Enabled(context.Background(), level) {
		return
	}
	logger.Log(context.Background(), level, msg, append([]any{"component", string(component)}, args...)...)
}

// LogDebug logs a debug message tagged with component.
func LogDebug(component Component, msg string, args ...any) {
	logAt(slog.LevelDebug, component, msg, args)
}

// LogInfo logs an info message tagged with component.
func LogInfo(component Component, msg string, args ...any) {
	logAt(slog.LevelInfo, component, msg, args)
}

// LogWarn logs a warning tagged with component.
func LogWarn(component Component, msg string, args ...any) {
	logAt(slog.LevelWarn, component, msg, args)
}

// LogError logs an error tagged with component.
func LogError(component Component, msg string, args ...any) {
	logAt(slog.LevelError, component, msg, args)
}
