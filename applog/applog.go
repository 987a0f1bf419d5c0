// Package applog is the embedding application's own logging runtime. It is
// deliberately separate from the console sink in the root package: the sink
// persists a page's console verbatim and never logs about itself, while the
// application's diagnostics go through [log/slog] here, rotated by
// lumberjack. Component filtering lets a debug build narrow the output to
// one subsystem.
package applog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger   *slog.Logger
	loggerMu sync.RWMutex

	// Holds the lumberjack writer for Close; nil when file logging is off.
	fileWriter   io.WriteCloser
	fileWriterMu sync.Mutex

	// Components to log; nil means all.
	allowedComponents map[string]bool
	componentsMu      sync.RWMutex
)

// Config holds the application logging configuration.
type Config struct {
	// Minimum level: debug, info, warn, or error. Unknown values mean info.
	Level string
	// Path of the application log file. Empty disables file logging, and
	// records go to stderr only.
	FilePath string
	// Maximum size of the log file in megabytes before lumberjack rotates
	// it. Zero or negative falls back to 10.
	MaxSizeMB int
	// Number of rotated files lumberjack retains. Negative falls back to 3.
	MaxBackups int
	// Gzip rotated files.
	Compress bool
	// Emit JSON records instead of logfmt text.
	JSON bool
	// Component names to include; empty includes all.
	Components []string
}

// Initialize builds the application logger from cfg and installs it as both
// the package logger and the [slog] default. Records always go to stderr;
// with a FilePath set they also go to a lumberjack-rotated file. Calling
// Initialize again replaces the previous configuration; close the old file
// writer with [Close] first if one was open.
func Initialize(cfg Config) error {
	level := parseLevel(cfg.Level)

	componentsMu.Lock()
	if len(cfg.Components) > 0 {
		allowedComponents = make(map[string]bool, len(cfg.Components))
		for _, c := range cfg.Components {
			allowedComponents[c] = true
		}
	} else {
		allowedComponents = nil
	}
	componentsMu.Unlock()

	writers := []io.Writer{os.Stderr}

	fileWriterMu.Lock()
	if cfg.FilePath != "" {
		maxSize := cfg.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 10
		}
		maxBackups := cfg.MaxBackups
		if maxBackups < 0 {
			maxBackups = 3
		}
		lj := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			MaxAge:     0,
			Compress:   cfg.Compress,
		}
		fileWriter = lj
		writers = append(writers, lj)
	}
	fileWriterMu.Unlock()

	w := io.MultiWriter(writers...)
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	l := slog.New(handler)
	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()
	slog.SetDefault(l)
	return nil
}

// Get returns the application logger, or [slog.Default] when [Initialize]
// has not been called.
func Get() *slog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// Close releases the log file writer if one is open. Safe to call more
// than once; later calls are no-ops.
func Close() error {
	fileWriterMu.Lock()
	defer fileWriterMu.Unlock()
	if fileWriter == nil {
		return nil
	}
	err := fileWriter.Close()
	fileWriter = nil
	if err != nil {
		return fmt.Errorf("failed to close application log file, caused by %w", err)
	}
	return nil
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func isComponentAllowed(component string) bool {
	componentsMu.RLock()
	defer componentsMu.RUnlock()
	if allowedComponents == nil {
		return true
	}
	return allowedComponents[component]
}

// componentFilterHandler drops records for components outside the
// configured set. The check happens at log time, not at construction, so a
// logger built before Initialize still honors the final configuration.
type componentFilterHandler struct {
	inner     slog.Handler
	component string
}

func (h *componentFilterHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if !isComponentAllowed(h.component) {
		return false
	}
	return h.inner.Enabled(ctx, level)
}

func (h *componentFilterHandler) Handle(ctx context.Context, r slog.Record) error {
	if !isComponentAllowed(h.component) {
		return nil
	}
	return h.inner.Handle(ctx, r)
}

func (h *componentFilterHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &componentFilterHandler{
		inner:     h.inner.WithAttrs(attrs),
		component: h.component,
	}
}

func (h *componentFilterHandler) WithGroup(name string) slog.Handler {
	return &componentFilterHandler{
		inner:     h.inner.WithGroup(name),
		component: h.component,
	}
}

// WithComponent returns a logger tagging every record with the component
// name. When component filtering is configured and the component is not in
// the allowed set, the returned logger discards everything.
func WithComponent(component string) *slog.Logger {
	base := Get()
	return slog.New(&componentFilterHandler{
		inner:     base.Handler().WithAttrs([]slog.Attr{slog.String("component", component)}),
		component: component,
	})
}

// Console returns a logger for the console sink's host-side wiring.
func Console() *slog.Logger {
	return WithComponent("console")
}

// View returns a logger for web view lifecycle events.
func View() *slog.Logger {
	return WithComponent("view")
}

// Rotation returns a logger for log rotation housekeeping.
func Rotation() *slog.Logger {
	return WithComponent("rotation")
}
