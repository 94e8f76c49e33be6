// Package logger configures log/slog for the kvc tool and hands out loggers that
// carry per-context attributes (subsystem, extra key-values, muting).
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// Default subsystem name, set by ConfigureLoggingWithOptions.
var subsystem atomic.Value //nolint:gochecknoglobals

// configMutex serializes ConfigureLoggingWithOptions, which replaces global state.
var configMutex sync.Mutex //nolint:gochecknoglobals

type contextKey string

// ErrInvalidLogLevel is returned by ParseLevel for unknown level names.
var ErrInvalidLogLevel = errors.New("invalid log level")

// Options is used to configure logging.
type Options struct {
	Subsystem string
	JSON      bool
	MinLevel  slog.Level
	Output    io.Writer
}

// ConfigureLoggingWithOptions installs a text or JSON slog handler as the default logger
// and redirects the standard library's log package into it. It returns the new logger.
func ConfigureLoggingWithOptions(opts Options) *slog.Logger {
	configMutex.Lock()
	defer configMutex.Unlock()

	if opts.Output == nil {
		opts.Output = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.MinLevel}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(opts.Output, handlerOpts)
	} else {
		handler = slog.NewTextHandler(opts.Output, handlerOpts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	// 3rd party packages might still use the old log package
	def := log.Default()
	*def = *slog.NewLogLogger(handler, slog.LevelInfo)

	subsystem.Store(opts.Subsystem)

	return logger
}

// ParseLevel turns a level name (debug, info, warn, error; any case) into a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level

	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, name)
	}

	return level, nil
}

// WithLogger stores a logger in the context. Get prefers it over the default logger,
// which lets tests and embedders route output without touching global state.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, contextKey("logger"), logger)
}

// HasLogger reports whether the context carries a logger set by WithLogger.
func HasLogger(ctx context.Context) bool {
	if ctx == nil {
		return false
	}

	l, ok := ctx.Value(contextKey("logger")).(*slog.Logger)

	return ok && l != nil
}

// WithSubsystem overrides the subsystem attribute for loggers obtained from ctx.
func WithSubsystem(ctx context.Context, name string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, contextKey("subsystem"), name)
}

// GetSubsystem returns the subsystem from the context, or the configured default.
func GetSubsystem(ctx context.Context) string {
	if ctx != nil {
		if val, ok := ctx.Value(contextKey("subsystem")).(string); ok {
			return val
		}
	}

	if val, ok := subsystem.Load().(string); ok {
		return val
	}

	return ""
}

// WithMuted silences every logger obtained from the returned context.
func WithMuted(ctx context.Context, muted bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, contextKey("mute"), muted)
}

func isMuted(ctx context.Context) bool {
	if ctx == nil {
		return false
	}

	muted, ok := ctx.Value(contextKey("mute")).(bool)

	return ok && muted
}

// With returns a context whose loggers carry the given key-value pairs.
func With(ctx context.Context, values ...any) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	if len(values) == 0 {
		return ctx
	}

	vals := append(getValues(ctx), values...)

	return context.WithValue(ctx, contextKey("loggerValues"), vals)
}

func getValues(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}

	vals, _ := ctx.Value(contextKey("loggerValues")).([]any)

	// copy so appends in With never share a backing array between contexts
	return append([]any(nil), vals...)
}

// nullHandler discards everything; it backs muted loggers.
type nullHandler struct{}

func (n *nullHandler) Enabled(_ context.Context, _ slog.Level) bool  { return false }
func (n *nullHandler) Handle(_ context.Context, _ slog.Record) error { return nil }
func (n *nullHandler) WithAttrs(_ []slog.Attr) slog.Handler          { return n }
func (n *nullHandler) WithGroup(_ string) slog.Handler               { return n }

var nullLogger = slog.New(&nullHandler{}) //nolint:gochecknoglobals

// Get returns a logger for the first non-nil context given: the context's own logger
// (see WithLogger) or the default one, annotated with the subsystem and any values
// added with With. A muted context yields a logger that drops everything.
func Get(ctx ...context.Context) *slog.Logger {
	realCtx := context.Background()

	for _, c := range ctx {
		if c != nil {
			realCtx = c

			break
		}
	}

	if isMuted(realCtx) {
		return nullLogger
	}

	logger, ok := realCtx.Value(contextKey("logger")).(*slog.Logger)
	if !ok || logger == nil {
		logger = slog.Default()
	}

	if sub := GetSubsystem(realCtx); sub != "" {
		logger = logger.With("subsystem", sub)
	}

	if vals := getValues(realCtx); len(vals) > 0 {
		logger = logger.With(vals...)
	}

	return logger
}
