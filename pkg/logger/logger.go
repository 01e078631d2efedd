package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shery7378/multifront/pkg/env"
	pkgerrors "github.com/shery7378/multifront/pkg/errors"
)

const defaultService = "multifront"

// Options configures the structured logger.
type Options struct {
	ServiceName string
	Level       zerolog.Level
	// WarnStack attaches a stack trace to warnings as well as errors.
	WarnStack bool
	Output    io.Writer
}

// Logger writes JSON lines. Request scoped fields (request id, cart session,
// user) travel inside the context and are added to every entry.
type Logger struct {
	root      zerolog.Logger
	warnStack bool
}

type scopeKey struct{}

func New(opts Options) *Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if strings.EqualFold(env.Get("LOG_FORMAT", "json"), "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	level := opts.Level
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	service := strings.TrimSpace(opts.ServiceName)
	if service == "" {
		service = defaultService
	}

	root := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", service).
		Logger()
	return &Logger{root: root, warnStack: opts.WarnStack}
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{root: zerolog.Nop()}
}

// ParseLevel maps a config string to a level, defaulting to info.
func ParseLevel(value string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) scoped(ctx context.Context) zerolog.Logger {
	if ctx != nil {
		if scoped, ok := ctx.Value(scopeKey{}).(zerolog.Logger); ok {
			return scoped
		}
	}
	return l.root
}

func (l *Logger) extend(ctx context.Context, fn func(zerolog.Context) zerolog.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, scopeKey{}, fn(l.scoped(ctx).With()).Logger())
}

func (l *Logger) WithField(ctx context.Context, key string, value any) context.Context {
	return l.extend(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Interface(key, value)
	})
}

// WithFields adds every entry of fields, in key order.
func (l *Logger) WithFields(ctx context.Context, fields map[string]any) context.Context {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return l.extend(ctx, func(c zerolog.Context) zerolog.Context {
		for _, k := range keys {
			c = c.Interface(k, fields[k])
		}
		return c
	})
}

func (l *Logger) WithRequestID(ctx context.Context, requestID string) context.Context {
	return l.withString(ctx, "request_id", requestID)
}

func (l *Logger) WithUserID(ctx context.Context, userID string) context.Context {
	return l.withString(ctx, "user_id", userID)
}

// WithSessionID tags entries with the cart session they operate on.
func (l *Logger) WithSessionID(ctx context.Context, sessionID string) context.Context {
	return l.withString(ctx, "cart_session", sessionID)
}

func (l *Logger) WithStoreID(ctx context.Context, storeID string) context.Context {
	return l.withString(ctx, "store_id", storeID)
}

func (l *Logger) withString(ctx context.Context, key, value string) context.Context {
	return l.extend(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Str(key, value)
	})
}

func (l *Logger) Debug(ctx context.Context, msg string) {
	scoped := l.scoped(ctx)
	scoped.Debug().Msg(msg)
}

func (l *Logger) Info(ctx context.Context, msg string) {
	scoped := l.scoped(ctx)
	scoped.Info().Msg(msg)
}

func (l *Logger) Warn(ctx context.Context, msg string) {
	scoped := l.scoped(ctx)
	event := scoped.Warn()
	if l.warnStack {
		event = event.Str("stack", stackTrace())
	}
	event.Msg(msg)
}

// Error logs err with its typed code, when it carries one, and a stack trace.
func (l *Logger) Error(ctx context.Context, msg string, err error) {
	scoped := l.scoped(ctx)
	event := scoped.Error()
	if err != nil {
		event = event.Err(err)
		if typed := pkgerrors.As(err); typed != nil {
			event = event.
				Str("error_code", string(typed.Code())).
				Bool("retryable", pkgerrors.MetadataFor(typed.Code()).Retryable)
		}
	}
	event.Str("stack", stackTrace()).Msg(msg)
}

func stackTrace() string {
	return strings.TrimSpace(string(debug.Stack()))
}
