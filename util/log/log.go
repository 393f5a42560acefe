package log

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"
)

/*
log implements context-based logging on top of slog. All logging in dagtree
goes through these functions so that tags attached with AddTags (for instance
the build ID of a CLI session) follow every record emitted under that context.

There are "f" and "w" versions of each function. The "f" version takes a format
string and parameters, and the "w" version takes an even-length list of
key-value pairs.
*/

////////////////////////////////////////////////////////////////////////////////

type contextKey int

const (
	logTagKey contextKey = iota
)

// AddTags adds key-value pairs to the log context.
func AddTags(ctx context.Context, kvs ...any) context.Context {
	if len(kvs)%2 != 0 {
		panic("log: AddTags requires an even number of arguments")
	}
	tags := []any{}
	if value := ctx.Value(logTagKey); value != nil {
		existing, ok := value.([]any)
		if !ok {
			panic("log: invalid log tags value")
		}
		tags = append(tags, existing...)
	}
	return context.WithValue(ctx, logTagKey, append(tags, kvs...))
}

func fromContext(ctx context.Context) []any {
	tags, _ := ctx.Value(logTagKey).([]any)
	return tags
}

func addPairs(r *slog.Record, kvs []any) {
	for i := 0; i+1 < len(kvs); i += 2 {
		key, ok := kvs[i].(string)
		if !ok {
			panic("log: invalid log key")
		}
		r.Add(key, kvs[i+1])
	}
}

func emit(ctx context.Context, level slog.Level, msg string, keyvals []any) {
	handler := slog.Default().Handler()
	if !handler.Enabled(ctx, level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	addPairs(&r, keyvals)
	addPairs(&r, fromContext(ctx))
	if err := handler.Handle(ctx, r); err != nil {
		slog.ErrorContext(ctx, "error handling log record", "error", err)
	}
}

// Infof logs a formatted message at info level.
func Infof(ctx context.Context, format string, args ...any) {
	emit(ctx, slog.LevelInfo, fmt.Sprintf(format, args...), nil)
}

// Errorf logs a formatted message at error level.
func Errorf(ctx context.Context, format string, args ...any) {
	emit(ctx, slog.LevelError, fmt.Sprintf(format, args...), nil)
}

// Debugf logs a formatted message at debug level.
func Debugf(ctx context.Context, format string, args ...any) {
	emit(ctx, slog.LevelDebug, fmt.Sprintf(format, args...), nil)
}

// Warnf logs a formatted message at warn level.
func Warnf(ctx context.Context, format string, args ...any) {
	emit(ctx, slog.LevelWarn, fmt.Sprintf(format, args...), nil)
}

// Infow logs a message with key-value pairs at info level.
func Infow(ctx context.Context, msg string, keyvals ...any) {
	emit(ctx, slog.LevelInfo, msg, keyvals)
}

// Errorw logs a message with key-value pairs at error level.
func Errorw(ctx context.Context, msg string, keyvals ...any) {
	emit(ctx, slog.LevelError, msg, keyvals)
}

// Debugw logs a message with key-value pairs at debug level.
func Debugw(ctx context.Context, msg string, keyvals ...any) {
	emit(ctx, slog.LevelDebug, msg, keyvals)
}

// Warnw logs a message with key-value pairs at warn level.
func Warnw(ctx context.Context, msg string, keyvals ...any) {
	emit(ctx, slog.LevelWarn, msg, keyvals)
}
