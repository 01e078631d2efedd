package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shery7378/multifront/pkg/logger"
)

// queryLogger routes GORM output through the service logger. Only failed and
// slow statements are reported; record-not-found is an expected outcome.
type queryLogger struct {
	logg          *logger.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

func newQueryLogger(logg *logger.Logger, slow time.Duration) gormlogger.Interface {
	if logg == nil {
		return gormlogger.Discard
	}
	return &queryLogger{logg: logg, level: gormlogger.Warn, slowThreshold: slow}
}

func (q *queryLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *q
	clone.level = level
	return &clone
}

func (q *queryLogger) Info(ctx context.Context, msg string, args ...any) {
	if q.level >= gormlogger.Info {
		q.logg.Info(ctx, fmt.Sprintf(msg, args...))
	}
}

func (q *queryLogger) Warn(ctx context.Context, msg string, args ...any) {
	if q.level >= gormlogger.Warn {
		q.logg.Warn(ctx, fmt.Sprintf(msg, args...))
	}
}

func (q *queryLogger) Error(ctx context.Context, msg string, args ...any) {
	if q.level >= gormlogger.Error {
		q.logg.Error(ctx, fmt.Sprintf(msg, args...), nil)
	}
}

func (q *queryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if q.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && q.level >= gormlogger.Error:
		sql, rows := fc()
		q.logg.Error(q.fields(ctx, sql, rows, elapsed), "ledger query failed", err)
	case q.slowThreshold > 0 && elapsed > q.slowThreshold && q.level >= gormlogger.Warn:
		sql, rows := fc()
		q.logg.Warn(q.fields(ctx, sql, rows, elapsed), "slow ledger query")
	}
}

func (q *queryLogger) fields(ctx context.Context, sql string, rows int64, elapsed time.Duration) context.Context {
	return q.logg.WithFields(ctx, map[string]any{
		"sql":         sql,
		"rows":        rows,
		"duration_ms": elapsed.Milliseconds(),
	})
}
