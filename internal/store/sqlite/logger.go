package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormLibLogger "gorm.io/gorm/logger"
)

// gormLogger forwards GORM output to zerolog.
type gormLogger struct {
	log zerolog.Logger
}

func newGormLogger(l zerolog.Logger) *gormLogger {
	return &gormLogger{log: l}
}

// LogMode is a no-op; the zerolog level decides what is emitted.
func (l *gormLogger) LogMode(level gormLibLogger.LogLevel) gormLibLogger.Interface {
	return l
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	l.log.Info().Msg(fmt.Sprintf(msg, data...))
}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.log.Warn().Msg(fmt.Sprintf(msg, data...))
}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	l.log.Error().Msg(fmt.Sprintf(msg, data...))
}

// Trace logs every statement at trace level and failures at debug level.
// Record-not-found is an expected outcome for advisor-scoped lookups.
func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		sql, rows := fc()
		l.log.Debug().Err(err).Str("sql", sql).Int64("rows", rows).Dur("elapsed", time.Since(begin)).Msg("query failed")
		return
	}
	if l.log.GetLevel() <= zerolog.TraceLevel {
		sql, rows := fc()
		l.log.Trace().Str("sql", sql).Int64("rows", rows).Dur("elapsed", time.Since(begin)).Msg("query")
	}
}
