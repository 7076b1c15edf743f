package database

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/tally-ledger/backend/pkg/models"
	gorm_logger "gorm.io/gorm/logger"
)

// logger sends gorm log output to zerolog.
type logger struct {
	Logger zerolog.Logger
}

func (l *logger) LogMode(gorm_logger.LogLevel) gorm_logger.Interface {
	return l
}

func (l *logger) Info(_ context.Context, s string, args ...interface{}) {
	l.Logger.Info().Msgf(s, args...)
}

func (l *logger) Warn(_ context.Context, s string, args ...interface{}) {
	l.Logger.Warn().Msgf(s, args...)
}

func (l *logger) Error(_ context.Context, s string, args ...interface{}) {
	l.Logger.Error().Msgf(s, args...)
}

// Trace logs every statement at debug level. Failed statements are logged
// with a level matching the error class.
func (l *logger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := map[string]interface{}{
		"sql":      sql,
		"rows":     rows,
		"duration": elapsed,
	}

	switch {
	case err == nil, errors.Is(err, models.ErrResourceNotFound), errors.Is(err, gorm_logger.ErrRecordNotFound):
		l.Logger.Debug().Fields(fields).Msg("[GORM] query")
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrStorageTransient):
		l.Logger.Warn().Err(err).Fields(fields).Msg("[GORM] query error")
	default:
		l.Logger.Error().Err(err).Fields(fields).Msg("[GORM] query error")
	}
}
