package logging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger adapta o slog à interface de log do gorm. As queries saem em
// debug e as lentas (acima de slowThreshold) em warn.
type GormLogger struct {
	logger        *slog.Logger
	slowThreshold time.Duration
}

func NewGormLogger(logger *slog.Logger, slowThreshold time.Duration) *GormLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &GormLogger{
		logger:        logger.With("component", "gorm"),
		slowThreshold: slowThreshold,
	}
}

// LogMode é ignorado: o nível vem da configuração do slog.
func (g *GormLogger) LogMode(_ gormlogger.LogLevel) gormlogger.Interface {
	return g
}

func (g *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	g.logger.DebugContext(ctx, fmt.Sprintf(msg, data...))
}

func (g *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	g.logger.WarnContext(ctx, fmt.Sprintf(msg, data...))
}

func (g *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	g.logger.ErrorContext(ctx, fmt.Sprintf(msg, data...))
}

func (g *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		g.logger.ErrorContext(ctx, "erro na query", "sql", sql, "rows", rows, "duration", elapsed, "error", err)
	case g.slowThreshold > 0 && elapsed > g.slowThreshold:
		g.logger.WarnContext(ctx, "query lenta", "sql", sql, "rows", rows, "duration", elapsed)
	default:
		g.logger.DebugContext(ctx, "query", "sql", sql, "rows", rows, "duration", elapsed)
	}
}
