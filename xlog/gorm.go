package xlog

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	glogger "gorm.io/gorm/logger"
	gutils "gorm.io/gorm/utils"
)

var _ glogger.Interface = (*GormXLogger)(nil)

// GormXLogger prints gorm messages and sql traces through the "Gorm"
// component logger. Its level is independent of the parent logger.
type GormXLogger struct {
	logger              XLogger
	cfg                 *glogger.Config
	dynamicLevelEnabler zap.AtomicLevel
	gormLevel           int32
}

func (l *GormXLogger) level() glogger.LogLevel {
	return glogger.LogLevel(atomic.LoadInt32(&l.gormLevel))
}

func (l *GormXLogger) LogMode(lvl glogger.LogLevel) glogger.Interface {
	atomic.StoreInt32(&l.gormLevel, int32(lvl))
	l.dynamicLevelEnabler.SetLevel(getLogLevelOrDefaultForGorm(lvl))
	return l
}

func (l *GormXLogger) Info(_ context.Context, msg string, data ...any) {
	if l.level() >= glogger.Info {
		l.logger.Info(fmt.Sprintf(msg, data...), zap.String("fileAndLine", gutils.FileWithLineNum()))
	}
}

func (l *GormXLogger) Warn(_ context.Context, msg string, data ...any) {
	if l.level() >= glogger.Warn {
		l.logger.Warn(fmt.Sprintf(msg, data...), zap.String("fileAndLine", gutils.FileWithLineNum()))
	}
}

func (l *GormXLogger) Error(_ context.Context, msg string, data ...any) {
	if l.level() >= glogger.Error {
		l.logger.Error(nil, fmt.Sprintf(msg, data...), zap.String("fileAndLine", gutils.FileWithLineNum()))
	}
}

func (l *GormXLogger) Trace(_ context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	lvl := l.level()
	if lvl <= glogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	traceFields := func() []zap.Field {
		sql, rows := fc()
		return []zap.Field{
			zap.String("fileAndLine", gutils.FileWithLineNum()),
			zap.Int64("rows", rows),
			zap.Int64("elapsedMs", elapsed.Milliseconds()),
			zap.String("sql", sql),
		}
	}
	switch {
	case err != nil && lvl >= glogger.Error &&
		(!errors.Is(err, glogger.ErrRecordNotFound) || !l.cfg.IgnoreRecordNotFoundError):
		l.logger.Error(err, "error trace", traceFields()...)
	case l.cfg.SlowThreshold != 0 && elapsed > l.cfg.SlowThreshold && lvl >= glogger.Warn:
		l.logger.Warn("slow sql",
			append(traceFields(), zap.Int64("thresholdMs", l.cfg.SlowThreshold.Milliseconds()))...,
		)
	case lvl == glogger.Info:
		l.logger.Info("sql trace", traceFields()...)
	default:
	}
}

func NewGormXLogger(logger XLogger, opts ...GormXLoggerOption) *GormXLogger {
	gl := &GormXLogger{
		cfg: &glogger.Config{},
	}
	for _, o := range opts {
		o(gl.cfg)
	}
	if gl.cfg.SlowThreshold <= 0 {
		gl.cfg.SlowThreshold = 500 * time.Millisecond
	}
	if gl.cfg.LogLevel == 0 {
		gl.cfg.LogLevel = glogger.Warn
	}
	gl.gormLevel = int32(gl.cfg.LogLevel)
	gl.dynamicLevelEnabler = zap.NewAtomicLevelAt(getLogLevelOrDefaultForGorm(gl.cfg.LogLevel))

	l := &xLogger{}
	l.logger.Store(logger.
		zap().
		Named("Gorm").
		WithOptions(zap.WrapCore(wrapComponentCore(gl.dynamicLevelEnabler))),
	)
	gl.logger = l
	return gl
}

func getLogLevelOrDefaultForGorm(lvl glogger.LogLevel) zapcore.Level {
	switch lvl {
	case glogger.Info:
		return zapcore.InfoLevel
	case glogger.Warn:
		return zapcore.WarnLevel
	case glogger.Error:
		return zapcore.ErrorLevel
	case glogger.Silent:
		return zapcore.FatalLevel
	default:
	}
	return zapcore.DebugLevel
}

type GormXLoggerOption func(*glogger.Config)

func WithGormXLoggerSlowThreshold(threshold time.Duration) GormXLoggerOption {
	return func(cfg *glogger.Config) {
		cfg.SlowThreshold = threshold
	}
}

func WithGormXLoggerLogLevel(lvl glogger.LogLevel) GormXLoggerOption {
	return func(cfg *glogger.Config) {
		cfg.LogLevel = lvl
	}
}

func WithGormXLoggerIgnoreRecord404Err() GormXLoggerOption {
	return func(cfg *glogger.Config) {
		cfg.IgnoreRecordNotFoundError = true
	}
}
