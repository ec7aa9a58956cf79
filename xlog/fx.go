package xlog

import (
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

var _ fxevent.Logger = (*FxXLogger)(nil)

// FxXLogger prints the fx application lifecycle through the "Fx" component
// logger. Hook timings are reported in nanoseconds.
type FxXLogger struct {
	logger XLogger
}

func (l *FxXLogger) LogEvent(event fxevent.Event) {
	if l == nil || l.logger == nil {
		return
	}

	switch e := event.(type) {
	case *fxevent.OnStartExecuting:
		l.logger.Debug("hook start executing",
			zap.String("function", e.FunctionName),
			zap.String("caller", e.CallerName),
		)
	case *fxevent.OnStartExecuted:
		fields := []zap.Field{
			zap.String("function", e.FunctionName),
			zap.String("caller", e.CallerName),
			zap.Int64("in", int64(e.Runtime)),
		}
		if e.Err != nil {
			l.logger.Error(e.Err, "hook start failed", fields...)
			return
		}
		l.logger.Debug("hook start executed", fields...)
	case *fxevent.OnStopExecuting:
		l.logger.Debug("hook stop executing",
			zap.String("function", e.FunctionName),
			zap.String("caller", e.CallerName),
		)
	case *fxevent.OnStopExecuted:
		fields := []zap.Field{
			zap.String("function", e.FunctionName),
			zap.String("caller", e.CallerName),
			zap.Int64("in", int64(e.Runtime)),
		}
		if e.Err != nil {
			l.logger.Error(e.Err, "hook stop failed", fields...)
			return
		}
		l.logger.Debug("hook stop executed", fields...)
	case *fxevent.Supplied:
		if e.Err != nil {
			l.logger.Error(e.Err, "supply failed",
				zap.String("type", e.TypeName),
				zap.String("module", e.ModuleName),
			)
			return
		}
		l.logger.Debug("supplied", zap.String("type", e.TypeName))
	case *fxevent.Provided:
		if e.Err != nil {
			l.logger.Error(e.Err, "provide failed",
				zap.String("constructor", e.ConstructorName),
				zap.String("module", e.ModuleName),
			)
			return
		}
		l.logger.Debug("provided",
			zap.String("constructor", e.ConstructorName),
			zap.Strings("types", e.OutputTypeNames),
		)
	case *fxevent.Decorated:
		if e.Err != nil {
			l.logger.Error(e.Err, "decorate failed",
				zap.String("decorator", e.DecoratorName),
			)
		}
	case *fxevent.Invoking:
		l.logger.Debug("invoking", zap.String("function", e.FunctionName))
	case *fxevent.Invoked:
		if e.Err != nil {
			l.logger.Error(e.Err, "invoke failed",
				zap.String("function", e.FunctionName),
				zap.String("trace", e.Trace),
			)
		}
	case *fxevent.Stopping:
		l.logger.Info("stopping", zap.String("signal", e.Signal.String()))
	case *fxevent.Stopped:
		if e.Err != nil {
			l.logger.Error(e.Err, "stop failed")
		}
	case *fxevent.RollingBack:
		l.logger.Warn("start failed, rolling back", zap.Error(e.StartErr))
	case *fxevent.RolledBack:
		if e.Err != nil {
			l.logger.Error(e.Err, "roll back failed")
		}
	case *fxevent.Started:
		if e.Err != nil {
			l.logger.Error(e.Err, "start failed")
			return
		}
		l.logger.Debug("started")
	case *fxevent.LoggerInitialized:
		if e.Err != nil {
			l.logger.Error(e.Err, "custom logger initialization failed")
			return
		}
		l.logger.Debug("custom logger initialized", zap.String("constructor", e.ConstructorName))
	default:
	}
}

func NewFxXLogger(logger XLogger) *FxXLogger {
	l := &xLogger{}
	l.logger.Store(logger.
		zap().
		Named("Fx").
		WithOptions(zap.WrapCore(wrapComponentCore(nil))),
	)
	return &FxXLogger{logger: l}
}
