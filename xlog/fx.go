package xlog

import (
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

var _ fxevent.Logger = (*FxXLogger)(nil)

// FxXLogger reports the fx lifecycle. Hooks and the app state are kept,
// the graph building events only show up when they fail.
type FxXLogger struct {
	logger XLogger
}

func (l *FxXLogger) hookDone(hook, function string, err error, runtime int64) {
	if err != nil {
		l.logger.Error(err, hook+" hook failed",
			zap.String("function", function),
			zap.Int64("in", runtime),
		)
		return
	}
	l.logger.Debug(hook+" hook done",
		zap.String("function", function),
		zap.Int64("in", runtime),
	)
}

func (l *FxXLogger) LogEvent(event fxevent.Event) {
	if l == nil || l.logger == nil {
		return
	}

	switch e := event.(type) {
	case *fxevent.OnStartExecuted:
		l.hookDone("start", e.FunctionName, e.Err, int64(e.Runtime))
	case *fxevent.OnStopExecuted:
		l.hookDone("stop", e.FunctionName, e.Err, int64(e.Runtime))
	case *fxevent.Supplied:
		if e.Err != nil {
			l.logger.Error(e.Err, "supply failed", zap.String("type", e.TypeName))
		}
	case *fxevent.Provided:
		if e.Err != nil {
			l.logger.Error(e.Err, "provide failed", zap.String("constructor", e.ConstructorName))
		}
	case *fxevent.Invoked:
		if e.Err != nil {
			l.logger.Error(e.Err, "invoke failed",
				zap.String("function", e.FunctionName),
				zap.String("trace", e.Trace),
			)
		}
	case *fxevent.Started:
		if e.Err != nil {
			l.logger.Error(e.Err, "app start failed")
		} else {
			l.logger.Debug("app started")
		}
	case *fxevent.Stopping:
		l.logger.Info("app stopping", zap.String("signal", e.Signal.String()))
	case *fxevent.Stopped:
		if e.Err != nil {
			l.logger.Error(e.Err, "app stop failed")
		}
	case *fxevent.RollingBack:
		l.logger.Warn("rolling back started hooks", zap.Error(e.StartErr))
	case *fxevent.RolledBack:
		if e.Err != nil {
			l.logger.Error(e.Err, "roll back failed")
		}
	case *fxevent.LoggerInitialized:
		if e.Err != nil {
			l.logger.Error(e.Err, "fx logger init failed")
		}
	}
}

func NewFxXLogger(logger XLogger) *FxXLogger {
	if logger == nil {
		panic("[XLogger] logger is nil")
	}
	return &FxXLogger{logger: logger.Named("Fx")}
}
