package jobs

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// cronLogger routes cron's own messages through zap.
type cronLogger struct {
	sugar *zap.SugaredLogger
}

var _ cron.Logger = cronLogger{}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}

func newCron(logger *zap.Logger) *cron.Cron {
	cl := cronLogger{sugar: logger.Sugar()}
	return cron.New(
		cron.WithSeconds(),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
}
