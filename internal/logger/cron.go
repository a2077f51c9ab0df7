package logger

import (
	"go.uber.org/zap"
)

// CronLogger adapts a zap logger to the robfig/cron Logger interface.
type CronLogger struct {
	sugar *zap.SugaredLogger
}

func NewCronLogger(logger *zap.Logger) *CronLogger {
	return &CronLogger{sugar: WithFields(logger, zap.String("component", "cron")).Sugar()}
}

func (l *CronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l *CronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}
