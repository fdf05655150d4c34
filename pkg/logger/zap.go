package logger

import (
	"go.uber.org/zap"
)

type ZapLogger struct {
	log *zap.SugaredLogger
}

// NewZapLogger создаёт production-логгер zap.
func NewZapLogger() (*ZapLogger, error) {
	log, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}

	return &ZapLogger{log: log.Sugar()}, nil
}

func (l *ZapLogger) Debugf(format string, args ...any) {
	l.log.Debugf(format, args...)
}

func (l *ZapLogger) Infof(format string, args ...any) {
	l.log.Infof(format, args...)
}

func (l *ZapLogger) Warnf(format string, args ...any) {
	l.log.Warnf(format, args...)
}

func (l *ZapLogger) Errorf(err error, format string, args ...any) {
	l.log.With(zap.Error(err)).Errorf(format, args...)
}

// Sync сбрасывает буферы zap; вызывается при остановке приложения.
func (l *ZapLogger) Sync() error {
	return l.log.Sync()
}
