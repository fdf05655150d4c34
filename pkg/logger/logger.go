package logger

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Logger — минимальный интерфейс логирования, которым пользуются все слои приложения.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(err error, format string, args ...any)
}

// New выбирает реализацию по переменной окружения LOG_DRIVER ("slog" по умолчанию, "zap").
func New() Logger {
	switch strings.ToLower(os.Getenv("LOG_DRIVER")) {
	case "zap":
		log, err := NewZapLogger()
		if err != nil {
			fallback := NewSlogLogger()
			fallback.Errorf(err, "failed to init zap logger, falling back to slog")
			return fallback
		}
		return log
	default:
		return NewSlogLogger()
	}
}

type SlogLogger struct {
	log *slog.Logger
}

// NewSlogLogger создаёт JSON-логгер поверх log/slog, пишущий в stdout.
func NewSlogLogger() *SlogLogger {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return &SlogLogger{log: slog.New(handler)}
}

func (l *SlogLogger) Debugf(format string, args ...any) {
	l.log.Debug(fmt.Sprintf(format, args...))
}

func (l *SlogLogger) Infof(format string, args ...any) {
	l.log.Info(fmt.Sprintf(format, args...))
}

func (l *SlogLogger) Warnf(format string, args ...any) {
	l.log.Warn(fmt.Sprintf(format, args...))
}

func (l *SlogLogger) Errorf(err error, format string, args ...any) {
	l.log.Error(fmt.Sprintf(format, args...), slog.Any("error", err))
}
