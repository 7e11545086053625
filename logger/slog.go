package logger

import (
	"context"
	"fmt"
	"log/slog"
)

type slogLogger struct {
	l *slog.Logger
}

var _ Logger = &slogLogger{}

// NewSlog adapts a *slog.Logger to the Logger interface.
// Messages are formatted with fmt before being handed to slog,
// so handlers receive a plain message with no extra attributes.
func NewSlog(l *slog.Logger) Logger {
	if l == nil {
		l = slog.Default()
	}
	return &slogLogger{l: l}
}

func (s *slogLogger) Debugf(format string, args ...any) {
	s.log(slog.LevelDebug, format, args...)
}

func (s *slogLogger) Infof(format string, args ...any) {
	s.log(slog.LevelInfo, format, args...)
}

func (s *slogLogger) Warnf(format string, args ...any) {
	s.log(slog.LevelWarn, format, args...)
}

func (s *slogLogger) Errorf(format string, args ...any) {
	s.log(slog.LevelError, format, args...)
}

func (s *slogLogger) log(level slog.Level, format string, args ...any) {
	ctx := context.Background()
	if !s.l.Enabled(ctx, level) {
		return
	}
	s.l.Log(ctx, level, fmt.Sprintf(format, args...))
}
