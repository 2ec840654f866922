package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the leveled structured logger passed into every component.
// Messages carry an optional context map; Error additionally merges
// the error's message into the context.
type Logger struct {
	zl zerolog.Logger
}

func New(level string) *Logger {
	return NewWithWriter(level, os.Stdout)
}

func NewWithWriter(level string, w io.Writer) *Logger {
	parsed, err := zerolog.ParseLevel(level)

	if err != nil {
		parsed = zerolog.InfoLevel
	}

	zl := zerolog.New(w).Level(parsed).With().Timestamp().Logger()

	return &Logger{zl: zl}
}

func (l *Logger) Debug(msg string, fields map[string]any) {
	l.emit(l.zl.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields map[string]any) {
	l.emit(l.zl.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields map[string]any) {
	l.emit(l.zl.Warn(), msg, fields)
}

func (l *Logger) Error(msg string, err error, fields map[string]any) {
	event := l.zl.Error()

	if err != nil {
		event = event.Err(err)
	}

	l.emit(event, msg, fields)
}

func (l *Logger) emit(event *zerolog.Event, msg string, fields map[string]any) {
	for key, value := range fields {
		event = event.Interface(key, value)
	}

	event.Msg(msg)
}
