package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"blogapi/pkg/tracing"
)

type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
	FatalLevel LogLevel = "fatal"
)

type Fields map[string]interface{}

type Logger interface {
	Debug(msg string, fields Fields)
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, fields Fields)
	Fatal(msg string, fields Fields)

	WithContext(ctx context.Context) Logger
	InfoContext(ctx context.Context, msg string, fields Fields)
	WarnContext(ctx context.Context, msg string, fields Fields)
	ErrorContext(ctx context.Context, msg string, fields Fields)

	WithFields(fields Fields) Logger
}

type Options struct {
	Level  LogLevel
	Pretty bool
	Output io.Writer
}

type ZerologLogger struct {
	logger zerolog.Logger
	fields Fields
}

func New(opts Options) Logger {
	output := opts.Output
	if output == nil {
		output = os.Stdout
	}

	zerolog.TimeFieldFormat = time.RFC3339

	if opts.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	zl := zerolog.New(output).
		Level(parseLevel(opts.Level)).
		With().
		Timestamp().
		Logger()

	return &ZerologLogger{
		logger: zl,
		fields: Fields{},
	}
}

// Nop discards everything. Used by tests.
func Nop() Logger {
	return &ZerologLogger{logger: zerolog.Nop(), fields: Fields{}}
}

func parseLevel(level LogLevel) zerolog.Level {
	switch strings.ToLower(string(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *ZerologLogger) WithFields(fields Fields) Logger {
	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	return &ZerologLogger{logger: l.logger, fields: merged}
}

func (l *ZerologLogger) WithContext(ctx context.Context) Logger {
	traceID := tracing.GetTraceID(ctx)
	if traceID == "" {
		return l
	}
	return l.WithFields(Fields{"trace_id": traceID})
}

func (l *ZerologLogger) write(event *zerolog.Event, msg string, fields Fields) {
	for k, v := range l.fields {
		event = event.Interface(k, v)
	}
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}

func (l *ZerologLogger) Debug(msg string, fields Fields) {
	event := l.logger.Debug()
	if l.logger.GetLevel() == zerolog.DebugLevel {
		if _, file, line, ok := runtime.Caller(1); ok {
			parts := strings.Split(file, "/")
			if len(parts) > 2 {
				file = strings.Join(parts[len(parts)-2:], "/")
			}
			event = event.Str("source", fmt.Sprintf("%s:%d", file, line))
		}
	}
	l.write(event, msg, fields)
}

func (l *ZerologLogger) Info(msg string, fields Fields) {
	l.write(l.logger.Info(), msg, fields)
}

func (l *ZerologLogger) Warn(msg string, fields Fields) {
	l.write(l.logger.Warn(), msg, fields)
}

func (l *ZerologLogger) Error(msg string, fields Fields) {
	l.write(l.logger.Error(), msg, fields)
}

func (l *ZerologLogger) Fatal(msg string, fields Fields) {
	l.write(l.logger.Fatal(), msg, fields)
}

func (l *ZerologLogger) InfoContext(ctx context.Context, msg string, fields Fields) {
	l.WithContext(ctx).Info(msg, fields)
}

func (l *ZerologLogger) WarnContext(ctx context.Context, msg string, fields Fields) {
	l.WithContext(ctx).Warn(msg, fields)
}

func (l *ZerologLogger) ErrorContext(ctx context.Context, msg string, fields Fields) {
	l.WithContext(ctx).Error(msg, fields)
}
