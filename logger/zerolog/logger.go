package zerolog

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/akihiro17/kafka-ec2/logger"
)

type Logger struct {
	logger *zerolog.Logger
}

func NewLogger(level logger.Level) logger.Logger {
	return NewLoggerWithWriter(level, os.Stdout)
}

func NewLoggerWithWriter(level logger.Level, w io.Writer) logger.Logger {
	zl := zerolog.New(w).Level(zerolog.Level(level)).With().Timestamp().Logger()
	return &Logger{logger: &zl}
}

func (l *Logger) Debug(ctx context.Context, s string, attrs ...logger.Attr) {
	l.log(ctx, zerolog.DebugLevel, s, attrs...)
}

func (l *Logger) Info(ctx context.Context, s string, attrs ...logger.Attr) {
	l.log(ctx, zerolog.InfoLevel, s, attrs...)
}

func (l *Logger) Warn(ctx context.Context, s string, attrs ...logger.Attr) {
	l.log(ctx, zerolog.WarnLevel, s, attrs...)
}

func (l *Logger) Error(ctx context.Context, s string, attrs ...logger.Attr) {
	l.log(ctx, zerolog.ErrorLevel, s, attrs...)
}

func (l *Logger) Fatal(ctx context.Context, s string, attrs ...logger.Attr) {
	l.log(ctx, zerolog.FatalLevel, s, attrs...)
}

func (l *Logger) log(_ context.Context, level zerolog.Level, s string, attrs ...logger.Attr) {
	if l.logger.GetLevel() > level {
		return
	}
	event := l.logger.WithLevel(level)
	for _, a := range attrs {
		event = event.Interface(a.Key, a.Value)
	}
	event.Msg(s)
}

func (l *Logger) WithFields(attrs ...logger.Attr) logger.Logger {
	ctx := l.logger.With()
	for _, a := range attrs {
		ctx = ctx.Interface(a.Key, a.Value)
	}
	child := ctx.Logger()
	return &Logger{logger: &child}
}
