package logging

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	baseMu     sync.RWMutex
	baseLogger = logrus.New()
)

// Configure sets the level and output format of the default logrus logger.
// An unknown level keeps the current one and is reported as an error.
func Configure(level string, format string, out io.Writer) error {
	baseMu.Lock()
	defer baseMu.Unlock()

	if out != nil {
		baseLogger.SetOutput(out)
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		baseLogger.SetFormatter(&logrus.JSONFormatter{})
	default:
		baseLogger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level = strings.TrimSpace(level)
	if level == "" {
		return nil
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	baseLogger.SetLevel(parsed)
	return nil
}

type logrusLogger struct {
	entry *logrus.Entry
}

func (l *logrusLogger) Debug(args ...any) {
	l.entry.Debug(args...)
}

func (l *logrusLogger) Debugf(format string, args ...any) {
	l.entry.Debugf(format, args...)
}

func (l *logrusLogger) Info(args ...any) {
	l.entry.Info(args...)
}

func (l *logrusLogger) Infof(format string, args ...any) {
	l.entry.Infof(format, args...)
}

func (l *logrusLogger) Error(args ...any) {
	l.entry.Error(args...)
}

func (l *logrusLogger) Errorf(format string, args ...any) {
	l.entry.Errorf(format, args...)
}

func (l *logrusLogger) Warn(args ...any) {
	l.entry.Warn(args...)
}

func (l *logrusLogger) Warnf(format string, args ...any) {
	l.entry.Warnf(format, args...)
}

func (l *logrusLogger) Fatal(args ...any) {
	l.entry.Fatal(args...)
}

func (l *logrusLogger) Fatalf(format string, args ...any) {
	l.entry.Fatalf(format, args...)
}

func (l *logrusLogger) WithField(key string, value any) Logger {
	return &logrusLogger{entry: l.entry.WithField(key, value)}
}

func NewLogger(ctx context.Context) Logger {
	factory := GetLoggerFactory()
	if factory != nil {
		return factory.CreateLogger(ctx)
	}

	return newLogrusLogger(ctx)
}

func newLogrusLogger(ctx context.Context) Logger {
	baseMu.RLock()
	defer baseMu.RUnlock()
	return &logrusLogger{entry: baseLogger.WithContext(ctx)}
}
