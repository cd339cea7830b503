package logging

import (
	"context"
	"sync"
)

type Logger interface {
	Debug(args ...any)
	Debugf(format string, args ...any)
	Info(args ...any)
	Infof(format string, args ...any)
	Warn(args ...any)
	Warnf(format string, args ...any)
	Error(args ...any)
	Errorf(format string, args ...any)
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	WithField(key string, value any) Logger
}

type LoggerFactory interface {
	CreateLogger(ctx context.Context) Logger
}

var (
	loggerFactoryMu sync.RWMutex
	loggerFactory   LoggerFactory
)

func SetLoggerFactory(factory LoggerFactory) {
	loggerFactoryMu.Lock()
	defer loggerFactoryMu.Unlock()

	loggerFactory = factory
}

func GetLoggerFactory() LoggerFactory {
	loggerFactoryMu.RLock()
	defer loggerFactoryMu.RUnlock()

	return loggerFactory
}
