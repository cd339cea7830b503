package utils

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/compustack/aether/pkg/logging"
)

// ContainsErrorSubstring checks if the error or any of its wrapped errors contain the target substring.
func ContainsErrorSubstring(err error, target string) bool {
	for err != nil {
		if strings.Contains(err.Error(), target) {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

func WrapIfNotNil(err error, context ...string) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%s: %w", callerPrefix(2, context), err)
}

// MarkIfNotNil wraps err so that errors.Is matches both kind and err itself.
func MarkIfNotNil(kind error, err error, context ...string) error {
	if err == nil {
		return nil
	}
	if kind == nil || errors.Is(err, kind) {
		return fmt.Errorf("%s: %w", callerPrefix(2, context), err)
	}

	return fmt.Errorf("%s: %w: %w", callerPrefix(2, context), kind, err)
}

func callerPrefix(skip int, context []string) string {
	callerName := "unknown"
	if pc, _, _, ok := runtime.Caller(skip); ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			callerName = fn.Name()
		}
	}

	parts := make([]string, 0, 1+len(context))
	parts = append(parts, callerName)
	parts = append(parts, context...)
	return strings.Join(parts, " - ")
}

func PrintStack(title string, log logging.Logger) {
	log.Errorf(" %s Stack trace:", title)
	// skip = 2 to ignore printStack and its caller (defer wrapper)
	for i := 2; ; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fn := runtime.FuncForPC(pc)
		log.Errorf("     *** %s (%s:%d)", fn.Name(), file, line)
	}
}
