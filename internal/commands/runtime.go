package commands

import (
	"context"
	"time"

	"github.com/riguelni/go-docs/internal/logging"
	"github.com/riguelni/go-docs/pkg/interfaces"
)

// DefaultCommandTimeout caps builds and imports that set no WithTimeout.
const DefaultCommandTimeout = 30 * time.Second

// bounded derives the execution context for a command run. A nil parent is
// treated as context.Background and a non-positive timeout disables the cap.
func bounded(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

// EnsureLogger returns logger or a no-op logger when nil.
func EnsureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}
