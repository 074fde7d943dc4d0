// Package sigctx binds a context to the process termination signals.
package sigctx

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Signals that end the process gracefully.
var Signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT}

// NotifyContext returns a copy of parent that is done on the first of
// [Signals] or when stop is called.
func NotifyContext(parent context.Context) (ctx context.Context, stop context.CancelFunc) {
	return signal.NotifyContext(parent, Signals...)
}
