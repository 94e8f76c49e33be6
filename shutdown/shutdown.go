// Package shutdown cancels a command's context on SIGINT or SIGTERM, running
// registered hooks first.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/amp-labs/kvcollection/logger"
)

// Handler owns the signal subscription and the shutdown hooks of one process.
type Handler struct {
	mut     sync.Mutex
	hooks   []func()
	signals chan os.Signal
}

// New returns a Handler that is not yet listening for signals.
func New() *Handler {
	return &Handler{signals: make(chan os.Signal, 1)}
}

// BeforeShutdown registers a function to be called before the context
// returned by Setup is canceled. Hooks run in registration order.
func (h *Handler) BeforeShutdown(fn func()) {
	h.mut.Lock()
	defer h.mut.Unlock()

	h.hooks = append(h.hooks, fn)
}

// Shutdown triggers the shutdown process as if a signal had been received.
func (h *Handler) Shutdown() {
	select {
	case h.signals <- os.Interrupt:
	default:
	}
}

// Setup starts listening for SIGINT and SIGTERM and returns a context that is
// canceled once one arrives (after the hooks ran) or when cancel is called.
// Calling cancel stops the signal subscription without running the hooks.
func (h *Handler) Setup(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	signal.Notify(h.signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(h.signals)

		select {
		case sig := <-h.signals:
			logger.Get(ctx).Warn("Received " + sig.String() + ", shutting down...")

			h.cleanup()
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

func (h *Handler) cleanup() {
	h.mut.Lock()
	defer h.mut.Unlock()

	for _, fn := range h.hooks {
		fn()
	}

	h.hooks = nil
}
