package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandler creates a context that is canceled on SIGINT or SIGTERM.
// The returned stop function releases the signal registration.
func SetupSignalHandler() (context.Context, context.CancelFunc) {
	return SetupSignalHandlerFrom(context.Background())
}

// SetupSignalHandlerFrom is SetupSignalHandler with an explicit parent.
func SetupSignalHandlerFrom(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
