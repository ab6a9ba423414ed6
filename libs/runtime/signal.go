package runtime

import (
	"context"
	"os/signal"
	"syscall"
)

// SignalContext derives a context that is cancelled on SIGINT or SIGTERM. A second
// signal after cancellation kills the process with the default behaviour.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()
	return ctx, stop
}
