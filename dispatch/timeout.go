package dispatch

import (
	"context"
	"time"

	"github.com/sideband/core/envelope"
)

// ApplicationErrorHandlerTimeout is the ApplicationError code returned
// when a handler does not complete within its dispatch-side budget. This
// is independent of correlate.Engine's caller-side timeout: the two
// compose, one bounding how long a server spends on a request, the other
// bounding how long a client waits for the reply.
const ApplicationErrorHandlerTimeout = 2001

// TimeoutMiddleware enforces a maximum duration for the wrapped handler.
// Grounded on the teacher's TimeOutMiddleware: run next in a goroutine,
// race its result against ctx.Done(). The handler goroutine is not
// cancelled when the timeout wins the race — it keeps running in the
// background; true cancellation requires the handler itself to observe
// ctx.Done().
func TimeoutMiddleware(timeout time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req envelope.Request) envelope.Envelope {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			done := make(chan envelope.Envelope, 1)
			go func() {
				done <- next(ctx, req)
			}()

			select {
			case resp := <-done:
				return resp
			case <-ctx.Done():
				return envelope.NewErrorResponseTo(req, ApplicationErrorHandlerTimeout, "request timed out", nil)
			}
		}
	}
}
