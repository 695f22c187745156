package dispatch

import (
	"context"
	"log"
	"time"

	"github.com/sideband/core/envelope"
)

// LoggingMiddleware records the method name, duration, and any application
// error for each dispatched request. Grounded on the teacher's
// LoggingMiddleware: capture start time before calling next, log elapsed
// time after next returns.
func LoggingMiddleware() Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req envelope.Request) envelope.Envelope {
			start := time.Now()
			resp := next(ctx, req)
			duration := time.Since(start)

			log.Printf("method=%s duration=%s", req.Method, duration)
			if e, ok := resp.(envelope.ErrorResp); ok {
				log.Printf("method=%s error_code=%d error=%s", req.Method, e.Code, e.Message)
			}
			return resp
		}
	}
}
