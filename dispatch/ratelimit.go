package dispatch

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/sideband/core/envelope"
)

// ApplicationErrorRateLimited is the ApplicationError code (>=2000, per
// the error code reservation in SPEC_FULL.md §3) returned when a request
// is rejected for exceeding the rate limit.
const ApplicationErrorRateLimited = 2000

// RateLimitMiddleware admits requests via a token-bucket limiter: tokens
// refill at r per second up to burst. Grounded on the teacher's
// RateLimitMiddleware — the limiter MUST be built once in the outer
// closure, not per request, or every call gets a fresh full bucket and
// rate limiting never engages.
func RateLimitMiddleware(r float64, burst int) Middleware {
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req envelope.Request) envelope.Envelope {
			if !limiter.Allow() {
				return envelope.NewErrorResponseTo(req, ApplicationErrorRateLimited, "rate limit exceeded", nil)
			}
			return next(ctx, req)
		}
	}
}
