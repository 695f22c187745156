// Package dispatch implements the onion-model middleware chain used to
// wrap RPC request handlers with cross-cutting concerns — logging, rate
// limiting, per-request timeouts — without modifying the handler itself.
// Grounded on the teacher's middleware package, generalized from
// *message.RPCMessage to the envelope package's typed Request and
// response-or-error Envelope.
//
// Onion model execution order:
//
//	Chain(A, B, C)(handler)  →  A(B(C(handler)))
//
//	Request:   A.before → B.before → C.before → handler
//	Response:  handler → C.after → B.after → A.after
package dispatch

import (
	"context"

	"github.com/sideband/core/envelope"
)

// HandlerFunc is the function signature for request handlers and for
// every middleware-wrapped handler in the chain.
type HandlerFunc func(ctx context.Context, req envelope.Request) envelope.Envelope

// Middleware takes a handler and returns a new handler wrapping it.
type Middleware func(next HandlerFunc) HandlerFunc

// Chain composes middlewares into one, outermost first: the first
// middleware in the list runs first on the way in and last on the way
// out.
func Chain(middlewares ...Middleware) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}
