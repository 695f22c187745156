package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/sideband/core/envelope"
	"github.com/sideband/core/identity"
)

func markerMiddleware(tag string, trace *[]string) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req envelope.Request) envelope.Envelope {
			*trace = append(*trace, tag+":in")
			resp := next(ctx, req)
			*trace = append(*trace, tag+":out")
			return resp
		}
	}
}

func TestChainRunsOutermostFirst(t *testing.T) {
	var trace []string
	handler := func(ctx context.Context, req envelope.Request) envelope.Envelope {
		trace = append(trace, "handler")
		return envelope.NewResponseTo(req, nil)
	}

	chained := Chain(
		markerMiddleware("A", &trace),
		markerMiddleware("B", &trace),
		markerMiddleware("C", &trace),
	)(handler)

	chained(context.Background(), envelope.Request{Method: "m", CID: identity.NewFrameID()})

	want := []string{"A:in", "B:in", "C:in", "handler", "C:out", "B:out", "A:out"}
	if len(trace) != len(want) {
		t.Fatalf("trace = %v, want %v", trace, want)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("trace = %v, want %v", trace, want)
		}
	}
}

func TestChainWithNoMiddlewaresIsIdentity(t *testing.T) {
	called := false
	handler := func(ctx context.Context, req envelope.Request) envelope.Envelope {
		called = true
		return envelope.NewResponseTo(req, nil)
	}
	chained := Chain()(handler)
	chained(context.Background(), envelope.Request{Method: "m", CID: identity.NewFrameID()})
	if !called {
		t.Error("handler was not invoked")
	}
}

func TestRateLimitMiddlewareAllowsBurstThenRejects(t *testing.T) {
	mw := RateLimitMiddleware(0, 2)
	calls := 0
	handler := func(ctx context.Context, req envelope.Request) envelope.Envelope {
		calls++
		return envelope.NewResponseTo(req, nil)
	}
	wrapped := mw(handler)

	req := envelope.Request{Method: "m", CID: identity.NewFrameID()}
	for i := 0; i < 2; i++ {
		resp := wrapped(context.Background(), req)
		if _, ok := resp.(envelope.Success); !ok {
			t.Fatalf("call %d: got %T, want Success", i, resp)
		}
	}

	resp := wrapped(context.Background(), req)
	e, ok := resp.(envelope.ErrorResp)
	if !ok {
		t.Fatalf("third call: got %T, want ErrorResp", resp)
	}
	if e.Code != ApplicationErrorRateLimited {
		t.Errorf("code = %d, want %d", e.Code, ApplicationErrorRateLimited)
	}
	if calls != 2 {
		t.Errorf("handler called %d times, want 2", calls)
	}
}

func TestTimeoutMiddlewareReturnsErrorWhenHandlerIsSlow(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	handler := func(ctx context.Context, req envelope.Request) envelope.Envelope {
		<-block
		return envelope.NewResponseTo(req, nil)
	}
	wrapped := TimeoutMiddleware(10 * time.Millisecond)(handler)

	req := envelope.Request{Method: "slow", CID: identity.NewFrameID()}
	resp := wrapped(context.Background(), req)
	e, ok := resp.(envelope.ErrorResp)
	if !ok {
		t.Fatalf("got %T, want ErrorResp", resp)
	}
	if e.Code != ApplicationErrorHandlerTimeout {
		t.Errorf("code = %d, want %d", e.Code, ApplicationErrorHandlerTimeout)
	}
}

func TestTimeoutMiddlewarePassesThroughFastHandler(t *testing.T) {
	handler := func(ctx context.Context, req envelope.Request) envelope.Envelope {
		return envelope.NewResponseTo(req, []byte(`"fast"`))
	}
	wrapped := TimeoutMiddleware(time.Second)(handler)

	req := envelope.Request{Method: "fast", CID: identity.NewFrameID()}
	resp := wrapped(context.Background(), req)
	s, ok := resp.(envelope.Success)
	if !ok {
		t.Fatalf("got %T, want Success", resp)
	}
	if string(s.Result) != `"fast"` {
		t.Errorf("result = %s, want \"fast\"", s.Result)
	}
}
