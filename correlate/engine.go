// Package correlate implements the RPC correlation engine: a process-local
// registry matching outstanding requests to incoming responses by
// correlation id, with per-request timeouts, manual rejection, and bulk
// cancellation on disconnect.
//
// It is grounded on the teacher's transport.ClientTransport — a
// sync.Map of sequence number to response channel, drained by recvLoop
// and flushed in bulk by closeAllPending on disconnect — generalized from
// a transport-bound design (channels keyed by uint32 sequence numbers,
// one TCP connection per transport) to a transport-agnostic registry keyed
// by identity.FrameID with explicit per-entry timers, per the "guarded hash
// table plus per-entry timers" design named in SPEC_FULL.md §9.
package correlate

import (
	"context"
	"sync"
	"time"

	"github.com/sideband/core/errs"
	"github.com/sideband/core/identity"
)

// entry is the pending-request record: a single-shot completion and a
// cancellable timer, stored in Engine's map under its correlation id. It
// is never exposed directly to callers — Handle is the read-only view
// onto it.
type entry struct {
	done  chan struct{}
	once  sync.Once
	value any
	err   error
	timer *time.Timer
}

func (e *entry) resolve(value any, err error) {
	e.once.Do(func() {
		e.value = value
		e.err = err
		close(e.done)
	})
}

// Handle is a read-only view onto a pending record's terminal outcome. It
// is the only suspending element the engine exposes to callers: Wait
// blocks until match, reject, clear, or the timeout fires — whichever is
// first.
type Handle struct {
	e *entry
}

// Wait blocks until the handle resolves or ctx is cancelled first. A nil
// error means the request completed with the value passed to match; a
// non-nil error means reject, clear, or the timeout fired.
func (h *Handle) Wait(ctx context.Context) (any, error) {
	select {
	case <-h.e.done:
		return h.e.value, h.e.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Done returns a channel closed exactly once, when the handle resolves.
// Useful for select statements that also watch other channels.
func (h *Handle) Done() <-chan struct{} {
	return h.e.done
}

// Engine is the shared-mutable correlation registry. The zero value is not
// usable; construct with New. All exported methods are safe to call
// concurrently from any number of goroutines and complete without
// suspending on external I/O — the only suspension point in the whole
// package is Handle.Wait.
type Engine struct {
	mu      sync.Mutex
	entries map[identity.FrameID]*entry
}

// New constructs an empty Engine.
func New() *Engine {
	return &Engine{entries: make(map[identity.FrameID]*entry)}
}

// Register creates a pending record for cid with the given timeout budget
// and returns a Handle the caller can await. Fails with a CorrelationError
// if cid is already registered.
func (en *Engine) Register(cid identity.FrameID, timeout time.Duration) (*Handle, error) {
	en.mu.Lock()
	if _, exists := en.entries[cid]; exists {
		en.mu.Unlock()
		return nil, &errs.CorrelationError{Op: "register", Msg: "cid " + cid.String() + " already registered"}
	}

	// The timer holds a reference capable of removing the record — it is
	// armed before the lock is released, so no concurrent match, reject,
	// cancel, or clear can find the entry without its timer, and it is
	// disarmed synchronously by whichever of those terminates the record
	// first. A timer that fires early blocks in timeoutFire until the lock
	// is released.
	e := &entry{done: make(chan struct{})}
	e.timer = time.AfterFunc(timeout, func() { en.timeoutFire(cid) })
	en.entries[cid] = e
	en.mu.Unlock()

	return &Handle{e: e}, nil
}

// Match resolves the pending entry for cid as a success with value. Fails
// with a CorrelationError if cid is not registered.
func (en *Engine) Match(cid identity.FrameID, value any) error {
	e, err := en.remove(cid, "match")
	if err != nil {
		return err
	}
	e.timer.Stop()
	e.resolve(value, nil)
	return nil
}

// Reject resolves the pending entry for cid as a failure with reason.
// Fails with a CorrelationError if cid is not registered.
func (en *Engine) Reject(cid identity.FrameID, reason error) error {
	e, err := en.remove(cid, "reject")
	if err != nil {
		return err
	}
	e.timer.Stop()
	e.resolve(nil, reason)
	return nil
}

// Cancel is a convenience for an explicit manual cancel: it removes the
// entry and resolves it as failure with ErrCancelled. Unlike an abandoned
// handle (which persists until timeout or clear), Cancel deregisters
// eagerly. A cid not registered is not an error — cancel is idempotent
// with respect to races against match/reject/timeout.
func (en *Engine) Cancel(cid identity.FrameID) {
	e, err := en.remove(cid, "cancel")
	if err != nil {
		return
	}
	e.timer.Stop()
	e.resolve(nil, errs.ErrCancelled)
}

// Clear rejects every entry registered strictly before this call as a
// disconnect failure and leaves the registry empty. Idempotent, never
// fails. Entries registered after Clear returns are unaffected.
func (en *Engine) Clear() {
	en.mu.Lock()
	snapshot := en.entries
	en.entries = make(map[identity.FrameID]*entry)
	en.mu.Unlock()

	for _, e := range snapshot {
		e.timer.Stop()
		e.resolve(nil, errs.ErrDisconnect)
	}
}

// PendingCount returns the current number of outstanding entries.
func (en *Engine) PendingCount() int {
	en.mu.Lock()
	defer en.mu.Unlock()
	return len(en.entries)
}

// remove atomically looks up and deletes the entry for cid, the common
// step shared by match/reject/cancel: only one caller among a concurrent
// match/reject/timeout/clear can ever observe the entry present and
// delete it, which is what makes completion fire-once.
func (en *Engine) remove(cid identity.FrameID, op string) (*entry, error) {
	en.mu.Lock()
	e, ok := en.entries[cid]
	if ok {
		delete(en.entries, cid)
	}
	en.mu.Unlock()
	if !ok {
		return nil, &errs.CorrelationError{Op: op, Msg: "cid " + cid.String() + " not registered"}
	}
	return e, nil
}

// timeoutFire is invoked by the entry's timer. If the entry is still
// registered it is removed and resolved as a timeout failure; if it has
// already been terminated by match/reject/clear, this is a no-op —
// whichever event reaches the map first wins, and timer.Stop() in the
// other paths prevents a stale timeout from firing after that.
func (en *Engine) timeoutFire(cid identity.FrameID) {
	en.mu.Lock()
	e, ok := en.entries[cid]
	if ok {
		delete(en.entries, cid)
	}
	en.mu.Unlock()
	if !ok {
		return
	}
	e.resolve(nil, errs.ErrTimeout)
}
