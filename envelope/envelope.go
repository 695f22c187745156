// Package envelope implements the RPC envelope codec: the structured
// payload format (request / success response / error response /
// notification) carried inside a Message frame's data field. It is
// grounded on the teacher's message.RPCMessage, generalized from a single
// flat struct to a tagged sum over four variants (see design note in
// SPEC_FULL.md §9 on duck-typed-to-tagged-sum decoding).
package envelope

import (
	"github.com/sideband/core/identity"
)

// Envelope is implemented by Request, Success, ErrorResp, and Notification.
// It is a closed sum type: Decode never produces a fifth variant, and an
// unknown tag on the wire is an error, not a new case.
type Envelope interface {
	envelopeTag() byte
}

// Request is the `t="r"` variant: a method call with a correlation id the
// response must copy back unchanged.
type Request struct {
	Method string
	Params []byte // optional, raw JSON; nil if absent
	CID    identity.FrameID
}

func (Request) envelopeTag() byte { return 'r' }

// Success is the `t="R"` variant: a successful response.
type Success struct {
	Result []byte // optional, raw JSON; nil if absent
	CID    identity.FrameID
}

func (Success) envelopeTag() byte { return 'R' }

// ErrorResp is the `t="E"` variant: a failed response.
type ErrorResp struct {
	Code    int
	Message string
	Data    []byte // optional, raw JSON; nil if absent
	CID     identity.FrameID
}

func (ErrorResp) envelopeTag() byte { return 'E' }

// Notification is the `t="N"` variant: fire-and-forget, no correlation id
// and no response expected.
type Notification struct {
	Event string
	Data  []byte // optional, raw JSON; nil if absent
}

func (Notification) envelopeTag() byte { return 'N' }

// NewResponseTo builds a Success envelope that copies cid unchanged, per
// the correlation rule: receivers producing a response MUST copy the
// request's cid verbatim and MUST NOT reuse it as an outbound frame id.
func NewResponseTo(req Request, result []byte) Success {
	return Success{Result: result, CID: req.CID}
}

// NewErrorResponseTo builds an ErrorResp envelope that copies cid unchanged.
func NewErrorResponseTo(req Request, code int, message string, data []byte) ErrorResp {
	return ErrorResp{Code: code, Message: message, Data: data, CID: req.CID}
}
