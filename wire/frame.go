// Package wire implements the binary frame codec: the encoder/decoder for
// the four frame kinds and their invariants. It solves the same "how do we
// delimit messages on a byte stream" problem the teacher's protocol package
// solves with its 14-byte magic/version/codec header, generalized to the
// spec's 18-byte kind/flags/frame-id header and four payload shapes.
//
// Frame format (little-endian multi-byte integers):
//
//	offset 0:   1 byte  kind (0..3)
//	offset 1:   1 byte  flags, reserved, MUST be 0 in v1
//	offset 2:  16 bytes frame identifier
//	offset 18: payload, type-specific
package wire

import (
	"github.com/sideband/core/identity"
)

// Kind discriminates the four frame variants.
type Kind byte

const (
	KindControl Kind = 0
	KindMessage Kind = 1
	KindAck     Kind = 2
	KindError   Kind = 3
)

func (k Kind) String() string {
	switch k {
	case KindControl:
		return "control"
	case KindMessage:
		return "message"
	case KindAck:
		return "ack"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// ControlOp discriminates the four control operations.
type ControlOp byte

const (
	OpHandshake ControlOp = 0
	OpPing      ControlOp = 1
	OpPong      ControlOp = 2
	OpClose     ControlOp = 3
)

func (op ControlOp) String() string {
	switch op {
	case OpHandshake:
		return "handshake"
	case OpPing:
		return "ping"
	case OpPong:
		return "pong"
	case OpClose:
		return "close"
	default:
		return "unknown"
	}
}

// HeaderSize is the fixed-size portion of every frame: kind + flags + id.
const HeaderSize = 1 + 1 + identity.FrameIDSize

// reservedFlags is the only legal value of the flags byte in v1 — all 8
// bits reserved and must be zero.
const reservedFlags byte = 0

// Frame is an immutable, decoded wire frame. Once returned by Decode, a
// Frame's fields must never be mutated by the caller; any mutation is a
// programming error. Only one of Control/Message/Ack/Error is populated,
// selected by Kind.
type Frame struct {
	Kind Kind
	ID   identity.FrameID

	Control *ControlPayload
	Message *MessagePayload
	Ack     *AckPayload
	Error   *ErrorPayload
}

// ControlPayload is the one-byte-op-plus-optional-data payload of a
// Control frame.
type ControlPayload struct {
	Op   ControlOp
	Data []byte // required for Handshake, forbidden for Ping/Pong, optional for Close
}

// MessagePayload is the subject-plus-data payload of a Message frame.
type MessagePayload struct {
	Subject identity.Subject
	Data    []byte
}

// AckPayload is the 16-byte target-frame-identifier payload of an Ack frame.
type AckPayload struct {
	AckID identity.FrameID
}

// ErrorPayload is the code-plus-message-plus-optional-details payload of
// an Error frame.
type ErrorPayload struct {
	Code    uint16
	Message string
	Details []byte
}

// NewControlFrame builds a Control frame value. It does not validate — call
// Encode to both validate and serialize.
func NewControlFrame(id identity.FrameID, op ControlOp, data []byte) Frame {
	return Frame{Kind: KindControl, ID: id, Control: &ControlPayload{Op: op, Data: data}}
}

// NewMessageFrame builds a Message frame value.
func NewMessageFrame(id identity.FrameID, subject identity.Subject, data []byte) Frame {
	return Frame{Kind: KindMessage, ID: id, Message: &MessagePayload{Subject: subject, Data: data}}
}

// NewAckFrame builds an Ack frame value referencing the target frame's id.
func NewAckFrame(id identity.FrameID, ackID identity.FrameID) Frame {
	return Frame{Kind: KindAck, ID: id, Ack: &AckPayload{AckID: ackID}}
}

// NewErrorFrame builds an Error frame value.
func NewErrorFrame(id identity.FrameID, code uint16, message string, details []byte) Frame {
	return Frame{Kind: KindError, ID: id, Error: &ErrorPayload{Code: code, Message: message, Details: details}}
}
