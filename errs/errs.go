// Package errs defines the error taxonomy shared by every layer of the
// sideband core: identity, wire, envelope, handshake, and correlate all
// surface one of the sentinels below, wrapped with enough
// context to log or to put on the wire as an Error frame.
package errs

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Callers match with errors.Is, never string comparison.
var (
	// ErrProtocolViolation marks a structurally valid frame that breaks a
	// protocol contract (bad subject, oversize frame).
	ErrProtocolViolation = errors.New("protocol violation")

	// ErrUnsupportedVersion marks a handshake protocol/version mismatch.
	ErrUnsupportedVersion = errors.New("unsupported version")

	// ErrInvalidFrame marks a malformed buffer: short read, inconsistent
	// length, bad UTF-8, reserved flag bits set, unknown discriminant.
	ErrInvalidFrame = errors.New("invalid frame")

	// ErrCorrelation marks a programming error in the correlation engine:
	// duplicate register, or match/reject on an unregistered id.
	ErrCorrelation = errors.New("correlation error")

	// ErrTimeout marks a pending request whose deadline elapsed with no
	// match or reject.
	ErrTimeout = errors.New("timed out")

	// ErrDisconnect marks a pending request rejected in bulk by clear().
	ErrDisconnect = errors.New("disconnected")

	// ErrCancelled marks a pending request removed by an explicit manual
	// cancel, equivalent to reject(cid, Cancelled).
	ErrCancelled = errors.New("cancelled")
)

// Wire codes per spec: 1000-1999 protocol errors, 2000+ application errors.
const (
	CodeProtocolViolation uint16 = 1000
	CodeUnsupportedVersion uint16 = 1001
	CodeInvalidFrame       uint16 = 1002
)

// CodecError is a ProtocolViolation/UnsupportedVersion/InvalidFrame error
// carrying the numeric wire code alongside the sentinel it wraps, so a
// driver can both errors.Is it and emit the right ErrorFrame code.
type CodecError struct {
	Code uint16
	Kind error // one of the sentinels above
	Msg  string
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *CodecError) Unwrap() error {
	return e.Kind
}

// NewInvalidFrame builds an InvalidFrame CodecError with a formatted message.
func NewInvalidFrame(format string, args ...any) *CodecError {
	return &CodecError{Code: CodeInvalidFrame, Kind: ErrInvalidFrame, Msg: fmt.Sprintf(format, args...)}
}

// NewProtocolViolation builds a ProtocolViolation CodecError with a formatted message.
func NewProtocolViolation(format string, args ...any) *CodecError {
	return &CodecError{Code: CodeProtocolViolation, Kind: ErrProtocolViolation, Msg: fmt.Sprintf(format, args...)}
}

// NewUnsupportedVersion builds an UnsupportedVersion CodecError with a formatted message.
func NewUnsupportedVersion(format string, args ...any) *CodecError {
	return &CodecError{Code: CodeUnsupportedVersion, Kind: ErrUnsupportedVersion, Msg: fmt.Sprintf(format, args...)}
}

// CorrelationError is a programming-error surfaced synchronously to the
// immediate caller of register/match/reject — never sent over the wire.
type CorrelationError struct {
	Op  string // "register", "match", "reject", or "cancel"
	Msg string
}

func (e *CorrelationError) Error() string {
	return fmt.Sprintf("correlate: %s: %s", e.Op, e.Msg)
}

func (e *CorrelationError) Unwrap() error {
	return ErrCorrelation
}
