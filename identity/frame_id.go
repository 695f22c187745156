// Package identity provides the core's validated value types: FrameID,
// an opaque 128-bit frame identifier; Subject, a validated routing key;
// and PeerID, a non-empty peer identifier. All are pure value types — no shared state, no suspension, safe to use
// from any number of goroutines without synchronization.
package identity

import (
	"encoding/hex"

	"github.com/google/uuid"
	"github.com/sideband/core/errs"
)

// FrameIDSize is the fixed length of a FrameID in bytes.
const FrameIDSize = 16

// FrameID is an opaque 16-byte value. Decoders must not interpret any bit
// of it — it carries no internal structure, only identity. It is
// sender-locally unique per frame emitted; receivers must never reuse or
// echo it back as an outbound frame identifier.
type FrameID [FrameIDSize]byte

// NewFrameID returns 16 bytes from uuid.New() (RFC 4122 version 4), which
// draws from a CSPRNG. 122 of the 128 bits are random; the 6 version and
// variant bits UUID v4 fixes (the high nibble of byte 6 is 4, the top two
// bits of byte 8 are 10) are always set. FrameID treats the result as 16
// opaque bytes and never interprets those bits.
func NewFrameID() FrameID {
	return FrameID(uuid.New())
}

// FrameIDFromBytes validates and wraps a byte slice as a FrameID. Fails
// with InvalidFrame unless the length is exactly FrameIDSize.
func FrameIDFromBytes(b []byte) (FrameID, error) {
	var id FrameID
	if len(b) != FrameIDSize {
		return id, errs.NewInvalidFrame("frame id: want %d bytes, got %d", FrameIDSize, len(b))
	}
	copy(id[:], b)
	return id, nil
}

// Bytes returns the identifier's 16 bytes as a fresh slice; mutating the
// result never affects the FrameID value itself.
func (id FrameID) Bytes() []byte {
	out := make([]byte, FrameIDSize)
	copy(out, id[:])
	return out
}

// String renders the identifier as 32 lowercase hex characters, the human
// form used for logging and for JSON transport of correlation ids.
func (id FrameID) String() string {
	return hex.EncodeToString(id[:])
}

// isHex32 reports whether s is exactly 32 lowercase hex characters.
func isHex32(s string) bool {
	if len(s) != 32 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		default:
			return false
		}
	}
	return true
}

// FrameIDFromHex parses a 32-character lowercase hex string back into a
// FrameID. Fails unless the input matches [0-9a-f]{32} exactly.
func FrameIDFromHex(s string) (FrameID, error) {
	var id FrameID
	if !isHex32(s) {
		return id, errs.NewInvalidFrame("frame id: %q is not 32 lowercase hex characters", s)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, errs.NewInvalidFrame("frame id: %v", err)
	}
	copy(id[:], b)
	return id, nil
}

// IsZero reports whether id is the all-zero value. The zero value is
// itself a perfectly legal FrameID on the wire, so IsZero cannot tell an
// absent id apart from a genuine all-zero one.
func (id FrameID) IsZero() bool {
	return id == FrameID{}
}
