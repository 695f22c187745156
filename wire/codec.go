package wire

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/sideband/core/errs"
	"github.com/sideband/core/identity"
)

// Encode serializes a Frame to bytes, enforcing every per-variant invariant
// before writing. On violation it fails with InvalidFrame, except that a
// Message subject failing revalidation surfaces the subject validator's
// ProtocolViolation; either way the caller
// (transport driver) is expected to close the connection rather than
// retry locally, per the error handling policy.
func Encode(f Frame) ([]byte, error) {
	switch f.Kind {
	case KindControl:
		return encodeControl(f)
	case KindMessage:
		return encodeMessage(f)
	case KindAck:
		return encodeAck(f)
	case KindError:
		return encodeError(f)
	default:
		return nil, errs.NewInvalidFrame("encode: unknown frame kind %d", f.Kind)
	}
}

func header(kind Kind, id identity.FrameID, payloadLen int) []byte {
	buf := make([]byte, HeaderSize+payloadLen)
	buf[0] = byte(kind)
	buf[1] = reservedFlags
	copy(buf[2:HeaderSize], id[:])
	return buf
}

func encodeControl(f Frame) ([]byte, error) {
	c := f.Control
	if c == nil {
		return nil, errs.NewInvalidFrame("encode: control frame missing payload")
	}
	switch c.Op {
	case OpHandshake:
		if len(c.Data) == 0 {
			return nil, errs.NewInvalidFrame("encode: handshake op requires non-empty data")
		}
	case OpPing, OpPong:
		if len(c.Data) != 0 {
			return nil, errs.NewInvalidFrame("encode: %v op forbids data", c.Op)
		}
	case OpClose:
		if len(c.Data) != 0 && !utf8.Valid(c.Data) {
			return nil, errs.NewInvalidFrame("encode: close reason is not valid UTF-8")
		}
	default:
		return nil, errs.NewInvalidFrame("encode: unknown control op %d", c.Op)
	}

	buf := header(KindControl, f.ID, 1+len(c.Data))
	buf[HeaderSize] = byte(c.Op)
	copy(buf[HeaderSize+1:], c.Data)
	return buf, nil
}

func encodeMessage(f Frame) ([]byte, error) {
	m := f.Message
	if m == nil {
		return nil, errs.NewInvalidFrame("encode: message frame missing payload")
	}
	// Revalidate the subject at encode time — a caller must not be able to
	// smuggle an unvalidated Subject value through the type system.
	subj, err := identity.ValidateSubject(m.Subject.String())
	if err != nil {
		return nil, err
	}
	subjBytes := []byte(subj.String())

	total := 4 + len(subjBytes) + len(m.Data)
	buf := header(KindMessage, f.ID, total)
	off := HeaderSize
	binary.LittleEndian.PutUint32(buf[off:off+4], uint32(len(subjBytes)))
	off += 4
	copy(buf[off:off+len(subjBytes)], subjBytes)
	off += len(subjBytes)
	copy(buf[off:], m.Data)
	return buf, nil
}

func encodeAck(f Frame) ([]byte, error) {
	a := f.Ack
	if a == nil {
		return nil, errs.NewInvalidFrame("encode: ack frame missing payload")
	}
	buf := header(KindAck, f.ID, identity.FrameIDSize)
	copy(buf[HeaderSize:], a.AckID[:])
	return buf, nil
}

func encodeError(f Frame) ([]byte, error) {
	e := f.Error
	if e == nil {
		return nil, errs.NewInvalidFrame("encode: error frame missing payload")
	}
	if !utf8.ValidString(e.Message) {
		return nil, errs.NewInvalidFrame("encode: error message is not valid UTF-8")
	}
	msgBytes := []byte(e.Message)
	total := 2 + 4 + len(msgBytes) + len(e.Details)
	buf := header(KindError, f.ID, total)
	off := HeaderSize
	binary.LittleEndian.PutUint16(buf[off:off+2], e.Code)
	off += 2
	binary.LittleEndian.PutUint32(buf[off:off+4], uint32(len(msgBytes)))
	off += 4
	copy(buf[off:off+len(msgBytes)], msgBytes)
	off += len(msgBytes)
	copy(buf[off:], e.Details)
	return buf, nil
}

// Decode parses a byte sequence into an immutable Frame. The implementation
// never trusts a peer-supplied length without bounds-checking it against
// the remaining buffer first.
func Decode(buf []byte, limits Limits) (Frame, error) {
	if limits.MaxFrameSize > 0 && len(buf) > limits.MaxFrameSize {
		return Frame{}, errs.NewProtocolViolation("decode: frame of %d bytes exceeds max %d", len(buf), limits.MaxFrameSize)
	}
	if len(buf) < HeaderSize {
		return Frame{}, errs.NewInvalidFrame("decode: buffer of %d bytes shorter than header %d", len(buf), HeaderSize)
	}
	if buf[1] != reservedFlags {
		return Frame{}, errs.NewInvalidFrame("decode: reserved flags byte must be 0, got %#x", buf[1])
	}

	kind := Kind(buf[0])
	id, err := identity.FrameIDFromBytes(buf[2:HeaderSize])
	if err != nil {
		return Frame{}, err
	}
	payload := buf[HeaderSize:]

	switch kind {
	case KindControl:
		return decodeControl(id, payload, limits)
	case KindMessage:
		return decodeMessage(id, payload)
	case KindAck:
		return decodeAck(id, payload)
	case KindError:
		return decodeError(id, payload)
	default:
		return Frame{}, errs.NewInvalidFrame("decode: unknown frame kind %d", buf[0])
	}
}

func decodeControl(id identity.FrameID, payload []byte, limits Limits) (Frame, error) {
	if len(payload) < 1 {
		return Frame{}, errs.NewInvalidFrame("decode: control frame missing op byte")
	}
	op := ControlOp(payload[0])
	data := payload[1:]

	switch op {
	case OpHandshake:
		if len(data) == 0 {
			return Frame{}, errs.NewInvalidFrame("decode: handshake op with empty data")
		}
		if limits.MaxHandshakeSize > 0 && len(data) > limits.MaxHandshakeSize {
			return Frame{}, errs.NewProtocolViolation("decode: handshake payload of %d bytes exceeds max %d", len(data), limits.MaxHandshakeSize)
		}
	case OpPing, OpPong:
		if len(data) != 0 {
			return Frame{}, errs.NewInvalidFrame("decode: %v op with data", op)
		}
	case OpClose:
		if len(data) != 0 && !utf8.Valid(data) {
			return Frame{}, errs.NewInvalidFrame("decode: close reason is not valid UTF-8")
		}
	default:
		return Frame{}, errs.NewInvalidFrame("decode: unknown control op %d", op)
	}

	return Frame{Kind: KindControl, ID: id, Control: &ControlPayload{Op: op, Data: copyBytes(data)}}, nil
}

// copyBytes returns an independent copy of b, never aliasing the caller's
// backing array — decoded frames must not let a caller mutate them via a
// shared slice. A zero-length input yields nil rather than an allocated
// empty slice, so decoding round-trips with frames built from a nil data
// argument.
func copyBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func decodeMessage(id identity.FrameID, payload []byte) (Frame, error) {
	if len(payload) < 4 {
		return Frame{}, errs.NewInvalidFrame("decode: message frame missing 4-byte subject length")
	}
	subjLen := binary.LittleEndian.Uint32(payload[0:4])
	rest := payload[4:]
	if uint64(subjLen) > uint64(len(rest)) {
		return Frame{}, errs.NewInvalidFrame("decode: subject length %d exceeds remaining payload %d", subjLen, len(rest))
	}
	subjBytes := rest[:subjLen]
	if !utf8.Valid(subjBytes) {
		return Frame{}, errs.NewInvalidFrame("decode: subject is not valid UTF-8")
	}
	subj, err := identity.ValidateSubject(string(subjBytes))
	if err != nil {
		return Frame{}, err
	}

	data := rest[subjLen:]
	return Frame{Kind: KindMessage, ID: id, Message: &MessagePayload{Subject: subj, Data: copyBytes(data)}}, nil
}

func decodeAck(id identity.FrameID, payload []byte) (Frame, error) {
	if len(payload) != identity.FrameIDSize {
		return Frame{}, errs.NewInvalidFrame("decode: ack payload must be exactly %d bytes, got %d", identity.FrameIDSize, len(payload))
	}
	ackID, err := identity.FrameIDFromBytes(payload)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Kind: KindAck, ID: id, Ack: &AckPayload{AckID: ackID}}, nil
}

func decodeError(id identity.FrameID, payload []byte) (Frame, error) {
	const headerBytes = 2 + 4
	if len(payload) < headerBytes {
		return Frame{}, errs.NewInvalidFrame("decode: error payload shorter than %d header bytes", headerBytes)
	}
	code := binary.LittleEndian.Uint16(payload[0:2])
	msgLen := binary.LittleEndian.Uint32(payload[2:6])
	rest := payload[6:]
	if uint64(msgLen) > uint64(len(rest)) {
		return Frame{}, errs.NewInvalidFrame("decode: error message length %d exceeds remaining payload %d", msgLen, len(rest))
	}
	msgBytes := rest[:msgLen]
	if !utf8.Valid(msgBytes) {
		return Frame{}, errs.NewInvalidFrame("decode: error message is not valid UTF-8")
	}

	details := rest[msgLen:]
	return Frame{Kind: KindError, ID: id, Error: &ErrorPayload{
		Code:    code,
		Message: string(msgBytes),
		Details: copyBytes(details),
	}}, nil
}
