package envelope

import (
	"bytes"
	"encoding/json"

	"github.com/sideband/core/errs"
	"github.com/sideband/core/identity"
)

// wireEnvelope mirrors the field contract table in SPEC_FULL.md §4.3
// exactly — field names are part of the wire contract, not an
// implementation detail. Absent optional fields are omitted on encode
// (never serialized as null).
type wireEnvelope struct {
	T       string          `json:"t"`
	M       string          `json:"m,omitempty"`
	P       json.RawMessage `json:"p,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Code    *int            `json:"code,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	E       string          `json:"e,omitempty"`
	D       json.RawMessage `json:"d,omitempty"`
	CID     string          `json:"cid,omitempty"`
}

// Encode serializes an Envelope to its v1 JSON text form. The correlation
// id, when present, is rendered as 32-char lowercase hex.
func Encode(e Envelope) ([]byte, error) {
	switch v := e.(type) {
	case Request:
		return json.Marshal(wireEnvelope{
			T: "r", M: v.Method, P: json.RawMessage(v.Params), CID: v.CID.String(),
		})
	case Success:
		return json.Marshal(wireEnvelope{
			T: "R", Result: json.RawMessage(v.Result), CID: v.CID.String(),
		})
	case ErrorResp:
		code := v.Code
		return json.Marshal(wireEnvelope{
			T: "E", Code: &code, Message: v.Message, Data: json.RawMessage(v.Data), CID: v.CID.String(),
		})
	case Notification:
		return json.Marshal(wireEnvelope{
			T: "N", E: v.Event, D: json.RawMessage(v.Data),
		})
	default:
		return nil, errs.NewInvalidFrame("envelope: encode: unknown variant %T", e)
	}
}

// Decode parses bytes into one of the four Envelope variants. Every
// failure is a ProtocolViolation, per the decode validation failures
// table in SPEC_FULL.md §4.3.
func Decode(data []byte) (Envelope, error) {
	var w wireEnvelope
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	// DisallowUnknownFields only rejects top-level keys not present in
	// wireEnvelope; it does not reject a non-object input. The decoder
	// reports most non-object input as an error translated below; a JSON
	// null decodes without error, leaves t empty, and fails the tag check.
	if err := dec.Decode(&w); err != nil {
		return nil, errs.NewProtocolViolation("envelope: not a valid envelope object: %v", err)
	}

	switch w.T {
	case "r":
		return decodeRequest(w)
	case "R":
		return decodeSuccess(w)
	case "E":
		return decodeErrorResp(w)
	case "N":
		return decodeNotification(w)
	case "":
		return nil, errs.NewProtocolViolation("envelope: missing t")
	default:
		return nil, errs.NewProtocolViolation("envelope: unknown tag %q", w.T)
	}
}

func parseCID(hex string) (identity.FrameID, error) {
	if hex == "" {
		return identity.FrameID{}, errs.NewProtocolViolation("envelope: missing cid")
	}
	id, err := identity.FrameIDFromHex(hex)
	if err != nil {
		return identity.FrameID{}, errs.NewProtocolViolation("envelope: cid %q does not match hex regex", hex)
	}
	return id, nil
}

func decodeRequest(w wireEnvelope) (Envelope, error) {
	if w.M == "" {
		return nil, errs.NewProtocolViolation("envelope: request missing m")
	}
	cid, err := parseCID(w.CID)
	if err != nil {
		return nil, err
	}
	return Request{Method: w.M, Params: w.P, CID: cid}, nil
}

func decodeSuccess(w wireEnvelope) (Envelope, error) {
	cid, err := parseCID(w.CID)
	if err != nil {
		return nil, err
	}
	return Success{Result: w.Result, CID: cid}, nil
}

func decodeErrorResp(w wireEnvelope) (Envelope, error) {
	if w.Code == nil {
		return nil, errs.NewProtocolViolation("envelope: error response missing code")
	}
	if w.Message == "" {
		return nil, errs.NewProtocolViolation("envelope: error response missing message")
	}
	cid, err := parseCID(w.CID)
	if err != nil {
		return nil, err
	}
	return ErrorResp{Code: *w.Code, Message: w.Message, Data: w.Data, CID: cid}, nil
}

func decodeNotification(w wireEnvelope) (Envelope, error) {
	if w.E == "" {
		return nil, errs.NewProtocolViolation("envelope: notification missing e")
	}
	return Notification{Event: w.E, Data: w.D}, nil
}
