// Package handshake implements the handshake payload codec: the
// text-encoded structured object carried as the data of a Handshake
// control frame. Grounded on envelope's JSON approach and on the
// teacher's registry.ServiceInstance peer-addressing fields for the
// metadata namespacing convention.
package handshake

import (
	"encoding/json"

	"github.com/sideband/core/errs"
	"github.com/sideband/core/identity"
)

// ProtocolName and ProtocolVersion are the only values v1 accepts. Any
// mismatch on decode is an UnsupportedVersion failure.
const (
	ProtocolName    = "sideband"
	ProtocolVersion = "1"
)

// Payload is the handshake's structured content. Capabilities and
// Metadata are free-form extension points: unknown tokens and keys are
// silently ignored by the receiver, never rejected.
type Payload struct {
	Protocol     string            `json:"protocol"`
	Version      string            `json:"version"`
	PeerID       identity.PeerID   `json:"peerId"`
	Capabilities []string          `json:"caps,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// New builds a v1 Payload for an already-validated peer id, with optional
// capabilities and metadata. Callers construct peerID via
// identity.ValidatePeerID first, the same way a Message frame's Subject
// must be validated before NewMessageFrame.
func New(peerID identity.PeerID, caps []string, metadata map[string]string) Payload {
	return Payload{
		Protocol:     ProtocolName,
		Version:      ProtocolVersion,
		PeerID:       peerID,
		Capabilities: caps,
		Metadata:     metadata,
	}
}

// Encode serializes the payload to UTF-8 text (JSON).
func Encode(p Payload) ([]byte, error) {
	if p.Protocol == "" || p.Version == "" || p.PeerID.IsZero() {
		return nil, errs.NewInvalidFrame("handshake: protocol, version, and peerId are required")
	}
	return json.Marshal(p)
}

// wirePayload lets Decode distinguish "field absent" from "field present
// but not a string" before committing to the typed Payload.
type wirePayload struct {
	Protocol     *string           `json:"protocol"`
	Version      *string           `json:"version"`
	PeerID       *identity.PeerID  `json:"peerId"`
	Capabilities []string          `json:"caps,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// Decode parses bytes as UTF-8 JSON text. It rejects with InvalidFrame if
// protocol, version, or peerId are missing or not strings; with
// UnsupportedVersion if protocol or version don't match this
// implementation's v1 exactly. caps and metadata pass through unchanged —
// unknown capability tokens and metadata keys are never validated here.
func Decode(data []byte) (Payload, error) {
	var w wirePayload
	if err := json.Unmarshal(data, &w); err != nil {
		return Payload{}, errs.NewInvalidFrame("handshake: not a valid JSON object: %v", err)
	}
	if w.Protocol == nil || *w.Protocol == "" {
		return Payload{}, errs.NewInvalidFrame("handshake: missing protocol")
	}
	if w.Version == nil || *w.Version == "" {
		return Payload{}, errs.NewInvalidFrame("handshake: missing version")
	}
	if w.PeerID == nil || w.PeerID.IsZero() {
		return Payload{}, errs.NewInvalidFrame("handshake: missing peerId")
	}

	if *w.Protocol != ProtocolName || *w.Version != ProtocolVersion {
		return Payload{}, errs.NewUnsupportedVersion(
			"handshake: protocol=%q version=%q, want protocol=%q version=%q",
			*w.Protocol, *w.Version, ProtocolName, ProtocolVersion)
	}

	return Payload{
		Protocol:     *w.Protocol,
		Version:      *w.Version,
		PeerID:       *w.PeerID,
		Capabilities: w.Capabilities,
		Metadata:     w.Metadata,
	}, nil
}
