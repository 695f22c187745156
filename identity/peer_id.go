package identity

import (
	"encoding/json"

	"github.com/sideband/core/errs"
)

// PeerID identifies a peer across the handshake payload and the peer
// directory. Unlike Subject, it is not wire-validated beyond non-empty —
// the namespace of legal peer identifiers is an application convention,
// not part of this protocol's wire contract.
type PeerID struct {
	raw string
}

// ValidatePeerID rejects only the empty string; any other non-empty text
// is a legal PeerID.
func ValidatePeerID(text string) (PeerID, error) {
	if text == "" {
		return PeerID{}, errs.NewInvalidFrame("peer id: empty")
	}
	return PeerID{raw: text}, nil
}

// String returns the original string verbatim.
func (p PeerID) String() string {
	return p.raw
}

// Equal reports whether two PeerIDs carry the same original string. It
// lets go-cmp compare PeerID values despite the unexported backing field.
func (p PeerID) Equal(other PeerID) bool {
	return p.raw == other.raw
}

// IsZero reports whether p is the unvalidated zero value.
func (p PeerID) IsZero() bool {
	return p.raw == ""
}

// MarshalJSON renders a PeerID as a bare JSON string, so it serializes
// the same way a plain string field would.
func (p PeerID) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.raw)
}

// UnmarshalJSON accepts a bare JSON string. It does not itself enforce
// non-emptiness — callers that need the ValidatePeerID guarantee on
// decoded input check it explicitly, the way handshake.Decode rejects a
// peerId field for which IsZero reports true.
func (p *PeerID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	p.raw = s
	return nil
}
