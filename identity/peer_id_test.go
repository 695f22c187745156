package identity

import (
	"encoding/json"
	"testing"
)

func TestValidatePeerIDRejectsEmpty(t *testing.T) {
	if _, err := ValidatePeerID(""); err == nil {
		t.Fatal("expected error for empty peer id")
	}
}

func TestValidatePeerIDAcceptsAnyNonEmptyString(t *testing.T) {
	cases := []string{"peer-1", "urn:peer:abc", "  spaces  ", "😀"}
	for _, c := range cases {
		p, err := ValidatePeerID(c)
		if err != nil {
			t.Errorf("ValidatePeerID(%q) failed: %v", c, err)
		}
		if p.String() != c {
			t.Errorf("String() = %q, want %q", p.String(), c)
		}
	}
}

func TestPeerIDJSONRoundTrip(t *testing.T) {
	p, err := ValidatePeerID("peer-1")
	if err != nil {
		t.Fatalf("ValidatePeerID failed: %v", err)
	}

	buf, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(buf) != `"peer-1"` {
		t.Errorf("Marshal = %s, want \"peer-1\"", buf)
	}

	var decoded PeerID
	if err := json.Unmarshal(buf, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !decoded.Equal(p) {
		t.Errorf("decoded = %v, want %v", decoded, p)
	}
}

func TestPeerIDJSONRoundTripAsStructField(t *testing.T) {
	type wrapper struct {
		ID *PeerID `json:"id,omitempty"`
	}
	p, _ := ValidatePeerID("peer-2")
	buf, err := json.Marshal(wrapper{ID: &p})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var out wrapper
	if err := json.Unmarshal(buf, &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if out.ID == nil || !out.ID.Equal(p) {
		t.Errorf("out.ID = %v, want %v", out.ID, p)
	}

	var absent wrapper
	if err := json.Unmarshal([]byte(`{}`), &absent); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if absent.ID != nil {
		t.Errorf("absent.ID = %v, want nil", absent.ID)
	}
}

func TestPeerIDIsZero(t *testing.T) {
	var zero PeerID
	if !zero.IsZero() {
		t.Error("zero value IsZero() = false, want true")
	}
	p, _ := ValidatePeerID("x")
	if p.IsZero() {
		t.Error("validated PeerID IsZero() = true, want false")
	}
}
