package identity

import (
	"strings"
	"testing"
)

func TestValidateSubjectAccepts(t *testing.T) {
	cases := []string{
		"rpc/echo",
		"event/user.created",
		"stream/logs",
		"app/anything",
		"rpc/" + strings.Repeat("a", 256-len("rpc/")), // exactly 256 bytes
	}
	for _, s := range cases {
		subj, err := ValidateSubject(s)
		if err != nil {
			t.Errorf("ValidateSubject(%q) failed: %v", s, err)
			continue
		}
		if subj.String() != s {
			t.Errorf("ValidateSubject(%q).String() = %q, want original verbatim", s, subj.String())
		}
	}
}

func TestValidateSubjectRejects(t *testing.T) {
	tooLong := "rpc/" + strings.Repeat("a", 300)
	cases := []string{
		"",
		"invalid/x",
		"foo/bar",
		tooLong,
		"rpc/has\x00null",
	}
	for _, s := range cases {
		if _, err := ValidateSubject(s); err == nil {
			t.Errorf("ValidateSubject(%q) succeeded, want ProtocolViolation", s)
		}
	}
}

func TestValidateSubjectRejectsBadPrefixNamesAllowedOnes(t *testing.T) {
	_, err := ValidateSubject("invalid/x")
	if err == nil {
		t.Fatal("expected error")
	}
	for _, p := range []string{"rpc/", "event/", "stream/", "app/"} {
		if !strings.Contains(err.Error(), p) {
			t.Errorf("error message %q should name prefix %q", err.Error(), p)
		}
	}
}

func TestValidateSubjectMeasuresUTF8Bytes(t *testing.T) {
	// "é" is 2 bytes in UTF-8 but one code point; a subject built from
	// enough of them should be rejected on byte length even though the
	// rune count alone would be well under 256.
	s := "app/" + strings.Repeat("é", 200) // 4 + 400 = 404 bytes
	if len(s) <= 256 {
		t.Fatalf("test setup: expected > 256 bytes, got %d", len(s))
	}
	if _, err := ValidateSubject(s); err == nil {
		t.Error("expected ProtocolViolation for oversize multi-byte subject")
	}
}
