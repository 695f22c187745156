package identity

import (
	"strings"

	"github.com/sideband/core/errs"
)

// MaxSubjectBytes is the hard, per-validator maximum subject length,
// measured in UTF-8 encoded bytes, not code points.
const MaxSubjectBytes = 256

// reservedPrefixes is the closed set of subject prefixes. Extending it is
// a protocol-version change, not a runtime configuration option.
var reservedPrefixes = []string{"rpc/", "event/", "stream/", "app/"}

// Subject is a validated routing key carried on message frames. The zero
// value is not a valid Subject; construct one with ValidateSubject.
type Subject struct {
	raw string
}

// String returns the original string verbatim.
func (s Subject) String() string {
	return s.raw
}

// Equal reports whether two Subjects carry the same original string. It
// lets go-cmp compare Subject values despite the unexported backing field.
func (s Subject) Equal(other Subject) bool {
	return s.raw == other.raw
}

// ValidateSubject checks text against every subject invariant and returns
// a branded Subject on success. Failures are ProtocolViolation:
//   - empty string
//   - more than MaxSubjectBytes UTF-8 bytes
//   - contains a null byte
//   - does not begin with one of the four reserved prefixes
func ValidateSubject(text string) (Subject, error) {
	if len(text) == 0 {
		return Subject{}, errs.NewProtocolViolation("subject: empty")
	}
	if n := len(text); n > MaxSubjectBytes {
		return Subject{}, errs.NewProtocolViolation("subject: %d bytes exceeds max %d", n, MaxSubjectBytes)
	}
	if strings.IndexByte(text, 0) >= 0 {
		return Subject{}, errs.NewProtocolViolation("subject: contains null byte")
	}
	ok := false
	for _, p := range reservedPrefixes {
		if strings.HasPrefix(text, p) {
			ok = true
			break
		}
	}
	if !ok {
		return Subject{}, errs.NewProtocolViolation(
			"subject: %q must begin with one of %v", text, reservedPrefixes)
	}
	return Subject{raw: text}, nil
}
