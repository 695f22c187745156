// Package looptransport provides an in-memory loopback byte pipe used only
// by this module's own tests and examples. Concrete transports are out of
// the core's scope (SPEC_FULL.md §1); nothing in wire, envelope, identity,
// handshake, correlate, or dispatch imports this package — it exists
// purely so _test.go files can exercise encode/decode end-to-end over a
// real io.Reader/io.Writer pair without standing up a TCP listener,
// grounded on how the teacher's test/integration_test.go dials a real
// net.Listener for its own end-to-end tests.
package looptransport

import "net"

// Pipe returns two connected, in-memory net.Conn endpoints. Writes to one
// side are readable from the other, synchronously, with no network stack
// involved — suitable for driving the frame codec's Encode/Decode pair
// across a goroutine boundary in a test.
func Pipe() (a, b net.Conn) {
	return net.Pipe()
}
