package wire

// Limits bounds frame and handshake payload size. These are not hard
// wire-format rules — a peer that ignores them still produces a
// structurally valid frame — but the spec recommends enforcing them as a
// connection-scope policy, so Decode accepts them explicitly rather than
// baking in a single global default.
type Limits struct {
	MaxFrameSize     int // default 1 MiB
	MaxHandshakeSize int // default 8 KiB
}

const (
	defaultMaxFrameSize     = 1 << 20 // 1 MiB
	defaultMaxHandshakeSize = 8 << 10 // 8 KiB
)

// DefaultLimits returns the spec's suggested size guidance.
func DefaultLimits() Limits {
	return Limits{
		MaxFrameSize:     defaultMaxFrameSize,
		MaxHandshakeSize: defaultMaxHandshakeSize,
	}
}

// NoLimits disables size guarding entirely — useful for codec-level unit
// tests that exercise payload shapes independent of size policy.
func NoLimits() Limits {
	return Limits{MaxFrameSize: 0, MaxHandshakeSize: 0}
}
