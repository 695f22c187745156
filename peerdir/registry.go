// Package peerdir provides an optional peer address directory so a driver
// built above the wire/envelope/correlate core can resolve a PeerId to a
// dialable address instead of hardcoding it. It is external to the core's
// hot path — encode/decode and correlation never import it — but it
// exercises the teacher's etcd dependency and load-balancing strategies,
// generalized from per-service RPC instances to per-peer transport
// endpoints.
package peerdir

import (
	"fmt"
	"time"

	"github.com/sideband/core/handshake"
	"github.com/sideband/core/identity"
)

// ServiceInstance is a single advertised endpoint for a peer. A peer may
// advertise more than one (e.g. a WebSocket and a raw TCP listener),
// which is why Discover returns a slice rather than a single address.
type ServiceInstance struct {
	Addr    string // dialable network address, e.g. "127.0.0.1:8080"
	Weight  int    // relative weight for load balancing
	Version string // handshake protocol version this endpoint speaks
}

// validateInstance rejects instances a driver could never actually use:
// an empty address, or a protocol version this build of sideband does not
// speak. This is the one piece of domain knowledge both Registry
// implementations share, so it lives here rather than being duplicated.
func validateInstance(instance ServiceInstance) error {
	if instance.Addr == "" {
		return fmt.Errorf("peerdir: instance has empty address")
	}
	if instance.Version != "" && instance.Version != handshake.ProtocolVersion {
		return fmt.Errorf("peerdir: instance advertises protocol version %q, this build speaks %q",
			instance.Version, handshake.ProtocolVersion)
	}
	return nil
}

// Registry is the interface for peer registration and discovery.
// Implementations include EtcdRegistry (production) and MemoryRegistry
// (tests).
type Registry interface {
	// Register advertises an instance for peerID with a TTL lease. The
	// instance is automatically removed if the lease is not renewed —
	// e.g. the peer process crashed. EtcdRegistry rounds ttl up to the
	// nearest whole second, the smallest unit etcd leases support;
	// MemoryRegistry uses ttl as given.
	Register(peerID identity.PeerID, instance ServiceInstance, ttl time.Duration) error

	// Deregister removes an instance for peerID. Called during graceful
	// shutdown before closing the listener.
	Deregister(peerID identity.PeerID, addr string) error

	// Discover returns every currently registered instance for peerID.
	Discover(peerID identity.PeerID) ([]ServiceInstance, error)

	// Watch returns a channel that emits the updated instance list
	// whenever peerID's instances change.
	Watch(peerID identity.PeerID) <-chan []ServiceInstance
}

// leaseSeconds converts a ttl to the whole-second granularity etcd leases
// require, rounding up and enforcing a 1-second floor so a sub-second ttl
// never silently becomes an instantly-expiring lease.
func leaseSeconds(ttl time.Duration) int64 {
	seconds := int64(ttl / time.Second)
	if ttl%time.Second != 0 {
		seconds++
	}
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}
