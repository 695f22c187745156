package peerdir

import (
	"sync"
	"time"

	"github.com/sideband/core/identity"
)

// MemoryRegistry is an in-process, map-backed Registry for tests —
// standing in for EtcdRegistry without needing a live etcd fixture,
// the way the teacher's test suite gates etcd-specific tests behind an
// environment variable (registry/etcd_registry_test.go). Unlike etcd,
// there is no real lease expiry here; Register instead schedules a
// one-shot removal after ttl, the in-process analogue of a lease that
// is never renewed.
type MemoryRegistry struct {
	mu        sync.Mutex
	instances map[identity.PeerID][]ServiceInstance
	watchers  map[identity.PeerID][]chan []ServiceInstance
}

// NewMemoryRegistry constructs an empty MemoryRegistry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		instances: make(map[identity.PeerID][]ServiceInstance),
		watchers:  make(map[identity.PeerID][]chan []ServiceInstance),
	}
}

func (r *MemoryRegistry) Register(peerID identity.PeerID, instance ServiceInstance, ttl time.Duration) error {
	if err := validateInstance(instance); err != nil {
		return err
	}

	r.mu.Lock()
	r.instances[peerID] = append(r.instances[peerID], instance)
	r.notifyLocked(peerID)
	r.mu.Unlock()

	time.AfterFunc(ttl, func() {
		r.Deregister(peerID, instance.Addr)
	})
	return nil
}

func (r *MemoryRegistry) Deregister(peerID identity.PeerID, addr string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing := r.instances[peerID]
	kept := existing[:0]
	for _, inst := range existing {
		if inst.Addr != addr {
			kept = append(kept, inst)
		}
	}
	r.instances[peerID] = kept
	r.notifyLocked(peerID)
	return nil
}

func (r *MemoryRegistry) Discover(peerID identity.PeerID) ([]ServiceInstance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ServiceInstance, len(r.instances[peerID]))
	copy(out, r.instances[peerID])
	return out, nil
}

func (r *MemoryRegistry) Watch(peerID identity.PeerID) <-chan []ServiceInstance {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch := make(chan []ServiceInstance, 1)
	r.watchers[peerID] = append(r.watchers[peerID], ch)
	return ch
}

// notifyLocked must be called with r.mu held; it pushes the current
// instance list to every watcher of peerID, dropping the update if a
// watcher's buffer is already full rather than blocking the caller.
func (r *MemoryRegistry) notifyLocked(peerID identity.PeerID) {
	snapshot := make([]ServiceInstance, len(r.instances[peerID]))
	copy(snapshot, r.instances[peerID])
	for _, ch := range r.watchers[peerID] {
		select {
		case ch <- snapshot:
		default:
		}
	}
}
