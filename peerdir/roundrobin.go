package peerdir

import (
	"fmt"
	"sync"
)

// Balancer picks one instance from a discovered list. A peer may advertise
// several transport endpoints for the same PeerId; a driver calls Pick
// before dialing.
type Balancer interface {
	Pick(instances []ServiceInstance) (*ServiceInstance, error)
	Name() string
}

// RoundRobinBalancer implements smooth weighted round-robin selection,
// the algorithm nginx and LVS use for weighted upstream balancing:
// rather than cycling through instances in strict order (which starves
// low-weight instances behind high-weight ones in bursts), each pick adds
// every instance's Weight to a running total keyed by address, returns
// whichever instance has accumulated the highest total, and subtracts the
// sum of all weights from the winner. Over many picks this converges to a
// distribution proportional to Weight while still interleaving instances
// smoothly pick-to-pick. An instance with Weight <= 0 is treated as
// Weight 1, so a caller that never sets Weight still gets plain
// round-robin behavior — the teacher's original semantics.
//
// Grounded on mini-rpc/loadbalance.RoundRobinBalancer's atomic-counter
// round robin; generalized here to honor ServiceInstance.Weight, which
// the teacher's balancer accepted as a field but never read.
type RoundRobinBalancer struct {
	mu      sync.Mutex
	current map[string]int // running weight per address
}

func (b *RoundRobinBalancer) Pick(instances []ServiceInstance) (*ServiceInstance, error) {
	if len(instances) == 0 {
		return nil, fmt.Errorf("peerdir: no instances available")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		b.current = make(map[string]int)
	}

	total := 0
	bestIdx := -1
	bestWeight := 0
	for i, inst := range instances {
		weight := inst.Weight
		if weight <= 0 {
			weight = 1
		}
		total += weight

		cw := b.current[inst.Addr] + weight
		b.current[inst.Addr] = cw
		if bestIdx == -1 || cw > bestWeight {
			bestIdx = i
			bestWeight = cw
		}
	}

	b.current[instances[bestIdx].Addr] -= total
	return &instances[bestIdx], nil
}

func (b *RoundRobinBalancer) Name() string {
	return "RoundRobin"
}
