package peerdir

import "testing"

func TestRoundRobinBalancerDistributesEvenlyWithoutWeight(t *testing.T) {
	b := &RoundRobinBalancer{}
	instances := []ServiceInstance{
		{Addr: "a:1"}, {Addr: "b:1"}, {Addr: "c:1"},
	}

	seen := make(map[string]int)
	for i := 0; i < 9; i++ {
		picked, err := b.Pick(instances)
		if err != nil {
			t.Fatalf("Pick failed: %v", err)
		}
		seen[picked.Addr]++
	}

	for _, inst := range instances {
		if seen[inst.Addr] != 3 {
			t.Errorf("Addr %s picked %d times, want 3", inst.Addr, seen[inst.Addr])
		}
	}
}

func TestRoundRobinBalancerHonorsWeight(t *testing.T) {
	b := &RoundRobinBalancer{}
	instances := []ServiceInstance{
		{Addr: "heavy:1", Weight: 3},
		{Addr: "light:1", Weight: 1},
	}

	seen := make(map[string]int)
	const rounds = 400
	for i := 0; i < rounds; i++ {
		picked, err := b.Pick(instances)
		if err != nil {
			t.Fatalf("Pick failed: %v", err)
		}
		seen[picked.Addr]++
	}

	// Over many rounds the heavy instance should be picked roughly 3x as
	// often as the light one; allow slack for the smoothing algorithm's
	// interleaving rather than demanding an exact 3:1 split every round.
	ratio := float64(seen["heavy:1"]) / float64(seen["light:1"])
	if ratio < 2.5 || ratio > 3.5 {
		t.Errorf("heavy/light ratio = %.2f, want close to 3.0 (counts: %v)", ratio, seen)
	}
}

func TestRoundRobinBalancerInterleavesRatherThanBlockSelects(t *testing.T) {
	b := &RoundRobinBalancer{}
	instances := []ServiceInstance{
		{Addr: "heavy:1", Weight: 3},
		{Addr: "light:1", Weight: 1},
	}

	// The light instance must not wait until the heavy instance's full
	// burst of 3 picks completes — smooth weighted round-robin
	// interleaves within each cycle of total-weight picks.
	var sequence []string
	for i := 0; i < 4; i++ {
		picked, _ := b.Pick(instances)
		sequence = append(sequence, picked.Addr)
	}
	sawLightBeforeThirdHeavy := false
	heavyCount := 0
	for _, addr := range sequence {
		if addr == "heavy:1" {
			heavyCount++
		}
		if addr == "light:1" && heavyCount < 3 {
			sawLightBeforeThirdHeavy = true
		}
	}
	if !sawLightBeforeThirdHeavy {
		t.Errorf("sequence = %v, want light instance interleaved before heavy's 3rd pick", sequence)
	}
}

func TestRoundRobinBalancerTreatsNonPositiveWeightAsOne(t *testing.T) {
	b := &RoundRobinBalancer{}
	instances := []ServiceInstance{
		{Addr: "a:1", Weight: 0},
		{Addr: "b:1", Weight: -5},
	}
	seen := make(map[string]int)
	for i := 0; i < 10; i++ {
		picked, err := b.Pick(instances)
		if err != nil {
			t.Fatalf("Pick failed: %v", err)
		}
		seen[picked.Addr]++
	}
	if seen["a:1"] != 5 || seen["b:1"] != 5 {
		t.Errorf("counts = %v, want even 5/5 split", seen)
	}
}

func TestRoundRobinBalancerRejectsEmptyList(t *testing.T) {
	b := &RoundRobinBalancer{}
	if _, err := b.Pick(nil); err == nil {
		t.Fatal("Pick with no instances succeeded, want error")
	}
}

func TestRoundRobinBalancerName(t *testing.T) {
	b := &RoundRobinBalancer{}
	if b.Name() != "RoundRobin" {
		t.Errorf("Name() = %q, want %q", b.Name(), "RoundRobin")
	}
}
