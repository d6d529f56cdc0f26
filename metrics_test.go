package hbench

import (
	"math"
	"math/rand"
	"testing"
)

func TestCompute_EmptySet(t *testing.T) {
	snap, err := Compute(map[string]*Node{}, MetricsConfig{Accessibility: func(string) int { return 0 }})
	if err != nil {
		t.Fatalf("empty set must not error: %v", err)
	}
	if snap.H != 0 || snap.HEff != 0 || snap.S != 0 {
		t.Errorf("empty set must yield zero snapshot, got %+v", snap)
	}
	if snap.State() != StateCollapsed {
		t.Errorf("zero snapshot state = %s, want %s", snap.State(), StateCollapsed)
	}
}

func TestCompute_GraphInvariants(t *testing.T) {
	for _, seed := range []int64{1, 42, 1337} {
		topo, nodes, err := BuildTopology(12, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatalf("seed %d: build failed: %v", seed, err)
		}
		snap, err := Compute(nodes, GraphMetricsConfig(topo))
		if err != nil {
			t.Fatalf("seed %d: compute failed: %v", seed, err)
		}
		AssertSnapshotInvariants(t, snap)
	}
}

func TestCompute_ZeroEdgeTopologyIsZombie(t *testing.T) {
	// Capacity exists but nothing is connected: every degree is zero, so no
	// slack is reachable.
	topo := NewTopology()
	nodes := map[string]*Node{}
	for _, name := range []string{"A", "B", "C"} {
		topo.AddNode(name)
		nodes[name] = &Node{Name: name, Capacity: 100, Load: 50}
	}

	snap, err := Compute(nodes, GraphMetricsConfig(topo))
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if snap.H != 150 {
		t.Errorf("H = %v, want 150", snap.H)
	}
	if snap.HEff != 0 {
		t.Errorf("H_eff = %v, want 0 for a disconnected topology", snap.HEff)
	}
	if snap.State() != StateZombie {
		t.Errorf("state = %s, want %s", snap.State(), StateZombie)
	}
}

func TestCompute_MaxDegreeNormalization(t *testing.T) {
	// Star around A: degree(A)=3 is the max, leaves have degree 1.
	topo := NewTopology()
	for _, leaf := range []string{"B", "C", "D"} {
		topo.AddEdge("A", leaf, 0.2)
	}
	nodes := map[string]*Node{
		"A": {Name: "A", Capacity: 100, Load: 60}, // slack 40, accessibility 3/3
		"B": {Name: "B", Capacity: 100, Load: 70}, // slack 30, accessibility 1/3
		"C": {Name: "C", Capacity: 100, Load: 100},
		"D": {Name: "D", Capacity: 100, Load: 100},
	}

	snap, err := Compute(nodes, GraphMetricsConfig(topo))
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if snap.H != 70 {
		t.Errorf("H = %v, want 70", snap.H)
	}
	want := 40.0*1.0 + 30.0*(1.0/3.0)
	if math.Abs(snap.HEff-want) > 1e-9 {
		t.Errorf("H_eff = %v, want %v", snap.HEff, want)
	}
	AssertSnapshotInvariants(t, snap)
}

func TestCompute_EntropyExact(t *testing.T) {
	// Utilizations 0.2 and 0.8: mean 0.5, population stddev 0.3.
	topo := NewTopology()
	topo.AddEdge("A", "B", 0.1)
	nodes := map[string]*Node{
		"A": {Name: "A", Capacity: 100, Load: 20},
		"B": {Name: "B", Capacity: 100, Load: 80},
	}

	snap, err := Compute(nodes, GraphMetricsConfig(topo))
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if math.Abs(snap.S-0.3) > 1e-9 {
		t.Errorf("S = %v, want 0.3", snap.S)
	}
}

func TestCompute_UniformUtilizationZeroEntropy(t *testing.T) {
	topo := NewTopology()
	topo.AddEdge("A", "B", 0.1)
	nodes := map[string]*Node{
		"A": {Name: "A", Capacity: 100, Load: 50},
		"B": {Name: "B", Capacity: 200, Load: 100},
	}

	snap, err := Compute(nodes, GraphMetricsConfig(topo))
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if snap.S != 0 {
		t.Errorf("identical utilization must give S = 0, got %v", snap.S)
	}
}

func TestCompute_Validation(t *testing.T) {
	nodes := map[string]*Node{"A": {Name: "A", Capacity: 10, Load: 5}}

	if _, err := Compute(nodes, MetricsConfig{}); !isValidation(err) {
		t.Errorf("nil accessibility: expected ValidationError, got %v", err)
	}

	cfg := MetricsConfig{
		Accessibility: func(string) int { return 1 },
		AccessWeight:  1.5,
	}
	if _, err := Compute(nodes, cfg); !isValidation(err) {
		t.Errorf("weight > 1: expected ValidationError, got %v", err)
	}

	cfg = MetricsConfig{
		Accessibility: func(string) int { return 1 },
		Normalization: NormalizeFixedCeiling,
	}
	if _, err := Compute(nodes, cfg); !isValidation(err) {
		t.Errorf("zero ceiling: expected ValidationError, got %v", err)
	}
}

func TestCompute_MalformedEntity(t *testing.T) {
	cfg := MetricsConfig{Accessibility: func(string) int { return 1 }}

	cases := map[string]map[string]*Node{
		"nil entry":         {"A": nil},
		"negative capacity": {"A": {Name: "A", Capacity: -1, Load: 0}},
		"negative load":     {"A": {Name: "A", Capacity: 10, Load: -1}},
		"NaN load":          {"A": {Name: "A", Capacity: 10, Load: math.NaN()}},
		"Inf capacity":      {"A": {Name: "A", Capacity: math.Inf(1), Load: 0}},
	}
	for name, entities := range cases {
		if _, err := Compute(entities, cfg); !isComputation(err) {
			t.Errorf("%s: expected ComputationError, got %v", name, err)
		}
	}
}

func TestCompute_Deterministic(t *testing.T) {
	_, nodes, err := BuildTopology(30, rand.New(rand.NewSource(11)))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	topo, _, _ := BuildTopology(30, rand.New(rand.NewSource(11)))
	cfg := GraphMetricsConfig(topo)

	first, err := Compute(nodes, cfg)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Compute(nodes, cfg)
		if err != nil {
			t.Fatalf("recompute failed: %v", err)
		}
		if again != first {
			t.Fatalf("recompute %d differs: %+v vs %+v", i, again, first)
		}
	}
}

func TestSnapshotState(t *testing.T) {
	cases := []struct {
		snap Snapshot
		want SystemState
	}{
		{Snapshot{H: 50, HEff: 20}, StateAlive},
		{Snapshot{H: 50, HEff: 0}, StateZombie},
		{Snapshot{H: 0, HEff: 0}, StateCollapsed},
	}
	for _, c := range cases {
		if got := c.snap.State(); got != c.want {
			t.Errorf("State(%+v) = %s, want %s", c.snap, got, c.want)
		}
	}
}

func TestNode_SlackAndUtilization(t *testing.T) {
	n := Node{Name: "n", Capacity: 100, Load: 60}
	if n.Slack() != 40 {
		t.Errorf("Slack = %v, want 40", n.Slack())
	}
	if n.Utilization() != 0.6 {
		t.Errorf("Utilization = %v, want 0.6", n.Utilization())
	}

	over := Node{Name: "n", Capacity: 100, Load: 130}
	if over.Slack() != 0 {
		t.Errorf("over-committed slack = %v, must clamp to 0", over.Slack())
	}
	if over.Utilization() != 1.3 {
		t.Errorf("over-committed utilization = %v, want 1.3", over.Utilization())
	}

	degenerate := Node{Name: "n", Capacity: 0, Load: 0}
	if degenerate.Utilization() != 0 {
		t.Errorf("zero-capacity utilization = %v, want 0", degenerate.Utilization())
	}
}
