package hbench

import (
	"math/rand"
	"testing"
)

func TestBuildTopology_Deterministic(t *testing.T) {
	topo1, nodes1, err := BuildTopology(6, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("first build failed: %v", err)
	}
	topo2, nodes2, err := BuildTopology(6, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("second build failed: %v", err)
	}

	if len(nodes1) != len(nodes2) {
		t.Fatalf("node counts differ: %d vs %d", len(nodes1), len(nodes2))
	}
	for name, n1 := range nodes1 {
		n2, ok := nodes2[name]
		if !ok {
			t.Fatalf("node %s missing from second build", name)
		}
		if n1.Capacity != n2.Capacity || n1.Load != n2.Load {
			t.Errorf("node %s differs: (%v,%v) vs (%v,%v)",
				name, n1.Capacity, n1.Load, n2.Capacity, n2.Load)
		}
	}

	e1, e2 := topo1.Edges(), topo2.Edges()
	if len(e1) != len(e2) {
		t.Fatalf("edge counts differ: %d vs %d", len(e1), len(e2))
	}
	for i := range e1 {
		if e1[i] != e2[i] {
			t.Errorf("edge %d differs: %+v vs %+v", i, e1[i], e2[i])
		}
	}
}

func TestBuildTopology_SeedIsolation(t *testing.T) {
	// Building with one source must not disturb any other source's stream.
	probe := rand.New(rand.NewSource(7))
	want := [3]int64{probe.Int63(), probe.Int63(), probe.Int63()}

	probe2 := rand.New(rand.NewSource(7))
	if _, _, err := BuildTopology(6, rand.New(rand.NewSource(42))); err != nil {
		t.Fatalf("build failed: %v", err)
	}
	got := [3]int64{probe2.Int63(), probe2.Int63(), probe2.Int63()}

	if want != got {
		t.Errorf("independent random stream was disturbed: want %v, got %v", want, got)
	}
}

func TestBuildTopology_Bounds(t *testing.T) {
	for _, n := range []int{0, -1, 101} {
		if _, _, err := BuildTopology(n, rand.New(rand.NewSource(1))); !isValidation(err) {
			t.Errorf("n=%d: expected ValidationError, got %v", n, err)
		}
	}
	if _, _, err := BuildTopology(6, nil); !isValidation(err) {
		t.Errorf("nil rng: expected ValidationError, got %v", err)
	}
}

func TestBuildTopology_LoadNeverExceedsCapacity(t *testing.T) {
	_, nodes, err := BuildTopology(100, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	for name, node := range nodes {
		if node.Load > node.Capacity {
			t.Errorf("%s over-committed by construction: load %v > capacity %v",
				name, node.Load, node.Capacity)
		}
		if node.Capacity < 80 || node.Capacity > 120 {
			t.Errorf("%s capacity %v outside [80,120]", name, node.Capacity)
		}
		if node.Load < 40 {
			t.Errorf("%s load %v below 40", name, node.Load)
		}
	}
}

func TestBuildTopology_FrictionRange(t *testing.T) {
	topo, _, err := BuildTopology(20, rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	for _, e := range topo.Edges() {
		if e.Friction < 0.1 || e.Friction >= 0.5 {
			t.Errorf("edge %s-%s friction %v outside [0.1,0.5)", e.A, e.B, e.Friction)
		}
		if e.A == e.B {
			t.Errorf("self-edge on %s", e.A)
		}
	}
}

func TestBuildTopology_SingleNode(t *testing.T) {
	topo, nodes, err := BuildTopology(1, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(nodes))
	}
	// No distinct pair exists; the node stays isolated.
	if topo.EdgeCount() != 0 {
		t.Errorf("expected 0 edges, got %d", topo.EdgeCount())
	}
	if topo.MaxDegree() != 0 {
		t.Errorf("expected max degree 0, got %d", topo.MaxDegree())
	}
}

func TestTopology_DuplicateEdgesMerge(t *testing.T) {
	topo := NewTopology()
	topo.AddEdge("A", "B", 0.2)
	topo.AddEdge("B", "A", 0.4)
	topo.AddEdge("A", "A", 0.3) // ignored

	if topo.EdgeCount() != 1 {
		t.Errorf("expected 1 merged edge, got %d", topo.EdgeCount())
	}
	if topo.Degree("A") != 1 || topo.Degree("B") != 1 {
		t.Errorf("degrees after merge: A=%d B=%d, want 1/1", topo.Degree("A"), topo.Degree("B"))
	}
	edges := topo.Edges()
	if len(edges) != 1 || edges[0].Friction != 0.4 {
		t.Errorf("latest friction should win the merge, got %+v", edges)
	}
}
