package hbench

import (
	"fmt"
	"math/rand"
	"sort"
)

// Topology construction bounds. A public demo must not be asked to build
// arbitrarily large graphs; admission control (EstimateCost) gates larger
// requests before this validation is even reached.
const (
	MinTopologyNodes = 1
	MaxTopologyNodes = 100
)

// Edge is an undirected connection between two named nodes. Friction is an
// observational weight in [0.1, 0.5); the metrics engine never reads it.
type Edge struct {
	A, B     string
	Friction float64
}

// Topology is an undirected graph over node names. Degree is the
// accessibility proxy for the graph domain.
type Topology struct {
	adj map[string]map[string]float64
}

// NewTopology returns an empty topology.
func NewTopology() *Topology {
	return &Topology{adj: make(map[string]map[string]float64)}
}

// AddNode registers a name with no edges. Adding an existing name is a no-op.
func (t *Topology) AddNode(name string) {
	if _, ok := t.adj[name]; !ok {
		t.adj[name] = make(map[string]float64)
	}
}

// AddEdge connects a and b with the given friction. Duplicate edges merge:
// the friction of the latest insertion wins, the degree does not grow.
// Self-edges are ignored.
func (t *Topology) AddEdge(a, b string, friction float64) {
	if a == b {
		return
	}
	t.AddNode(a)
	t.AddNode(b)
	t.adj[a][b] = friction
	t.adj[b][a] = friction
}

// Degree returns the number of distinct neighbors of name, or 0 for an
// unknown name.
func (t *Topology) Degree(name string) int {
	return len(t.adj[name])
}

// MaxDegree returns the highest degree across all nodes (0 for an edgeless
// or empty topology).
func (t *Topology) MaxDegree() int {
	max := 0
	for _, nbrs := range t.adj {
		if len(nbrs) > max {
			max = len(nbrs)
		}
	}
	return max
}

// NodeCount returns the number of registered names.
func (t *Topology) NodeCount() int { return len(t.adj) }

// EdgeCount returns the number of distinct undirected edges.
func (t *Topology) EdgeCount() int {
	total := 0
	for _, nbrs := range t.adj {
		total += len(nbrs)
	}
	return total / 2
}

// Edges returns all distinct edges sorted by endpoint names, so that two
// identically built topologies compare equal entry for entry.
func (t *Topology) Edges() []Edge {
	edges := make([]Edge, 0, t.EdgeCount())
	for a, nbrs := range t.adj {
		for b, f := range nbrs {
			if a < b {
				edges = append(edges, Edge{A: a, B: b, Friction: f})
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].A != edges[j].A {
			return edges[i].A < edges[j].A
		}
		return edges[i].B < edges[j].B
	})
	return edges
}

// BuildTopology constructs a randomized capacity graph of n nodes.
//
// Each node N0..N{n-1} gets capacity ~ Uniform_int[80,120] and load ~
// Uniform_int[40,capacity], so load never exceeds capacity by construction
// (the Node type itself tolerates over-commitment, this builder just never
// produces it). Connectivity is probabilistic: n+2 random edges between
// distinct nodes, each with friction ~ Uniform[0.1,0.5). Duplicates merge
// naturally, so the final edge count may be lower; isolated nodes are left
// alone, no connectivity guarantee is made beyond this density.
//
// The entropy source is an explicit parameter. The builder never touches
// package-global random state, so independently seeded sources cannot
// contaminate each other: the same seed reproduces capacities, loads and
// edge set exactly.
func BuildTopology(n int, rng *rand.Rand) (*Topology, map[string]*Node, error) {
	if n < MinTopologyNodes || n > MaxTopologyNodes {
		return nil, nil, invalidf("node count", "must be in [%d,%d], got %d", MinTopologyNodes, MaxTopologyNodes, n)
	}
	if rng == nil {
		return nil, nil, invalidf("rng", "entropy source is required, pass a seeded or fresh *rand.Rand")
	}

	topo := NewTopology()
	nodes := make(map[string]*Node, n)

	for i := 0; i < n; i++ {
		capacity := float64(80 + rng.Intn(41))
		load := float64(40 + rng.Intn(int(capacity)-40+1))
		node := &Node{Name: fmt.Sprintf("N%d", i), Capacity: capacity, Load: load}
		nodes[node.Name] = node
		topo.AddNode(node.Name)
	}

	// Minimum-connectivity pass. With n == 1 there is no distinct pair to
	// connect; the single node simply stays isolated (and the domain reports
	// H_eff = 0, the zombie case).
	if n > 1 {
		for i := 0; i < n+2; i++ {
			a := rng.Intn(n)
			b := rng.Intn(n - 1)
			if b >= a {
				b++
			}
			friction := 0.1 + rng.Float64()*0.4
			topo.AddEdge(fmt.Sprintf("N%d", a), fmt.Sprintf("N%d", b), friction)
		}
	}

	return topo, nodes, nil
}
