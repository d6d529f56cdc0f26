package hbench

import "math"

// Node is a structural container with finite capacity and a current load.
// The same model serves both domains: graph nodes in a topology and board
// pieces with type-based capacity. Load may exceed Capacity (an
// over-committed container); slack simply bottoms out at zero.
type Node struct {
	Name     string
	Capacity float64
	Load     float64
}

// Slack returns the unused capacity: max(Capacity - Load, 0).
// It is derived on every read and never stored, so mutating Load or
// Capacity can never leave a stale slack behind.
func (n *Node) Slack() float64 {
	s := n.Capacity - n.Load
	if s < 0 {
		return 0
	}
	return s
}

// Utilization returns Load / Capacity, the per-node pressure signal feeding
// the entropy metric S. A node with zero capacity reports zero utilization
// rather than dividing by zero.
func (n *Node) Utilization() float64 {
	if n.Capacity <= 0 {
		return 0
	}
	return n.Load / n.Capacity
}

// wellFormed reports whether the node can enter a metrics computation.
// NaN or infinite values and negative capacity or load are malformed state,
// not merely unusual input.
func (n *Node) wellFormed() bool {
	if n == nil {
		return false
	}
	for _, v := range [...]float64{n.Capacity, n.Load} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return false
		}
	}
	return true
}
