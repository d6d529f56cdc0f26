package hbench

import (
	"math"
	"sort"
)

// SystemState is the coarse structural classification derived from a
// Snapshot.
type SystemState string

const (
	// StateAlive: positive effective slack, pressure can still be redistributed.
	StateAlive SystemState = "ALIVE"
	// StateZombie: capacity exists (H > 0) but none of it is reachable
	// (H_eff = 0). The system looks healthy on paper and cannot act.
	StateZombie SystemState = "ZOMBIE"
	// StateCollapsed: no slack anywhere (H = 0).
	StateCollapsed SystemState = "COLLAPSED"
)

// Snapshot holds the three structural health indicators of one observation:
//
//	H     total slack, Σ slack(e)
//	H_eff accessibility-weighted slack, Σ slack(e)·accessibility(e)·weight
//	S     population stddev of per-entity utilization (imbalance proxy)
//
// Invariant: 0 ≤ H_eff ≤ H for every valid input, because accessibility and
// the access weight are both bounded by 1.
type Snapshot struct {
	H    float64
	HEff float64
	S    float64
}

// State classifies the snapshot: alive while effective slack remains,
// zombie when capacity exists but cannot be reached, collapsed when no
// slack is left at all.
func (s Snapshot) State() SystemState {
	switch {
	case s.HEff > 0:
		return StateAlive
	case s.H > 0:
		return StateZombie
	default:
		return StateCollapsed
	}
}

// Normalization selects how a raw accessibility count maps into [0,1].
type Normalization int

const (
	// NormalizeMaxCount divides each count by the current maximum across the
	// entity set, recomputed on every call. Accessibility is always relative
	// to the topology being observed, not to an absolute scale.
	NormalizeMaxCount Normalization = iota
	// NormalizeFixedCeiling divides by a fixed ceiling and clamps to 1. Used
	// by the board domain, where a single position has no natural "current
	// maximum" to compare against.
	NormalizeFixedCeiling
)

// MetricsConfig parameterizes the shared metrics algorithm per domain.
type MetricsConfig struct {
	// Accessibility returns the raw accessibility count of an entity:
	// graph degree or piece mobility. Required.
	Accessibility func(name string) int

	Normalization Normalization

	// Ceiling is the fixed normalization constant for
	// NormalizeFixedCeiling (the board domain uses 8).
	Ceiling float64

	// AccessWeight is a fixed scalar in (0,1] applied to every H_eff
	// contribution. Zero means "use 1".
	AccessWeight float64
}

// GraphMetricsConfig returns the graph-domain parameterization: degree as
// the accessibility proxy, normalized against the topology's current
// maximum degree, with unit access weight.
func GraphMetricsConfig(t *Topology) MetricsConfig {
	return MetricsConfig{
		Accessibility: t.Degree,
		Normalization: NormalizeMaxCount,
	}
}

// Compute derives a Snapshot from an entity set and an accessibility signal.
//
// The computation is pure: no side effects, same inputs produce the same
// snapshot. An empty entity set yields (0,0,0), not an error. An entity
// with zero accessibility contributes nothing to H_eff, which is how a
// fully disconnected (or fully immobilized) domain lands in the zombie
// state with H_eff == 0 while H > 0.
//
// A malformed entity set (nil entry, NaN/Inf or negative values) is
// reported as a single ComputationError; no partial snapshot leaks out.
func Compute(entities map[string]*Node, cfg MetricsConfig) (Snapshot, error) {
	if cfg.Accessibility == nil {
		return Snapshot{}, invalidf("metrics config", "accessibility function is required")
	}
	weight := cfg.AccessWeight
	if weight == 0 {
		weight = 1
	}
	if weight < 0 || weight > 1 || math.IsNaN(weight) {
		return Snapshot{}, invalidf("access weight", "must be in (0,1], got %v", cfg.AccessWeight)
	}
	if cfg.Normalization == NormalizeFixedCeiling && cfg.Ceiling <= 0 {
		return Snapshot{}, invalidf("ceiling", "fixed-ceiling normalization needs a positive ceiling, got %v", cfg.Ceiling)
	}

	if len(entities) == 0 {
		return Snapshot{}, nil
	}

	// Stable iteration order keeps float accumulation bit-for-bit
	// reproducible across calls on the same input.
	names := make([]string, 0, len(entities))
	for name := range entities {
		names = append(names, name)
	}
	sort.Strings(names)

	maxCount := 0
	for _, name := range names {
		node := entities[name]
		if !node.wellFormed() {
			return Snapshot{}, computef("compute-metrics", "malformed entity %q", name)
		}
		if c := cfg.Accessibility(name); c > maxCount {
			maxCount = c
		}
	}

	var snap Snapshot
	var utilizations []float64

	for _, name := range names {
		node := entities[name]
		slack := node.Slack()
		snap.H += slack
		utilizations = append(utilizations, node.Utilization())

		count := cfg.Accessibility(name)
		if slack <= 0 || count <= 0 {
			continue
		}

		var accessibility float64
		switch cfg.Normalization {
		case NormalizeMaxCount:
			// maxCount ≥ count > 0 here.
			accessibility = float64(count) / float64(maxCount)
		case NormalizeFixedCeiling:
			accessibility = float64(count) / cfg.Ceiling
			if accessibility > 1 {
				accessibility = 1
			}
		default:
			return Snapshot{}, invalidf("normalization", "unknown mode %d", cfg.Normalization)
		}

		snap.HEff += slack * accessibility * weight
	}

	snap.S = populationStddev(utilizations)
	return snap, nil
}

// populationStddev is the population (not sample) standard deviation.
func populationStddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}
