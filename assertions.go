package hbench

import (
	"math"
	"testing"
)

// Test helpers for the structural invariants of this package. They live in
// the library so downstream domains (a new accessibility proxy, a new
// builder) can assert the same properties over their own data.

// AssertSnapshotInvariants verifies the bounds every valid snapshot must
// satisfy:
//
//	H ≥ 0, S ≥ 0, 0 ≤ H_eff ≤ H
//
// H_eff cannot exceed H because accessibility and the access weight are
// both bounded by 1.
func AssertSnapshotInvariants(t *testing.T, s Snapshot) {
	t.Helper()

	if s.H < 0 {
		t.Errorf("H = %v, must be non-negative", s.H)
	}
	if s.S < 0 {
		t.Errorf("S = %v, must be non-negative", s.S)
	}
	if s.HEff < 0 {
		t.Errorf("H_eff = %v, must be non-negative", s.HEff)
	}
	const tolerance = 1e-9
	if s.HEff > s.H+tolerance {
		t.Errorf("H_eff = %v exceeds H = %v (accessibility or weight above 1?)", s.HEff, s.H)
	}
	for _, v := range [...]float64{s.H, s.HEff, s.S} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("snapshot contains non-finite value: %+v", s)
		}
	}
}

// AssertNonIncreasing verifies a decay series never rises and never goes
// below zero: once the series reaches zero it must stay there.
func AssertNonIncreasing(t *testing.T, series []float64) {
	t.Helper()

	for i, v := range series {
		if v < 0 {
			t.Errorf("series[%d] = %v, decay must floor at zero", i, v)
		}
		if i > 0 && v > series[i-1] {
			t.Errorf("series[%d] = %v rose above series[%d] = %v", i, v, i-1, series[i-1])
		}
		if i > 0 && series[i-1] == 0 && v != 0 {
			t.Errorf("series[%d] = %v left the zero floor", i, v)
		}
	}
}

// AssertRanked verifies a comparison result obeys the ranking order:
// descending H_eff, ties broken by ascending degradation rate.
func AssertRanked(t *testing.T, ranking []RankingEntry) {
	t.Helper()

	for i := 1; i < len(ranking); i++ {
		prev, cur := ranking[i-1], ranking[i]
		if cur.HEff > prev.HEff {
			t.Errorf("ranking[%d] %q (H_eff %v) outranks ranking[%d] %q (H_eff %v)",
				i, cur.Name, cur.HEff, i-1, prev.Name, prev.HEff)
		}
		if cur.HEff == prev.HEff && cur.DHEffDt < prev.DHEffDt {
			t.Errorf("tie on H_eff between %q and %q broken against lower decay", prev.Name, cur.Name)
		}
	}
}
