package hbench

import (
	"log/slog"
	"math"
	"sort"
)

// Tier is the structural classification of a scenario.
type Tier string

const (
	TierAlpha Tier = "Alpha" // High effective slack and slow degradation
	TierBeta  Tier = "Beta"  // Moderate effective slack
	TierGamma Tier = "Gamma" // Low slack or fast degradation
)

// Thresholds configures the tier boundaries. All three values must be
// positive, and the Alpha floor must sit above the Beta floor; the ordering
// is validated, not assumed.
type Thresholds struct {
	AlphaHMin     float64 // Alpha: minimum H_eff
	AlphaDecayMax float64 // Alpha: maximum degradation rate
	BetaHMin      float64 // Beta: minimum H_eff
}

// NewThresholds validates and builds a Thresholds value.
func NewThresholds(alphaHMin, alphaDecayMax, betaHMin float64) (Thresholds, error) {
	th := Thresholds{AlphaHMin: alphaHMin, AlphaDecayMax: alphaDecayMax, BetaHMin: betaHMin}
	if err := th.Validate(); err != nil {
		return Thresholds{}, err
	}
	return th, nil
}

// DefaultThresholds returns the demo defaults (60, 1.0, 30).
func DefaultThresholds() Thresholds {
	return Thresholds{AlphaHMin: 60, AlphaDecayMax: 1.0, BetaHMin: 30}
}

// Validate checks positivity, finiteness and the Alpha > Beta ordering.
func (t Thresholds) Validate() error {
	for _, v := range [...]struct {
		name  string
		value float64
	}{
		{"alpha_h_min", t.AlphaHMin},
		{"alpha_decay_max", t.AlphaDecayMax},
		{"beta_h_min", t.BetaHMin},
	} {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) || v.value <= 0 {
			return invalidf(v.name, "must be a positive finite number, got %v", v.value)
		}
	}
	if t.AlphaHMin <= t.BetaHMin {
		return invalidf("thresholds", "alpha_h_min (%v) must be greater than beta_h_min (%v)", t.AlphaHMin, t.BetaHMin)
	}
	return nil
}

// Classify assigns a tier from an observed effective slack and degradation
// rate:
//
//	Alpha iff H_eff > AlphaHMin and dH < AlphaDecayMax
//	Beta  iff H_eff > BetaHMin
//	Gamma otherwise
//
// All numeric inputs must be finite and non-negative; a violation fails
// validation before any classification runs.
func Classify(hEff, dH float64, th Thresholds) (Tier, error) {
	if err := th.Validate(); err != nil {
		return "", err
	}
	if math.IsNaN(hEff) || math.IsInf(hEff, 0) || hEff < 0 {
		return "", invalidf("H_eff", "must be a finite non-negative number, got %v", hEff)
	}
	if math.IsNaN(dH) || math.IsInf(dH, 0) || dH < 0 {
		return "", invalidf("dH", "must be a finite non-negative number, got %v", dH)
	}

	switch {
	case hEff > th.AlphaHMin && dH < th.AlphaDecayMax:
		return TierAlpha, nil
	case hEff > th.BetaHMin:
		return TierBeta, nil
	default:
		return TierGamma, nil
	}
}

// RankingEntry is one row of a comparison result.
type RankingEntry struct {
	Name    string
	HEff    float64 // First simulated value of the scenario
	DHEffDt float64 // First-step degradation, |values[1]-values[0]|
	Tier    Tier
}

// Compare simulates every scenario, classifies it through the shared
// thresholds and returns a ranked list.
//
// Reporting convention: HEff is the first simulated value and DHEffDt the
// absolute first-step delta (zero when steps == 1). Ranking is by
// descending HEff, then ascending DHEffDt; the sort is stable, so exact
// ties keep their insertion order and the total order is deterministic.
//
// An empty or nil scenario list yields an empty ranking. A single
// malformed scenario (one that fails its own simulation) is skipped with a
// logged diagnostic rather than failing the batch; only invalid thresholds
// or an out-of-range step count fail the call as a whole.
func Compare(scenarios []Scenario, th Thresholds, steps int) ([]RankingEntry, error) {
	if err := th.Validate(); err != nil {
		return nil, err
	}
	if steps < MinSimulateSteps || steps > MaxSimulateSteps {
		return nil, invalidf("steps", "must be in [%d,%d], got %d", MinSimulateSteps, MaxSimulateSteps, steps)
	}

	results := make([]RankingEntry, 0, len(scenarios))
	for i, s := range scenarios {
		series, err := s.Simulate(steps)
		if err != nil {
			slog.Warn("skipping scenario in comparison",
				"index", i, "name", s.Name(), "err", err)
			continue
		}

		hEff := series[0]
		dH := 0.0
		if len(series) > 1 {
			dH = math.Abs(series[1] - series[0])
		}

		tier, err := Classify(hEff, dH, th)
		if err != nil {
			slog.Warn("skipping unclassifiable scenario",
				"index", i, "name", s.Name(), "err", err)
			continue
		}

		results = append(results, RankingEntry{
			Name:    s.Name(),
			HEff:    hEff,
			DHEffDt: dH,
			Tier:    tier,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].HEff != results[j].HEff {
			return results[i].HEff > results[j].HEff
		}
		return results[i].DHEffDt < results[j].DHEffDt
	})
	return results, nil
}
