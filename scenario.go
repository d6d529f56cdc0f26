package hbench

import (
	"math"
	"strings"
)

// Simulation bounds. Steps outside the range are rejected before any work;
// the decay ceiling rejects pathological inputs that would only ever produce
// a single non-zero sample.
const (
	MinSimulateSteps = 1
	MaxSimulateSteps = 1000
	MaxDecay         = 10000.0
)

// Scenario is a named starting point for decay simulation: an initial
// effective slack and a per-step linear decay rate. Values are validated at
// construction and immutable afterwards; a zero-value Scenario is not
// usable and is rejected by Simulate.
type Scenario struct {
	name     string
	hEffInit float64
	decay    float64
}

// NewScenario validates and builds a Scenario. The name must be non-empty,
// H_eff_init must be positive and finite, decay must be in (0, 10000].
func NewScenario(name string, hEffInit, decay float64) (Scenario, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Scenario{}, invalidf("scenario name", "must be a non-empty string")
	}
	if math.IsNaN(hEffInit) || math.IsInf(hEffInit, 0) || hEffInit <= 0 {
		return Scenario{}, invalidf("H_eff_init", "must be a positive finite number, got %v", hEffInit)
	}
	if math.IsNaN(decay) || decay <= 0 || decay > MaxDecay {
		return Scenario{}, invalidf("decay", "must be in (0,%v], got %v", MaxDecay, decay)
	}
	return Scenario{name: name, hEffInit: hEffInit, decay: decay}, nil
}

// MustScenario is NewScenario for static demo data; it panics on invalid
// input.
func MustScenario(name string, hEffInit, decay float64) Scenario {
	s, err := NewScenario(name, hEffInit, decay)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Scenario) Name() string      { return s.name }
func (s Scenario) HEffInit() float64 { return s.hEffInit }
func (s Scenario) Decay() float64    { return s.decay }

// Simulate evolves H_eff over the given number of discrete steps under
// linear decay:
//
//	values[0] = H_eff_init
//	values[i] = max(values[i-1] - decay, 0)
//
// The series is non-increasing, floors at zero and stays there. Steps
// outside [1,1000] fail with a range error before any computation; an
// unconstructed (zero-value) Scenario fails likewise.
func (s Scenario) Simulate(steps int) ([]float64, error) {
	if steps < MinSimulateSteps || steps > MaxSimulateSteps {
		return nil, invalidf("steps", "must be in [%d,%d], got %d", MinSimulateSteps, MaxSimulateSteps, steps)
	}
	if s.hEffInit <= 0 || s.decay <= 0 || s.name == "" {
		return nil, invalidf("scenario", "not built via NewScenario (zero or malformed value)")
	}

	values := make([]float64, steps)
	h := s.hEffInit
	for i := 0; i < steps; i++ {
		values[i] = h
		h -= s.decay
		if h < 0 {
			h = 0
		}
	}
	return values, nil
}
