package hbench

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Tuning is the file-loadable configuration surface of the demos:
// classification thresholds, governance ceilings and the board capacity
// table. Everything here is configuration, not law; the zero config file
// is valid and leaves the defaults in place.
type Tuning struct {
	AlphaHMin     float64 `yaml:"alpha_h_min"`
	AlphaDecayMax float64 `yaml:"alpha_decay_max"`
	BetaHMin      float64 `yaml:"beta_h_min"`

	MoveCeiling   int     `yaml:"move_ceiling"`
	NodeCeiling   int     `yaml:"node_ceiling"`
	WarnThreshold float64 `yaml:"warn_threshold"`

	RateMaxCalls      int     `yaml:"rate_max_calls"`
	RateWindowSeconds float64 `yaml:"rate_window_seconds"`
	DeadlineSeconds   float64 `yaml:"deadline_seconds"`

	AccessWeight  float64            `yaml:"access_weight"`
	PieceCapacity map[string]float64 `yaml:"piece_capacity"`
}

// DefaultTuning returns the demo defaults.
func DefaultTuning() Tuning {
	return Tuning{
		AlphaHMin:     60,
		AlphaDecayMax: 1.0,
		BetaHMin:      30,

		MoveCeiling:   500,
		NodeCeiling:   1000,
		WarnThreshold: 0.7,

		RateMaxCalls:      10,
		RateWindowSeconds: 60,
		DeadlineSeconds:   30,

		AccessWeight: DefaultAccessWeight,
	}
}

// LoadTuning reads a yaml tuning file over the defaults and validates the
// result. Unknown piece names in piece_capacity are rejected here rather
// than at first use.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

// Validate checks the loaded values via the component validators.
func (t Tuning) Validate() error {
	if err := t.Thresholds().Validate(); err != nil {
		return err
	}
	if err := t.CostLimits().Validate(); err != nil {
		return err
	}
	if t.RateMaxCalls <= 0 {
		return invalidf("rate_max_calls", "must be positive, got %d", t.RateMaxCalls)
	}
	if t.RateWindowSeconds <= 0 {
		return invalidf("rate_window_seconds", "must be positive, got %v", t.RateWindowSeconds)
	}
	if t.DeadlineSeconds < 0 {
		return invalidf("deadline_seconds", "must be non-negative, got %v", t.DeadlineSeconds)
	}
	if t.AccessWeight <= 0 || t.AccessWeight > 1 {
		return invalidf("access_weight", "must be in (0,1], got %v", t.AccessWeight)
	}
	if _, err := t.Capacities(); err != nil {
		return err
	}
	return nil
}

// Thresholds returns the classification thresholds.
func (t Tuning) Thresholds() Thresholds {
	return Thresholds{
		AlphaHMin:     t.AlphaHMin,
		AlphaDecayMax: t.AlphaDecayMax,
		BetaHMin:      t.BetaHMin,
	}
}

// CostLimits returns the admission-control ceilings.
func (t Tuning) CostLimits() CostLimits {
	return CostLimits{
		MoveCeiling:   t.MoveCeiling,
		NodeCeiling:   t.NodeCeiling,
		WarnThreshold: t.WarnThreshold,
	}
}

// Deadline returns the governed-call budget (zero disables the bound).
func (t Tuning) Deadline() time.Duration {
	return time.Duration(t.DeadlineSeconds * float64(time.Second))
}

// RateLimiter builds the sliding-window limiter from the tuned window.
func (t Tuning) RateLimiter() (*SimpleRateLimiter, error) {
	return NewSimpleRateLimiter(t.RateMaxCalls, time.Duration(t.RateWindowSeconds*float64(time.Second)))
}

// Governor builds a fully wired governor from the tuning.
func (t Tuning) Governor(log *slog.Logger) (*Governor, error) {
	limiter, err := t.RateLimiter()
	if err != nil {
		return nil, err
	}
	return NewGovernor(limiter, t.CostLimits(), t.Deadline(), log)
}

// Capacities returns the board capacity table: the defaults overlaid with
// any piece_capacity overrides from the file.
func (t Tuning) Capacities() (CapacityTable, error) {
	caps := DefaultCapacityTable()
	for name, value := range t.PieceCapacity {
		piece, ok := pieceByName[name]
		if !ok {
			return nil, invalidf("piece_capacity", "unknown piece %q", name)
		}
		if value <= 0 {
			return nil, invalidf("piece_capacity", "%s capacity must be positive, got %v", name, value)
		}
		caps[piece] = value
	}
	return caps, nil
}

var pieceByName = map[string]PieceType{
	"pawn":   Pawn,
	"knight": Knight,
	"bishop": Bishop,
	"rook":   Rook,
	"queen":  Queen,
	"king":   King,
}
