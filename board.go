package hbench

import (
	"math/rand"
)

// The board analog treats pieces as capacity containers and legal mobility
// as the accessibility proxy, in place of graph degree. This file owns only
// the metrics side of that mapping: piece legality, notation and rendering
// all live behind the BoardPosition collaborator.

// PieceType enumerates the six piece kinds of the board analog.
type PieceType int

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
)

func (p PieceType) String() string {
	switch p {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "unknown"
	}
}

// CapacityTable maps piece type to structural capacity. The values are
// configuration, not law; DefaultCapacityTable carries the demo defaults.
type CapacityTable map[PieceType]float64

// DefaultCapacityTable returns the demo capacities (1,3,3,5,9,10).
func DefaultCapacityTable() CapacityTable {
	return CapacityTable{
		Pawn:   1,
		Knight: 3,
		Bishop: 3,
		Rook:   5,
		Queen:  9,
		King:   10,
	}
}

// MobilityCeiling is the fixed normalization constant for board
// accessibility: min(mobility/8, 1). Eight is "high typical mobility", not
// a per-position maximum, because a single snapshot has no natural current
// maximum to normalize against.
const MobilityCeiling = 8.0

// DefaultAccessWeight is the fixed access-weight scalar of the board domain.
const DefaultAccessWeight = 0.5

// BoardPosition is the narrow collaborator interface the metrics engine
// needs from a board implementation: which pieces exist, how mobile each
// one is, and whether the position is terminal. Everything else about
// board semantics is external.
type BoardPosition interface {
	// Pieces maps a stable piece identifier to its type.
	Pieces() map[string]PieceType
	// Mobility returns the number of distinct squares the piece currently
	// threatens or covers.
	Mobility(id string) int
	// GameOver reports whether the position is terminal.
	GameOver() bool
}

// PlayableBoard extends BoardPosition with random movement, supplied by the
// collaborator. Movement is random by design: the playout observes
// structural evolution, it does not play.
type PlayableBoard interface {
	BoardPosition
	// RandomMove applies one random legal move using the given entropy
	// source and reports whether a move was available.
	RandomMove(rng *rand.Rand) bool
}

// BoardEntities adapts a position into the shared entity model. Each piece
// enters with its full type capacity and zero load, so its slack equals its
// capacity (the board analog has no committed load per piece).
func BoardEntities(b BoardPosition, caps CapacityTable) (map[string]*Node, error) {
	if b == nil {
		return nil, invalidf("board", "position collaborator is required")
	}
	if len(caps) == 0 {
		caps = DefaultCapacityTable()
	}
	entities := make(map[string]*Node)
	for id, piece := range b.Pieces() {
		capacity, ok := caps[piece]
		if !ok {
			return nil, computef("board-entities", "piece %q has unknown type %v", id, piece)
		}
		entities[id] = &Node{Name: id, Capacity: capacity}
	}
	return entities, nil
}

// ComputeBoardMetrics runs the shared metrics algorithm over a board
// position: fixed-ceiling mobility normalization with the board access
// weight. A weight of 0 selects DefaultAccessWeight.
func ComputeBoardMetrics(b BoardPosition, caps CapacityTable, weight float64) (Snapshot, error) {
	entities, err := BoardEntities(b, caps)
	if err != nil {
		return Snapshot{}, err
	}
	if weight == 0 {
		weight = DefaultAccessWeight
	}
	return Compute(entities, MetricsConfig{
		Accessibility: b.Mobility,
		Normalization: NormalizeFixedCeiling,
		Ceiling:       MobilityCeiling,
		AccessWeight:  weight,
	})
}

// PlayoutSample is one observation of a monitored playout.
type PlayoutSample struct {
	Move int
	H    float64
	HEff float64
}

// collapseThreshold ends a playout early once effective slack has all but
// vanished. Kept slightly above zero so the degradation tail is observable.
const collapseThreshold = 0.1

// Playout runs a random playout on the collaborator-supplied board,
// sampling (H, H_eff) before every move. It stops at the move budget, on a
// terminal position, on structural collapse (H_eff ≤ 0.1), or when no move
// is available. The entropy source is explicit, as everywhere else.
//
// Playout is ungoverned; Governor.Playout is the admission-checked,
// rate-limited and deadline-bounded entry point for untrusted callers.
func Playout(b PlayableBoard, maxMoves int, rng *rand.Rand, caps CapacityTable) ([]PlayoutSample, error) {
	if b == nil {
		return nil, invalidf("board", "playable board is required")
	}
	if maxMoves < 1 {
		return nil, invalidf("max moves", "must be at least 1, got %d", maxMoves)
	}
	if rng == nil {
		return nil, invalidf("rng", "entropy source is required, pass a seeded or fresh *rand.Rand")
	}

	history := make([]PlayoutSample, 0, maxMoves)
	for move := 0; move < maxMoves; move++ {
		if b.GameOver() {
			break
		}
		snap, err := ComputeBoardMetrics(b, caps, 0)
		if err != nil {
			return nil, err
		}
		history = append(history, PlayoutSample{Move: move, H: snap.H, HEff: snap.HEff})
		if snap.HEff <= collapseThreshold {
			break
		}
		if !b.RandomMove(rng) {
			break
		}
	}
	return history, nil
}
