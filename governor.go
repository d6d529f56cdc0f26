package hbench

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Resource governance for expensive entry points: deadline enforcement,
// sliding-window rate limiting and pre-flight cost estimation. The three
// primitives are independent and composable; Governor wires them together
// in front of the builder and playout loops so a public-facing demo cannot
// be driven into runaway computation.

// CallWithDeadline runs fn under a wall-clock budget. If fn does not return
// within d, the call is abandoned and ErrTimeout raised; the discarded
// result never reaches the caller, not even partially.
//
// The bound is cooperative: fn receives a context cancelled at the
// deadline, and the abandoned goroutine keeps running until it observes
// that cancellation. There is no preemption; a fn that ignores its context
// leaks a goroutine for as long as it keeps computing. Known limitation.
//
// A non-positive d disables the bound entirely: fn runs to completion on
// the caller's goroutine. This is the degraded-but-safe mode for contexts
// that cannot own a deadline.
func CallWithDeadline[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if d <= 0 {
		return fn(ctx)
	}

	bounded, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := fn(bounded)
		done <- outcome{v, err}
	}()

	select {
	case out := <-done:
		return out.value, out.err
	case <-bounded.Done():
		var zero T
		if ctx.Err() != nil {
			// Parent cancellation, not our deadline.
			return zero, ctx.Err()
		}
		return zero, fmt.Errorf("%w (budget %v)", ErrTimeout, d)
	}
}

// SimpleRateLimiter is a sliding-window rate limiter: at most maxCalls
// admissions inside any trailing window. Expired timestamps are purged
// lazily on every check.
//
// The timestamp window is the one piece of mutable shared state in this
// package, so the read-evict-append sequence runs under a mutex; without
// it, concurrent callers could race a lost update and admit more than
// maxCalls per window.
type SimpleRateLimiter struct {
	mu       sync.Mutex
	maxCalls int
	window   time.Duration
	calls    []time.Time

	now func() time.Time // injectable clock for tests
}

// NewSimpleRateLimiter validates its inputs: maxCalls > 0, window > 0.
func NewSimpleRateLimiter(maxCalls int, window time.Duration) (*SimpleRateLimiter, error) {
	if maxCalls <= 0 {
		return nil, invalidf("max calls", "must be positive, got %d", maxCalls)
	}
	if window <= 0 {
		return nil, invalidf("time window", "must be positive, got %v", window)
	}
	return &SimpleRateLimiter{
		maxCalls: maxCalls,
		window:   window,
		now:      time.Now,
	}, nil
}

// purgeLocked drops timestamps that have aged out of the trailing window.
// Caller holds mu.
func (l *SimpleRateLimiter) purgeLocked(now time.Time) {
	keep := l.calls[:0]
	for _, t := range l.calls {
		if now.Sub(t) < l.window {
			keep = append(keep, t)
		}
	}
	l.calls = keep
}

// Allow records the call attempt and reports whether it is admitted:
// true iff fewer than maxCalls admissions remain inside the window.
// A rejected attempt leaves the window unchanged.
func (l *SimpleRateLimiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.purgeLocked(now)
	if len(l.calls) < l.maxCalls {
		l.calls = append(l.calls, now)
		return true
	}
	return false
}

// TimeUntilNextAllowed returns how long until the oldest in-window
// admission expires, or 0 if a call would be admitted right now.
func (l *SimpleRateLimiter) TimeUntilNextAllowed() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.purgeLocked(now)
	if len(l.calls) < l.maxCalls {
		return 0
	}
	remaining := l.window - now.Sub(l.calls[0])
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CostLimits holds the hard ceilings and warning threshold for admission
// control.
type CostLimits struct {
	MoveCeiling   int     // Hard ceiling on requested moves/iterations
	NodeCeiling   int     // Hard ceiling on requested nodes
	WarnThreshold float64 // Advisory warning above this normalized cost
}

// DefaultCostLimits returns the demo ceilings: 500 moves, 1000 nodes,
// advisory warnings above 70% of a ceiling.
func DefaultCostLimits() CostLimits {
	return CostLimits{MoveCeiling: 500, NodeCeiling: 1000, WarnThreshold: 0.7}
}

// Validate checks ceilings and the warning threshold.
func (c CostLimits) Validate() error {
	if c.MoveCeiling <= 0 {
		return invalidf("move ceiling", "must be positive, got %d", c.MoveCeiling)
	}
	if c.NodeCeiling <= 0 {
		return invalidf("node ceiling", "must be positive, got %d", c.NodeCeiling)
	}
	if c.WarnThreshold <= 0 || c.WarnThreshold > 1 {
		return invalidf("warn threshold", "must be in (0,1], got %v", c.WarnThreshold)
	}
	return nil
}

// CostEstimate is the admission-control verdict for a requested workload.
// A rejected request is a normal, expected outcome represented as data
// (Allowed = false), never as an error: callers branch on it.
type CostEstimate struct {
	Cost    float64 // Normalized against the hard ceilings (1.0 = at ceiling)
	Allowed bool    // Cost ≤ 1.0
	Warning string  // Blocking above 1.0, advisory above WarnThreshold, else empty
}

// EstimateCost computes the normalized cost of a requested workload:
// max(moves/MoveCeiling, nodes/NodeCeiling). It is a pre-flight gate,
// called before the builder or playout runs, so oversized requests are
// rejected or flagged before any work starts.
//
// Negative inputs are validation failures and fail locally without
// touching any governor state.
func EstimateCost(moves, nodes int, limits CostLimits) (CostEstimate, error) {
	if err := limits.Validate(); err != nil {
		return CostEstimate{}, err
	}
	if moves < 0 {
		return CostEstimate{}, invalidf("requested moves", "must be non-negative, got %d", moves)
	}
	if nodes < 0 {
		return CostEstimate{}, invalidf("requested nodes", "must be non-negative, got %d", nodes)
	}

	moveCost := float64(moves) / float64(limits.MoveCeiling)
	nodeCost := float64(nodes) / float64(limits.NodeCeiling)
	cost := moveCost
	if nodeCost > cost {
		cost = nodeCost
	}

	est := CostEstimate{Cost: cost, Allowed: cost <= 1.0}
	switch {
	case cost > 1.0:
		est.Warning = fmt.Sprintf("blocked: requested workload exceeds resource ceiling (cost %.0f%%)", cost*100)
	case cost > limits.WarnThreshold:
		est.Warning = fmt.Sprintf("costly operation (cost %.0f%%)", cost*100)
	}
	return est, nil
}

// Governor composes the three primitives in front of the expensive entry
// points. The order is deliberate: cost estimation first (free, rejects
// oversized work without consuming rate budget), then the rate limiter,
// then the deadline-bounded call itself.
type Governor struct {
	limiter  *SimpleRateLimiter
	limits   CostLimits
	deadline time.Duration
	log      *slog.Logger
}

// NewGovernor wires a governor from its parts. A nil limiter disables rate
// limiting, a non-positive deadline disables the time bound, a nil logger
// falls back to slog.Default.
func NewGovernor(limiter *SimpleRateLimiter, limits CostLimits, deadline time.Duration, log *slog.Logger) (*Governor, error) {
	if err := limits.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &Governor{limiter: limiter, limits: limits, deadline: deadline, log: log}, nil
}

// EstimateCost runs admission control against this governor's limits.
func (g *Governor) EstimateCost(moves, nodes int) (CostEstimate, error) {
	return EstimateCost(moves, nodes, g.limits)
}

// admit runs the shared pre-flight sequence and returns the estimate.
// The error is non-nil for validation failures and rate-limit rejections;
// an over-ceiling request is not an error, the caller branches on
// est.Allowed.
func (g *Governor) admit(call string, moves, nodes int) (CostEstimate, string, error) {
	id := uuid.NewString()

	est, err := g.EstimateCost(moves, nodes)
	if err != nil {
		return CostEstimate{}, id, err
	}
	if !est.Allowed {
		g.log.Warn("admission rejected", "call", call, "id", id,
			"cost", est.Cost, "warning", est.Warning)
		return est, id, nil
	}
	if est.Warning != "" {
		g.log.Warn("admission advisory", "call", call, "id", id,
			"cost", est.Cost, "warning", est.Warning)
	}

	if g.limiter != nil && !g.limiter.Allow() {
		wait := g.limiter.TimeUntilNextAllowed()
		g.log.Warn("rate limit exceeded", "call", call, "id", id, "retry_in", wait)
		return est, id, fmt.Errorf("%w, retry in %v", ErrRateLimited, wait)
	}
	return est, id, nil
}

// TopologyResult is the product of a governed topology build.
type TopologyResult struct {
	Topology *Topology
	Nodes    map[string]*Node
}

// BuildTopology is the governed builder entry point: cost gate, rate
// limit, then the deadline-bounded build. When the request is over the
// hard ceiling, the returned estimate carries Allowed = false and no build
// runs; the caller branches on the estimate rather than catching an error.
func (g *Governor) BuildTopology(ctx context.Context, n int, rng *rand.Rand) (TopologyResult, CostEstimate, error) {
	est, id, err := g.admit("build-topology", 0, n)
	if err != nil || !est.Allowed {
		return TopologyResult{}, est, err
	}

	result, err := CallWithDeadline(ctx, g.deadline, func(context.Context) (TopologyResult, error) {
		topo, nodes, err := BuildTopology(n, rng)
		if err != nil {
			return TopologyResult{}, err
		}
		return TopologyResult{Topology: topo, Nodes: nodes}, nil
	})
	if err != nil {
		g.log.Error("governed build failed", "call", "build-topology", "id", id, "err", err)
		return TopologyResult{}, est, err
	}
	return result, est, nil
}

// Playout is the governed playout entry point, mirroring BuildTopology.
func (g *Governor) Playout(ctx context.Context, b PlayableBoard, maxMoves int, rng *rand.Rand, caps CapacityTable) ([]PlayoutSample, CostEstimate, error) {
	est, id, err := g.admit("playout", maxMoves, 0)
	if err != nil || !est.Allowed {
		return nil, est, err
	}

	history, err := CallWithDeadline(ctx, g.deadline, func(context.Context) ([]PlayoutSample, error) {
		return Playout(b, maxMoves, rng, caps)
	})
	if err != nil {
		g.log.Error("governed playout failed", "call", "playout", "id", id, "err", err)
		return nil, est, err
	}
	return history, est, nil
}
