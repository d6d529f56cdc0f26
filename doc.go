// Package hbench computes structural health indicators over capacity
// systems and governs how expensive those computations are allowed to get.
//
// # Overview
//
// hbench models a system as a set of capacity containers (nodes in a
// topology, or pieces on a board) and derives three indicators from any
// observation:
//
//   - H:     total slack, the capacity not currently consumed by load
//   - H_eff: effective slack, the fraction of H that is actually reachable,
//     weighted by each entity's accessibility (graph degree or
//     piece mobility, normalized to [0,1])
//   - S:     entropy, the population stddev of per-entity utilization
//     (an imbalance and fragility proxy)
//
// The gap between H and H_eff is the point of the model: a system can hold
// plenty of capacity and still be unable to redistribute pressure. With
// H > 0 and H_eff = 0 it is a ZOMBIE: healthy on paper, inert in practice.
// H = 0 is COLLAPSED.
//
// # Two domains, one algorithm
//
// The metrics algorithm is shared; only the accessibility signal differs:
//
//   - Graph domain: BuildTopology creates a randomized capacity graph and
//     degree is the accessibility proxy, normalized against the current
//     maximum degree (always relative to the topology being observed).
//   - Board domain: a BoardPosition collaborator supplies piece types and
//     mobility counts; mobility is normalized against a fixed ceiling of 8
//     and damped by an access weight.
//
//	topo, nodes, err := hbench.BuildTopology(12, rand.New(rand.NewSource(42)))
//	snap, err := hbench.Compute(nodes, hbench.GraphMetricsConfig(topo))
//	fmt.Println(snap.H, snap.HEff, snap.S, snap.State())
//
// Every entropy-consuming operation takes its random source as an explicit
// parameter. There is no package-level seeding anywhere: two independently
// seeded sources can never contaminate each other, and a seeded source
// reproduces a topology exactly.
//
// # Scenarios, decay and tiers
//
// A Scenario carries an initial H_eff and a linear per-step decay.
// Simulate produces the degradation series, Classify buckets an
// observation into Alpha, Beta or Gamma through configurable thresholds,
// and Compare ranks a batch:
//
//	a := hbench.MustScenario("A", 72.4, 0.8)
//	b := hbench.MustScenario("B", 51.6, 2.1)
//	ranking, err := hbench.Compare([]hbench.Scenario{a, b}, hbench.DefaultThresholds(), 10)
//
// A malformed scenario inside a batch is skipped and logged rather than
// failing the comparison; that partial-failure policy is deliberate.
//
// # Resource governance
//
// Three independent primitives protect any expensive entry point:
//
//   - CallWithDeadline bounds a call's wall-clock time through a cancelled
//     context (cooperative, no preemption).
//   - SimpleRateLimiter admits at most N calls per sliding window and can
//     report how long until the next slot opens.
//   - EstimateCost is pre-flight admission control: requested workload
//     normalized against hard ceilings, rejection expressed as data.
//
// Governor composes all three in front of BuildTopology and Playout:
//
//	limiter, _ := hbench.NewSimpleRateLimiter(10, time.Minute)
//	gov, _ := hbench.NewGovernor(limiter, hbench.DefaultCostLimits(), 30*time.Second, nil)
//	result, est, err := gov.BuildTopology(ctx, 50, rng)
//	if !est.Allowed {
//	    // oversized request, nothing ran
//	}
//
// # Scope
//
// The metrics are illustrative proxies, not validated engineering
// quantities, and the board playout moves randomly rather than playing.
// The rate limiter is in-memory and single-process. hbench is a library
// surface only: rendering, persistence and page layout belong to whatever
// presentation layer sits on top (see examples/).
package hbench
