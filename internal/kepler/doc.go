// Package kepler solves Kepler's equation M = E - e*sin(E) for batches of
// mean anomalies and eccentricities.
//
// For every element the solver reduces M into [-pi, pi), validates the
// eccentricity, short-circuits near-circular orbits and otherwise refines the
// eccentric anomaly with a bounded Newton-Raphson iteration. The true anomaly
// is derived from the converged eccentric anomaly with the half-angle tangent
// identity.
//
// Consecutive elements share a continuation State: the solution of element
// n-1 is extrapolated to seed element n. The state is an explicit value so
// callers that split a sequence into independent partitions can start each
// partition from the zero State (a cold start) without changing results
// beyond the configured tolerance.
//
// # Non-convergence
//
// Running out of Newton iterations is not an error. The last iterate is
// returned and the element is reported through Solution.Converged and
// Stats.NonConverged. Eccentricities close to 1 combined with a small
// iteration budget are the usual cause.
//
// A cold start from E = M is not reliable for extreme eccentricities. Around
// e = 0.9999 and above, the first Newton step from E = M can be thrown far
// from the root when M is near 0, and the iteration may run away (|E| of
// order 1e70) instead of settling. Such elements are reported as
// non-converged. Agreement between warm and cold starts, and so between
// partitioned and sequential solves, only holds below that range.
//
// Example:
//
//	res, err := kepler.Solve(meanAnomalies, eccentricities, kepler.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	fmt.Println(res.Eccentric[0], res.True[0])
package kepler
