// Package physics holds the point-mass model used by the simulation engine.
//
//   - [Constants]: immutable physical constants, passed by value
//   - [Body]: a point mass with force accumulation and semi-implicit Euler steps
//   - [FromElements]: Keplerian elements to Cartesian state
//   - [Resolver]: distance-threshold collisions and mass merges
//
// Physics never dispatches on [Kind]; the kind only chooses a collection and
// construction-time parameters.
//
// # Energy
//
// [Energy], [Momentum] and [AngularMomentum] are diagnostics over a slice of
// bodies, used to watch integrator drift:
//
//	e0 := physics.Energy(anchors, c)
//	// ... ticks ...
//	drift := math.Abs(physics.Energy(anchors, c)-e0) / math.Abs(e0)
package physics
