// Package sim is the simulation engine: a [BodySystem] holding a small set
// of fully interacting anchor bodies and a large, partitioned population of
// transient bodies that only feel the anchors.
//
// # Tick
//
// [BodySystem.UpdatePositions] forks one task per [Partition] onto a
// [WorkerPool] while the calling goroutine advances the anchors. Workers read
// an anchor snapshot taken before the anchors move and queue merge requests
// instead of touching anchors; the requests are committed after the join.
// A tick whose worker fails is discarded as a whole.
//
// # Example
//
//	sys := sim.New(sim.DefaultOptions())
//	defer sys.Close()
//	sys.ResetScenario()
//	sys.AddRandomBodies(10000, rand.New(rand.NewSource(1)))
//	res, _ := sim.NewRunner(sys).Run(ctx, sim.RunConfig{Ticks: 500})
//
// # Thread Safety
//
// BodySystem methods may be called from any goroutine. Runner instances are
// NOT thread-safe; use one per session.
package sim
