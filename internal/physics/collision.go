package physics

import "gonum.org/v1/gonum/spatial/r2"

// Collision is a snapshot of a body taken at the moment it was absorbed.
type Collision struct {
	Pos       r2.Vec
	Diameter  float64
	Frame     uint64
	LoserID   uint64
	LoserKind Kind
	WinnerID  uint64
}

// Resolver decides whether two bodies have collided and merges them.
// A disabled resolver never reports a collision.
type Resolver struct {
	Threshold float64
	Enabled   bool
	Constants Constants
}

func NewResolver(c Constants, enabled bool) Resolver {
	return Resolver{Threshold: c.CollisionDistance, Enabled: enabled, Constants: c}
}

// Collided reports whether a and b are strictly closer than the threshold.
func (r Resolver) Collided(a, b *Body) bool {
	if !r.Enabled {
		return false
	}
	return a.DistanceTo(b) < r.Threshold
}

// Winner orders a pair for a merge: the heavier body wins and, on an exact
// tie, b wins. Callers pass the lower-indexed body as a so that the
// higher index survives a tie.
func Winner(a, b *Body) (winner, loser *Body) {
	if a.Mass > b.Mass {
		return a, b
	}
	return b, a
}

// Merge folds loser into winner and returns the record of the absorbed body.
func (r Resolver) Merge(winner, loser *Body, frame uint64) Collision {
	rec := Collision{
		Pos:       loser.Pos,
		Diameter:  loser.Diameter,
		Frame:     frame,
		LoserID:   loser.ID,
		LoserKind: loser.Kind,
		WinnerID:  winner.ID,
	}
	winner.Absorb(loser, r.Constants)
	return rec
}
