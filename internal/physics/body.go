package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Body is a point mass. Force is only meaningful within a single tick and is
// cleared by ResetForce before accumulation starts.
type Body struct {
	ID       uint64
	Kind     Kind
	Pos      r2.Vec
	Vel      r2.Vec
	Force    r2.Vec
	Mass     float64
	Diameter float64
}

// NewBody returns a body with the given state. The diameter is derived from mass.
func NewBody(kind Kind, pos, vel r2.Vec, mass float64, c Constants) (*Body, error) {
	if !(mass > 0) || math.IsInf(mass, 0) {
		return nil, ErrInvalidMass
	}
	b := &Body{Kind: kind, Pos: pos, Vel: vel, Mass: mass}
	b.Diameter = Diameter(mass, c)
	return b, nil
}

// NewCircular places a body at dist from the origin at the given angle,
// moving counterclockwise at circular-orbit speed around centralMass.
// Comets orbit as if the central mass were scaled by CometVelocityScale.
func NewCircular(kind Kind, dist, angle, mass, centralMass float64, c Constants) (*Body, error) {
	sin, cos := math.Sincos(angle)
	pos := r2.Vec{X: dist * cos, Y: dist * sin}

	scale := 1.0
	if kind == Comet {
		scale = c.CometVelocityScale
	}
	speed := CircularSpeed(c.G, centralMass*scale, dist)
	vel := r2.Vec{X: -sin * speed, Y: cos * speed}

	return NewBody(kind, pos, vel, mass, c)
}

// CircularSpeed is sqrt(G·M/r), or 0 when r is not positive.
func CircularSpeed(g, centralMass, r float64) float64 {
	if r <= 0 {
		return 0
	}
	return math.Sqrt(g * centralMass / r)
}

// Diameter is the visual diameter for a mass: a cube-root scale of the
// solar-mass ratio, never below 1.
func Diameter(mass float64, c Constants) float64 {
	d := math.Cbrt(0.75*(mass/c.SolarMass)/math.Pi) * 1500
	if d < 1 || math.IsNaN(d) {
		return 1
	}
	return d
}

func (b *Body) ResetForce() {
	b.Force = r2.Vec{}
}

// AddForce accumulates the gravitational pull of other on b:
// F = G·m₁·m₂/(d²+ε²) along the separation. Coincident bodies exert no force.
func (b *Body) AddForce(other *Body, c Constants) {
	delta := r2.Sub(other.Pos, b.Pos)
	dist := r2.Norm(delta)
	if dist == 0 {
		return
	}
	f := c.G * b.Mass * other.Mass / (dist*dist + c.Softening*c.Softening)
	b.Force = r2.Add(b.Force, r2.Scale(f/dist, delta))
}

// Integrate advances b by dt with semi-implicit Euler: velocity first from
// the accumulated force, then position from the new velocity.
func (b *Body) Integrate(dt float64) {
	b.Vel = r2.Add(b.Vel, r2.Scale(dt/b.Mass, b.Force))
	b.Pos = r2.Add(b.Pos, r2.Scale(dt, b.Vel))
}

func (b *Body) DistanceTo(other *Body) float64 {
	return r2.Norm(r2.Sub(b.Pos, other.Pos))
}

// Absorb adds other's mass to b. other is left untouched; removing it is the
// caller's job.
func (b *Body) Absorb(other *Body, c Constants) {
	b.Mass += other.Mass
	b.Diameter = Diameter(b.Mass, c)
}

// Speed returns the magnitude of the velocity.
func (b *Body) Speed() float64 { return r2.Norm(b.Vel) }
