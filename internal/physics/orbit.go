package physics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Elements are planar Keplerian orbital elements. Angles LongAscendingNode
// and ArgPeriapsis are in degrees, as catalogs publish them. TrueAnomaly is
// the orbital phase in radians; zero places the body at periapsis.
type Elements struct {
	SemiMajorAxis     float64
	Eccentricity      float64
	LongAscendingNode float64
	ArgPeriapsis      float64
	TrueAnomaly       float64
}

// State is a Cartesian position and velocity.
type State struct {
	Pos r2.Vec
	Vel r2.Vec
}

// FromElements converts orbital elements around ref into a Cartesian state.
//
// With a zero semi-major axis or no reference the state sits at the
// reference origin with no relative velocity; this is how the primary anchor
// is placed. The result depends only on its arguments.
func FromElements(el Elements, ref *Body, c Constants) (State, error) {
	if ref == nil {
		return State{}, nil
	}
	if el.SemiMajorAxis == 0 {
		return State{Pos: ref.Pos, Vel: ref.Vel}, nil
	}
	if el.SemiMajorAxis < 0 || el.Eccentricity < 0 || el.Eccentricity >= 1 ||
		math.IsNaN(el.SemiMajorAxis) || math.IsNaN(el.Eccentricity) {
		return State{}, fmt.Errorf("%w: a=%g e=%g", ErrInvalidElements, el.SemiMajorAxis, el.Eccentricity)
	}

	a, e := el.SemiMajorAxis, el.Eccentricity
	b := a * math.Sqrt(1-e*e)
	focal := math.Sqrt(a*a - b*b)
	semiLatus := b * b / a

	// perifocal frame: periapsis on +x, distance a-focal at zero anomaly
	var r float64
	if el.TrueAnomaly == 0 {
		r = a - focal
	} else {
		r = semiLatus / (1 + e*math.Cos(el.TrueAnomaly))
	}
	sinNu, cosNu := math.Sincos(el.TrueAnomaly)
	pos := r2.Vec{X: r * cosNu, Y: r * sinNu}

	mu := c.G * ref.Mass
	speed := math.Sqrt(mu * (2/r - 1/a))

	// velocity direction in the perifocal frame is (-sinν, e+cosν); at
	// periapsis it is perpendicular to the radius
	dir := r2.Vec{X: -sinNu, Y: e + cosNu}
	vel := r2.Scale(speed/r2.Norm(dir), dir)

	omega := (el.LongAscendingNode + el.ArgPeriapsis) * math.Pi / 180
	origin := r2.Vec{}
	pos = r2.Rotate(pos, omega, origin)
	vel = r2.Rotate(vel, omega, origin)

	return State{
		Pos: r2.Add(pos, ref.Pos),
		Vel: r2.Add(vel, ref.Vel),
	}, nil
}

// NewFromElements builds a body on the orbit described by el around ref.
func NewFromElements(kind Kind, el Elements, mass float64, ref *Body, c Constants) (*Body, error) {
	st, err := FromElements(el, ref, c)
	if err != nil {
		return nil, err
	}
	return NewBody(kind, st.Pos, st.Vel, mass, c)
}

// Period returns the orbital period 2π·sqrt(a³/(G·M)) for semi-major axis a
// around centralMass.
func Period(a, centralMass float64, c Constants) float64 {
	return 2 * math.Pi * math.Sqrt(a*a*a/(c.G*centralMass))
}
