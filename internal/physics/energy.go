package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Energy is the total kinetic plus softened potential energy of bodies.
func Energy(bodies []Body, c Constants) float64 {
	ke, pe := 0.0, 0.0
	eps2 := c.Softening * c.Softening
	for i := range bodies {
		ke += 0.5 * bodies[i].Mass * r2.Norm2(bodies[i].Vel)
		for j := i + 1; j < len(bodies); j++ {
			d2 := r2.Norm2(r2.Sub(bodies[j].Pos, bodies[i].Pos))
			pe -= c.G * bodies[i].Mass * bodies[j].Mass / math.Sqrt(d2+eps2)
		}
	}
	return ke + pe
}

func Momentum(bodies []Body) r2.Vec {
	var p r2.Vec
	for i := range bodies {
		p = r2.Add(p, r2.Scale(bodies[i].Mass, bodies[i].Vel))
	}
	return p
}

func AngularMomentum(bodies []Body) float64 {
	l := 0.0
	for i := range bodies {
		l += bodies[i].Mass * r2.Cross(bodies[i].Pos, bodies[i].Vel)
	}
	return l
}

// TotalMass sums the masses of bodies.
func TotalMass(bodies []Body) float64 {
	m := 0.0
	for i := range bodies {
		m += bodies[i].Mass
	}
	return m
}

// CenterOfMass is the mass-weighted mean position, or the origin for no mass.
func CenterOfMass(bodies []Body) r2.Vec {
	var sum r2.Vec
	m := 0.0
	for i := range bodies {
		sum = r2.Add(sum, r2.Scale(bodies[i].Mass, bodies[i].Pos))
		m += bodies[i].Mass
	}
	if m == 0 {
		return r2.Vec{}
	}
	return r2.Scale(1/m, sum)
}
