package physics

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func mustBody(t *testing.T, kind Kind, pos, vel r2.Vec, mass float64) *Body {
	t.Helper()
	b, err := NewBody(kind, pos, vel, mass, DefaultConstants())
	if err != nil {
		t.Fatalf("NewBody: %v", err)
	}
	return b
}

func TestNewBody_InvalidMass(t *testing.T) {
	c := DefaultConstants()
	for _, m := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := NewBody(Asteroid, r2.Vec{}, r2.Vec{}, m, c); !errors.Is(err, ErrInvalidMass) {
			t.Errorf("mass %v: expected ErrInvalidMass, got %v", m, err)
		}
	}
}

func TestForceSymmetry(t *testing.T) {
	c := DefaultConstants()
	tests := []struct {
		name   string
		pa, pb r2.Vec
		ma, mb float64
	}{
		{"sun-earth", r2.Vec{}, r2.Vec{X: c.EarthDistance}, c.SolarMass, c.EarthMass},
		{"diagonal", r2.Vec{X: -3e15, Y: 2e16}, r2.Vec{X: 4e16, Y: -1e15}, 1e27, 5e24},
		{"close", r2.Vec{X: 1}, r2.Vec{X: 2, Y: 1}, 1e10, 3e12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustBody(t, Planet, tt.pa, r2.Vec{}, tt.ma)
			b := mustBody(t, Planet, tt.pb, r2.Vec{}, tt.mb)
			a.AddForce(b, c)
			b.AddForce(a, c)

			fa, fb := r2.Norm(a.Force), r2.Norm(b.Force)
			if math.Abs(fa-fb) > 1e-12*fa {
				t.Errorf("|F_ab| = %g, |F_ba| = %g", fa, fb)
			}
			sum := r2.Add(a.Force, b.Force)
			if r2.Norm(sum) > 1e-12*fa {
				t.Errorf("forces not opposite: sum %v", sum)
			}
		})
	}
}

func TestAddForce_Softening(t *testing.T) {
	c := DefaultConstants()
	a := mustBody(t, Planet, r2.Vec{}, r2.Vec{}, 1e24)
	b := mustBody(t, Planet, r2.Vec{X: 1e-9}, r2.Vec{}, 1e24)

	a.AddForce(b, c)
	if math.IsNaN(a.Force.X) || math.IsInf(a.Force.X, 0) {
		t.Fatalf("force not finite: %v", a.Force)
	}
	want := c.G * 1e24 * 1e24 / (1e-18 + c.Softening*c.Softening)
	if math.Abs(a.Force.X-want) > 1e-9*want {
		t.Errorf("Force.X = %g, want %g", a.Force.X, want)
	}

	a.ResetForce()
	a.AddForce(a, c)
	if a.Force != (r2.Vec{}) {
		t.Errorf("self force = %v, want zero", a.Force)
	}
}

func TestIntegrate_SemiImplicit(t *testing.T) {
	b := mustBody(t, Asteroid, r2.Vec{X: 1, Y: 2}, r2.Vec{X: 3, Y: 4}, 2)
	b.Force = r2.Vec{X: 4, Y: -2}
	b.Integrate(0.5)

	// v = (3,4) + 0.5*(2,-1) = (4, 3.5); p = (1,2) + 0.5*v
	if b.Vel != (r2.Vec{X: 4, Y: 3.5}) {
		t.Errorf("Vel = %v", b.Vel)
	}
	if b.Pos != (r2.Vec{X: 3, Y: 3.75}) {
		t.Errorf("Pos = %v, position must use the updated velocity", b.Pos)
	}
}

func TestAbsorb(t *testing.T) {
	c := DefaultConstants()
	w := mustBody(t, Planet, r2.Vec{}, r2.Vec{}, c.EarthMass)
	l := mustBody(t, Asteroid, r2.Vec{X: 1}, r2.Vec{}, 1e21)
	d0 := w.Diameter

	w.Absorb(l, c)
	if want := c.EarthMass + 1e21; math.Abs(w.Mass-want) > 1e-9*want {
		t.Errorf("Mass = %g, want %g", w.Mass, want)
	}
	if w.Diameter < d0 {
		t.Errorf("diameter shrank: %g -> %g", d0, w.Diameter)
	}
	if l.Mass != 1e21 {
		t.Errorf("loser mutated: %g", l.Mass)
	}
}

func TestDiameter_MonotonicAndClamped(t *testing.T) {
	c := DefaultConstants()
	prev := 0.0
	for _, m := range []float64{1, 1e10, 1e20, c.EarthMass, c.SolarMass / 10, c.SolarMass, 10 * c.SolarMass} {
		d := Diameter(m, c)
		if d < 1 {
			t.Errorf("Diameter(%g) = %g, want >= 1", m, d)
		}
		if d < prev {
			t.Errorf("Diameter(%g) = %g decreased from %g", m, d, prev)
		}
		prev = d
	}
}

func TestNewCircular(t *testing.T) {
	c := DefaultConstants()
	dist := 2 * c.EarthDistance

	tests := []struct {
		kind  Kind
		scale float64
	}{
		{Asteroid, 1},
		{Comet, c.CometVelocityScale},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			b, err := NewCircular(tt.kind, dist, math.Pi/3, 1e20, c.SolarMass, c)
			if err != nil {
				t.Fatal(err)
			}
			if r := r2.Norm(b.Pos); math.Abs(r-dist) > 1e-9*dist {
				t.Errorf("radius = %g, want %g", r, dist)
			}
			want := math.Sqrt(c.G * c.SolarMass * tt.scale / dist)
			if math.Abs(b.Speed()-want) > 1e-9*want {
				t.Errorf("speed = %g, want %g", b.Speed(), want)
			}
			if dot := r2.Dot(b.Pos, b.Vel); math.Abs(dot) > 1e-9*dist*want {
				t.Errorf("velocity not perpendicular: dot %g", dot)
			}
			if r2.Cross(b.Pos, b.Vel) <= 0 {
				t.Error("expected counterclockwise orbit")
			}
		})
	}
}

func TestTwoBodyOrbit(t *testing.T) {
	c := DefaultConstants()
	const (
		bigM   = 1.0e30
		smallM = 1.0e24
		r      = 1e11
	)

	primary := mustBody(t, Star, r2.Vec{}, r2.Vec{}, bigM)
	v := math.Sqrt(c.G * bigM / r)
	secondary := mustBody(t, Planet, r2.Vec{X: r}, r2.Vec{Y: v}, smallM)

	period := 2 * math.Pi * math.Sqrt(r*r*r/(c.G*bigM))
	steps := 10000
	dt := period / float64(steps)

	swept := 0.0
	prev := math.Atan2(secondary.Pos.Y, secondary.Pos.X)
	minR, maxR := r, r

	for i := 0; i < steps; i++ {
		primary.ResetForce()
		primary.AddForce(secondary, c)

		secondary.ResetForce()
		secondary.AddForce(primary, c)
		secondary.Integrate(dt)

		angle := math.Atan2(secondary.Pos.Y, secondary.Pos.X)
		d := angle - prev
		if d > math.Pi {
			d -= 2 * math.Pi
		} else if d < -math.Pi {
			d += 2 * math.Pi
		}
		swept += d
		prev = angle

		dist := secondary.DistanceTo(primary)
		minR = math.Min(minR, dist)
		maxR = math.Max(maxR, dist)
	}

	if math.Abs(swept-2*math.Pi) > 0.03*2*math.Pi {
		t.Errorf("swept angle = %.4f rad, want ~%.4f", swept, 2*math.Pi)
	}
	if minR < 0.95*r || maxR > 1.05*r {
		t.Errorf("radius left band: min %g max %g (r=%g)", minR, maxR, r)
	}

	// the primary's acceleration is negligible at this mass ratio
	if acc := r2.Norm(primary.Force) / bigM; acc*dt*float64(steps) > 1e-3*v {
		t.Errorf("primary would drift: a=%g", acc)
	}
}
