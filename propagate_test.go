package dsgp4

import (
	"errors"
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestPropagateRequiresInitialize(t *testing.T) {
	el := issElements(t)
	var niErr NotInitializedError
	if _, err := el.Propagate(0); !errors.As(err, &niErr) {
		t.Fatalf("raw set propagated: %v", err)
	}
	if _, _, err := el.PropagateGrad(0); !errors.As(err, &niErr) {
		t.Fatalf("raw set propagated with gradient: %v", err)
	}
}

func TestPropagateEpochState(t *testing.T) {
	el := issElements(t)
	if err := el.Initialize(); err != nil {
		t.Fatal(err)
	}
	s, err := el.Propagate(0)
	if err != nil {
		t.Fatal(err)
	}
	r := norm(s.R[:])
	v := norm(s.V[:])
	a := el.SemiMajorAxis()
	e := el.Nine()[pEcc]
	// At epoch the state must sit on the mean orbit, give or take the
	// short-period oscillations (a few tens of km for a low orbit).
	if r < a*(1-e)-40 || r > a*(1+e)+40 {
		t.Fatalf("epoch radius %v km outside [%v, %v]", r, a*(1-e), a*(1+e))
	}
	if !floats.EqualWithinAbs(v, 7.7, 0.15) {
		t.Fatalf("epoch speed %v km/s", v)
	}
	// Vis-viva consistency within half a percent.
	ξ := v*v/2 - earthμ/r
	if !floats.EqualWithinAbsOrRel(ξ, -earthμ/(2*a), 0, 5e-3) {
		t.Fatalf("specific energy %v, vis-viva %v", ξ, -earthμ/(2*a))
	}
}

func TestPropagateEnergyStability(t *testing.T) {
	el := issElements(t)
	if err := el.Initialize(); err != nil {
		t.Fatal(err)
	}
	a := el.SemiMajorAxis()
	for _, tsince := range []float64{-90, 0, 45, 90, 360, 1440} {
		s, err := el.Propagate(tsince)
		if err != nil {
			t.Fatalf("t=%v: %v", tsince, err)
		}
		r := norm(s.R[:])
		v := norm(s.V[:])
		ξ := v*v/2 - earthμ/r
		if !floats.EqualWithinAbsOrRel(ξ, -earthμ/(2*a), 0, 1e-2) {
			t.Fatalf("t=%v: specific energy %v drifted from %v", tsince, ξ, -earthμ/(2*a))
		}
	}
}

func TestPropagateCircularBoundary(t *testing.T) {
	el, err := NewElementsTLE(14.2, 0, 98.0, 40.0, 0, 10.0, 1e-5, 0, 0, testEpoch)
	if err != nil {
		t.Fatal(err)
	}
	if err = el.Initialize(); err != nil {
		t.Fatal(err)
	}
	rmin, rmax := math.Inf(1), math.Inf(-1)
	for tsince := 0.0; tsince <= 110; tsince += 10 {
		s, err := el.Propagate(tsince)
		if err != nil {
			t.Fatalf("t=%v: %v", tsince, err)
		}
		r := norm(s.R[:])
		rmin = math.Min(rmin, r)
		rmax = math.Max(rmax, r)
	}
	// A circular orbit only sees the short-period J2 breathing.
	if rmax-rmin > 40 {
		t.Fatalf("circular orbit radius swings %v km", rmax-rmin)
	}
}

func TestPropagateEquatorialBoundary(t *testing.T) {
	el, err := NewElementsTLE(14.2, 0.001, 0, 0, 35.0, 10.0, 1e-5, 0, 0, testEpoch)
	if err != nil {
		t.Fatal(err)
	}
	if err = el.Initialize(); err != nil {
		t.Fatal(err)
	}
	for _, tsince := range []float64{0, 30, 90} {
		s, err := el.Propagate(tsince)
		if err != nil {
			t.Fatalf("t=%v: %v", tsince, err)
		}
		if math.Abs(s.R[2]) > 1e-6 {
			t.Fatalf("t=%v: equatorial orbit left the plane, z=%v km", tsince, s.R[2])
		}
	}
}

func TestPropagateRetrograde(t *testing.T) {
	el, err := NewElementsTLE(14.2, 0.002, 178.0, 40.0, 0, 10.0, 0, 0, 0, testEpoch)
	if err != nil {
		t.Fatal(err)
	}
	if err = el.Initialize(); err != nil {
		t.Fatal(err)
	}
	s, err := el.Propagate(30)
	if err != nil {
		t.Fatal(err)
	}
	h := cross(s.R[:], s.V[:])
	if h[2] >= 0 {
		t.Fatalf("retrograde orbit has prograde angular momentum, hz=%v", h[2])
	}
}

func TestPropagateDecay(t *testing.T) {
	el, err := NewElementsTLE(15.72125391, 0.0006703, 51.6416, 247.4627, 130.5360, 325.0288, 0.05, 0, 0, testEpoch)
	if err != nil {
		t.Fatal(err)
	}
	if err = el.Initialize(); err != nil {
		t.Fatal(err)
	}
	var decayErr DecayedError
	if _, err = el.Propagate(1e5); !errors.As(err, &decayErr) {
		t.Fatalf("heavy drag over weeks did not decay: %v", err)
	}
}

func TestPropagateDeepSpaceGeo(t *testing.T) {
	el := geoElements(t)
	if err := el.Initialize(); err != nil {
		t.Fatal(err)
	}
	for _, tsince := range []float64{0, 360, 720, 1440} {
		s, err := el.Propagate(tsince)
		if err != nil {
			t.Fatalf("t=%v: %v", tsince, err)
		}
		r := norm(s.R[:])
		if !floats.EqualWithinAbs(r, 42166, 400) {
			t.Fatalf("t=%v: geosynchronous radius %v km", tsince, r)
		}
		v := norm(s.V[:])
		if !floats.EqualWithinAbs(v, 3.075, 0.1) {
			t.Fatalf("t=%v: geosynchronous speed %v km/s", tsince, v)
		}
	}
}

func TestPropagateDeepSpaceMolniya(t *testing.T) {
	el := molniyaElements(t)
	if err := el.Initialize(); err != nil {
		t.Fatal(err)
	}
	for _, tsince := range []float64{0, 120, 359, 720} {
		s, err := el.Propagate(tsince)
		if err != nil {
			t.Fatalf("t=%v: %v", tsince, err)
		}
		r := norm(s.R[:])
		if r < 6600 || r > 47000 {
			t.Fatalf("t=%v: radius %v km outside the transfer envelope", tsince, r)
		}
	}
}

func TestPropagateGradSameState(t *testing.T) {
	el := issElements(t)
	if err := el.Initialize(); err != nil {
		t.Fatal(err)
	}
	s1, err := el.Propagate(100)
	if err != nil {
		t.Fatal(err)
	}
	s2, jac, err := el.PropagateGrad(100)
	if err != nil {
		t.Fatal(err)
	}
	if jac == nil {
		t.Fatal("no Jacobian returned")
	}
	for j := 0; j < 3; j++ {
		if s1.R[j] != s2.R[j] || s1.V[j] != s2.V[j] {
			t.Fatal("gradient propagation changed the state")
		}
	}
}
