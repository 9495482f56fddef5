package dsgp4

import (
	"errors"
	"testing"

	"github.com/gonum/floats"
)

func TestInitializeRegimes(t *testing.T) {
	iss := issElements(t)
	if err := iss.Initialize(); err != nil {
		t.Fatal(err)
	}
	if iss.Regime() != RegimeNearEarth {
		t.Fatalf("low orbit classified as %s", iss.Regime())
	}

	geo := geoElements(t)
	if err := geo.Initialize(); err != nil {
		t.Fatal(err)
	}
	if geo.Regime() != RegimeDeepSpace {
		t.Fatalf("geosynchronous orbit classified as %s", geo.Regime())
	}

	mol := molniyaElements(t)
	if err := mol.Initialize(); err != nil {
		t.Fatal(err)
	}
	if mol.Regime() != RegimeDeepSpace {
		t.Fatalf("half-day orbit classified as %s", mol.Regime())
	}

	// Perigee below 220 km gets the reduced drag polynomial.
	low, err := NewElementsTLE(16.4, 0.001, 28.5, 0, 0, 0, 1e-4, 0, 0, testEpoch)
	if err != nil {
		t.Fatal(err)
	}
	if err = low.Initialize(); err != nil {
		t.Fatal(err)
	}
	if low.Regime() != RegimeNearEarthSimplified {
		t.Fatalf("very low orbit classified as %s", low.Regime())
	}
}

func TestInitializeIdempotent(t *testing.T) {
	el := issElements(t)
	if err := el.Initialize(); err != nil {
		t.Fatal(err)
	}
	firstSMA := el.SemiMajorAxis()
	firstRegime := el.Regime()
	s1, err := el.Propagate(42.0)
	if err != nil {
		t.Fatal(err)
	}
	if err = el.Initialize(); err != nil {
		t.Fatal(err)
	}
	if el.SemiMajorAxis() != firstSMA || el.Regime() != firstRegime {
		t.Fatal("second Initialize changed derived values")
	}
	s2, err := el.Propagate(42.0)
	if err != nil {
		t.Fatal(err)
	}
	for j := 0; j < 3; j++ {
		if s1.R[j] != s2.R[j] || s1.V[j] != s2.V[j] {
			t.Fatal("second Initialize changed propagation output")
		}
	}
}

func TestInitializeSubSurfacePerigee(t *testing.T) {
	// Mean motion of ~17.6 rev/day with e=0.35 puts the perigee far below
	// the surface.
	el, err := NewElementsTLE(17.6, 0.35, 40, 0, 0, 0, 0, 0, 0, testEpoch)
	if err != nil {
		t.Fatal(err)
	}
	var degErr DegenerateGeometryError
	if err = el.Initialize(); !errors.As(err, &degErr) {
		t.Fatalf("sub-surface perigee accepted: %v", err)
	}
	if el.Initialized() {
		t.Fatal("failed Initialize left the set initialized")
	}
}

func TestSemiMajorAxisRecovery(t *testing.T) {
	el := issElements(t)
	if err := el.Initialize(); err != nil {
		t.Fatal(err)
	}
	// Brouwer semi-major axis of a ~15.7 rev/day orbit is a touch above the
	// Kepler value of ~6731 km.
	if !floats.EqualWithinAbs(el.SemiMajorAxis(), 6731, 20) {
		t.Fatalf("semi-major axis %v km", el.SemiMajorAxis())
	}
}
