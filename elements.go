package dsgp4

import (
	"fmt"
	"math"
	"time"

	"github.com/gonum/floats"
)

// Regime is the perturbation regime of an element set, fixed at
// initialization and carried immutably with it.
type Regime uint8

const (
	// RegimeNearEarth uses the full near-earth drag polynomial.
	RegimeNearEarth Regime = iota
	// RegimeNearEarthSimplified is near-earth with the reduced drag model
	// (perigee below the low-altitude threshold).
	RegimeNearEarthSimplified
	// RegimeDeepSpace adds lunar-solar and resonance perturbations
	// (orbital period beyond 225 minutes).
	RegimeDeepSpace
)

func (r Regime) String() string {
	switch r {
	case RegimeNearEarth:
		return "near-earth"
	case RegimeNearEarthSimplified:
		return "near-earth (simplified drag)"
	case RegimeDeepSpace:
		return "deep-space"
	default:
		panic(fmt.Errorf("unknown regime %d", uint8(r)))
	}
}

// Elements holds the nine mean orbital elements of one object at its epoch.
// Angles are in radians, the mean motion and its derivatives in rad/min,
// rad/min² and rad/min³, B* in 1/Earth radii. The zero value is not usable;
// construct via NewElements or NewElementsTLE.
type Elements struct {
	bstar, ndot, nddot float64
	e, ω, i, m, n, Ω   float64
	epoch              time.Time

	coeffs *coeffs // derived constants, populated once by Initialize
}

// NewElements validates the raw elements and returns an element set in the
// raw (non-initialized) state.
func NewElements(n, e, i, Ω, ω, m, bstar, ndot, nddot float64, epoch time.Time) (*Elements, error) {
	if e < 0 || e >= 1 {
		return nil, InvalidElementsError{Field: "eccentricity", Value: e}
	}
	if i < 0 || i > math.Pi {
		return nil, InvalidElementsError{Field: "inclination", Value: i}
	}
	if n <= 0 {
		return nil, InvalidElementsError{Field: "mean motion", Value: n}
	}
	return &Elements{
		bstar: bstar, ndot: ndot, nddot: nddot,
		e: e, ω: ω, i: i, m: m, n: n, Ω: Ω,
		epoch: epoch,
	}, nil
}

// NewElementsTLE builds an element set from values in the units a TLE record
// carries: mean motion in rev/day and its derivatives in rev/day² and
// rev/day³ (the halved/sixth-ed line-1 convention is the parser's problem),
// angles in degrees.
func NewElementsTLE(meanMotion, e, inclDeg, raanDeg, argpDeg, mDeg, bstar, ndot, nddot float64, epoch time.Time) (*Elements, error) {
	k := twoPi / minPerDay
	return NewElements(
		meanMotion*k,
		e,
		Deg2rad(inclDeg),
		Deg2rad(raanDeg),
		Deg2rad(argpDeg),
		Deg2rad(mDeg),
		bstar,
		ndot*k/minPerDay,
		nddot*k/(minPerDay*minPerDay),
		epoch,
	)
}

// Epoch returns the reference epoch of the element set.
func (el Elements) Epoch() time.Time { return el.epoch }

// Initialized reports whether the derived coefficients have been computed.
func (el Elements) Initialized() bool { return el.coeffs != nil }

// Regime returns the perturbation regime. Panics on a raw element set.
func (el Elements) Regime() Regime {
	if el.coeffs == nil {
		panic("Regime called on a raw element set")
	}
	return el.coeffs.regime
}

// SemiMajorAxis returns the recovered semi-major axis in km.
// Panics on a raw element set.
func (el Elements) SemiMajorAxis() float64 {
	if el.coeffs == nil {
		panic("SemiMajorAxis called on a raw element set")
	}
	return el.coeffs.ao.v * earthRadius
}

// Nine returns the nine elements in Jacobian column order:
// B*, ndot, nddot, e, ω, i, M, n, Ω.
func (el Elements) Nine() [9]float64 {
	return [9]float64{el.bstar, el.ndot, el.nddot, el.e, el.ω, el.i, el.m, el.n, el.Ω}
}

// withNine returns a raw copy with the nine elements replaced, keeping the
// epoch. Validation as in NewElements.
func (el Elements) withNine(y [9]float64) (*Elements, error) {
	return NewElements(y[pMeanMotion], y[pEcc], y[pIncl], y[pRAAN], y[pArgP], y[pMeanAnom], y[pBStar], y[pNDot], y[pNDDot], el.epoch)
}

// Equals compares the nine raw elements within floating tolerance.
func (el Elements) Equals(o Elements) bool {
	a, b := el.Nine(), o.Nine()
	for j := range a {
		if !floats.EqualWithinAbsOrRel(a[j], b[j], 1e-12, 1e-12) {
			return false
		}
	}
	return true
}

// String implements the Stringer interface.
func (el Elements) String() string {
	return fmt.Sprintf("n=%.8f e=%.7f i=%.3f Ω=%.3f ω=%.3f M=%.3f B*=%.4e",
		el.n*minPerDay/twoPi, el.e, Rad2deg(el.i), Rad2deg(el.Ω), Rad2deg(el.ω), Rad2deg(el.m), el.bstar)
}

// seeds returns the nine elements as duals, each the unit seed of its own
// gradient slot.
func (el Elements) seeds() (bstar, ecc, argp, incl, mo, no, raan dual) {
	bstar = seed(el.bstar, pBStar)
	ecc = seed(el.e, pEcc)
	argp = seed(el.ω, pArgP)
	incl = seed(el.i, pIncl)
	mo = seed(el.m, pMeanAnom)
	no = seed(el.n, pMeanMotion)
	raan = seed(el.Ω, pRAAN)
	return
}
