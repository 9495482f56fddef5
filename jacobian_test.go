package dsgp4

import (
	"testing"

	"github.com/gonum/floats"
)

// fdColumn computes the central finite-difference of the state w.r.t. the
// element in the given slot, re-initializing the perturbed sets from scratch.
func fdColumn(t *testing.T, el *Elements, tsince float64, slot int, h float64) [6]float64 {
	t.Helper()
	stateAt := func(y [9]float64) [6]float64 {
		cp, err := el.withNine(y)
		if err != nil {
			t.Fatal(err)
		}
		if err = cp.Initialize(); err != nil {
			t.Fatal(err)
		}
		s, err := cp.Propagate(tsince)
		if err != nil {
			t.Fatal(err)
		}
		var out [6]float64
		copy(out[:], s.Vector())
		return out
	}
	yp, ym := el.Nine(), el.Nine()
	yp[slot] += h
	ym[slot] -= h
	sp, sm := stateAt(yp), stateAt(ym)
	var col [6]float64
	for r := 0; r < 6; r++ {
		col[r] = (sp[r] - sm[r]) / (2 * h)
	}
	return col
}

func TestJacobianFiniteDifference(t *testing.T) {
	el := issElements(t)
	if err := el.Initialize(); err != nil {
		t.Fatal(err)
	}
	const tsince = 120.0
	_, jac, err := el.PropagateGrad(tsince)
	if err != nil {
		t.Fatal(err)
	}

	steps := map[int]float64{
		pBStar:      1e-6,
		pEcc:        1e-7,
		pArgP:       1e-6,
		pIncl:       1e-6,
		pMeanAnom:   1e-6,
		pMeanMotion: 1e-9,
		pRAAN:       1e-6,
	}
	for slot, h := range steps {
		fd := fdColumn(t, el, tsince, slot, h)
		for r := 0; r < 6; r++ {
			ad := jac.At(r, slot)
			if !floats.EqualWithinAbsOrRel(ad, fd[r], 1e-4, 1e-4) {
				t.Fatalf("column %d row %d: analytic %v, finite difference %v", slot, r, ad, fd[r])
			}
		}
	}
}

func TestJacobianZeroColumns(t *testing.T) {
	el := issElements(t)
	if err := el.Initialize(); err != nil {
		t.Fatal(err)
	}
	_, jac, err := el.PropagateGrad(200)
	if err != nil {
		t.Fatal(err)
	}
	for r := 0; r < 6; r++ {
		if jac.At(r, pNDot) != 0 || jac.At(r, pNDDot) != 0 {
			t.Fatalf("row %d: mean-motion derivative columns are not zero", r)
		}
	}
}

func TestTimePartialsFiniteDifference(t *testing.T) {
	el := issElements(t)
	if err := el.Initialize(); err != nil {
		t.Fatal(err)
	}
	const tsince, h = 75.0, 1e-4
	_, jac, err := el.PropagateGrad(tsince)
	if err != nil {
		t.Fatal(err)
	}
	sp, err := el.Propagate(tsince + h)
	if err != nil {
		t.Fatal(err)
	}
	sm, err := el.Propagate(tsince - h)
	if err != nil {
		t.Fatal(err)
	}
	dt := jac.TimePartials()
	vp, vm := sp.Vector(), sm.Vector()
	for r := 0; r < 6; r++ {
		fd := (vp[r] - vm[r]) / (2 * h)
		if !floats.EqualWithinAbsOrRel(dt.At(r, 0), fd, 1e-5, 1e-5) {
			t.Fatalf("row %d: analytic %v, finite difference %v", r, dt.At(r, 0), fd)
		}
	}
}

func TestJacobianDeepSpaceFiniteDifference(t *testing.T) {
	el := geoElements(t)
	if err := el.Initialize(); err != nil {
		t.Fatal(err)
	}
	const tsince = 300.0
	_, jac, err := el.PropagateGrad(tsince)
	if err != nil {
		t.Fatal(err)
	}
	steps := map[int]float64{
		pEcc:        1e-7,
		pMeanAnom:   1e-6,
		pMeanMotion: 1e-10,
		pRAAN:       1e-6,
	}
	for slot, h := range steps {
		fd := fdColumn(t, el, tsince, slot, h)
		for r := 0; r < 6; r++ {
			ad := jac.At(r, slot)
			if !floats.EqualWithinAbsOrRel(ad, fd[r], 1e-3, 1e-3) {
				t.Fatalf("column %d row %d: analytic %v, finite difference %v", slot, r, ad, fd[r])
			}
		}
	}
}

func TestJacobianEpochNearIdentityBlock(t *testing.T) {
	// At epoch the sensitivity of position to the fast angle M is the
	// in-track direction scaled by the radius, a useful sanity anchor.
	el := issElements(t)
	if err := el.Initialize(); err != nil {
		t.Fatal(err)
	}
	s, jac, err := el.PropagateGrad(0)
	if err != nil {
		t.Fatal(err)
	}
	r := norm(s.R[:])
	dM := []float64{jac.At(0, pMeanAnom), jac.At(1, pMeanAnom), jac.At(2, pMeanAnom)}
	if !floats.EqualWithinAbsOrRel(norm(dM), r, 0, 0.05) {
		t.Fatalf("|∂r/∂M| = %v km/rad, radius %v km", norm(dM), r)
	}
}
