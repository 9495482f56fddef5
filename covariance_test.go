package dsgp4

import (
	"testing"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
	"github.com/gonum/stat/distmv"
)

// diagElementCovariance is a plausible TLE uncertainty, diagonal in element
// space. Units follow the elements themselves.
func diagElementCovariance() *mat64.Dense {
	σ := [9]float64{1e-8, 1e-16, 1e-20, 1e-8, 1e-6, 1e-6, 1e-6, 1e-10, 1e-6}
	cov := mat64.NewDense(9, 9, nil)
	for j, s := range σ {
		cov.Set(j, j, s*s)
	}
	return cov
}

func TestCovarianceToStateIsValidCovariance(t *testing.T) {
	el := issElements(t)
	if err := el.Initialize(); err != nil {
		t.Fatal(err)
	}
	_, jac, err := el.PropagateGrad(60)
	if err != nil {
		t.Fatal(err)
	}
	covS, err := CovarianceToState(jac, diagElementCovariance())
	if err != nil {
		t.Fatal(err)
	}
	// Symmetry.
	for r := 0; r < 6; r++ {
		for c := r + 1; c < 6; c++ {
			if !floats.EqualWithinAbsOrRel(covS.At(r, c), covS.At(c, r), 1e-12, 1e-9) {
				t.Fatalf("state covariance not symmetric at (%d,%d)", r, c)
			}
		}
	}
	// Positive definite: a multivariate normal must accept it.
	sym := mat64.NewSymDense(6, nil)
	for r := 0; r < 6; r++ {
		for c := r; c < 6; c++ {
			sym.SetSym(r, c, (covS.At(r, c)+covS.At(c, r))/2)
		}
	}
	if _, ok := distmv.NewNormal(make([]float64, 6), sym, nil); !ok {
		t.Fatal("state covariance is not positive definite")
	}
}

func TestCovarianceStateRoundTrip(t *testing.T) {
	el := issElements(t)
	if err := el.Initialize(); err != nil {
		t.Fatal(err)
	}
	_, jac, err := el.PropagateGrad(60)
	if err != nil {
		t.Fatal(err)
	}
	covS, err := CovarianceToState(jac, diagElementCovariance())
	if err != nil {
		t.Fatal(err)
	}
	covE, err := CovarianceToElements(jac, covS)
	if err != nil {
		t.Fatal(err)
	}
	// ndot and nddot never influence the state, so their uncertainty cannot
	// come back.
	if covE.At(pNDot, pNDot) > 1e-20 || covE.At(pNDDot, pNDDot) > 1e-20 {
		t.Fatal("unobservable element rows came back nonzero")
	}
	// Mapping the recovered element covariance forward again must land on
	// the same state covariance.
	covS2, err := CovarianceToState(jac, covE)
	if err != nil {
		t.Fatal(err)
	}
	for r := 0; r < 6; r++ {
		for c := 0; c < 6; c++ {
			if !floats.EqualWithinAbsOrRel(covS2.At(r, c), covS.At(r, c), 1e-15, 1e-6) {
				t.Fatalf("(%d,%d): round trip %v, original %v", r, c, covS2.At(r, c), covS.At(r, c))
			}
		}
	}
}

func TestCovarianceDimensionChecks(t *testing.T) {
	el := issElements(t)
	if err := el.Initialize(); err != nil {
		t.Fatal(err)
	}
	_, jac, err := el.PropagateGrad(0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = CovarianceToState(jac, mat64.NewDense(6, 6, nil)); err == nil {
		t.Fatal("6x6 accepted as element covariance")
	}
	if _, err = CovarianceToElements(jac, mat64.NewDense(9, 9, nil)); err == nil {
		t.Fatal("9x9 accepted as state covariance")
	}
}

func TestRTNBasisOrthonormal(t *testing.T) {
	el := issElements(t)
	if err := el.Initialize(); err != nil {
		t.Fatal(err)
	}
	s, err := el.Propagate(30)
	if err != nil {
		t.Fatal(err)
	}
	basis := RTNBasis(s)
	var btb mat64.Dense
	btb.Mul(basis.T(), basis)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			want := 0.0
			if r == c {
				want = 1
			}
			if !floats.EqualWithinAbs(btb.At(r, c), want, 1e-12) {
				t.Fatalf("BᵀB(%d,%d) = %v", r, c, btb.At(r, c))
			}
		}
	}
}

func TestCovarianceRTNToInertialIdentity(t *testing.T) {
	el := issElements(t)
	if err := el.Initialize(); err != nil {
		t.Fatal(err)
	}
	s, err := el.Propagate(30)
	if err != nil {
		t.Fatal(err)
	}
	eye := mat64.NewDense(6, 6, nil)
	for j := 0; j < 6; j++ {
		eye.Set(j, j, 1)
	}
	rot, err := CovarianceRTNToInertial(s, eye)
	if err != nil {
		t.Fatal(err)
	}
	// An isotropic covariance is rotation invariant.
	for r := 0; r < 6; r++ {
		for c := 0; c < 6; c++ {
			want := 0.0
			if r == c {
				want = 1
			}
			if !floats.EqualWithinAbs(rot.At(r, c), want, 1e-12) {
				t.Fatalf("(%d,%d) = %v", r, c, rot.At(r, c))
			}
		}
	}
}
