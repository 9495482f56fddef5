package dsgp4

import (
	"errors"

	"github.com/ChristopherRabotin/gokalman"
	"github.com/gonum/matrix"
	"github.com/gonum/matrix/mat64"
)

// CovarianceToState maps a covariance expressed on the nine mean elements to
// the corresponding Cartesian state covariance via the similarity
// transformation J Σ Jᵀ.
func CovarianceToState(jac *Jacobian, covElements *mat64.Dense) (*mat64.Dense, error) {
	r, c := covElements.Dims()
	if r != 9 || c != 9 {
		return nil, errors.New("element covariance must be 9x9")
	}
	var tmp, out mat64.Dense
	tmp.Mul(jac.m, covElements)
	out.Mul(&tmp, jac.m.T())
	return &out, nil
}

// CovarianceToElements maps a 6x6 Cartesian state covariance back to element
// space with the pseudo-inverse of the Jacobian: J⁺ Σ (J⁺)ᵀ. The two zero
// columns (ndot, nddot) come back as zero rows/columns.
func CovarianceToElements(jac *Jacobian, covState *mat64.Dense) (*mat64.Dense, error) {
	r, c := covState.Dims()
	if r != 6 || c != 6 {
		return nil, errors.New("state covariance must be 6x6")
	}
	jinv, err := pinv(jac.m)
	if err != nil {
		return nil, err
	}
	var tmp, out mat64.Dense
	tmp.Mul(jinv, covState)
	out.Mul(&tmp, jinv.T())
	return &out, nil
}

// pinv computes the Moore-Penrose pseudo-inverse via a thin SVD, zeroing
// singular values below a relative cutoff.
func pinv(a *mat64.Dense) (*mat64.Dense, error) {
	var svd mat64.SVD
	if ok := svd.Factorize(a, matrix.SVDThin); !ok {
		return nil, errors.New("SVD factorization failed")
	}
	var u, v mat64.Dense
	u.UFromSVD(&svd)
	v.VFromSVD(&svd)
	s := svd.Values(nil)
	cutoff := 1e-12 * s[0]
	sinv := mat64.NewDense(len(s), len(s), nil)
	for i, si := range s {
		if si > cutoff {
			sinv.Set(i, i, 1/si)
		}
	}
	var tmp, out mat64.Dense
	tmp.Mul(&v, sinv)
	out.Mul(&tmp, u.T())
	return &out, nil
}

// RTNBasis returns the 3x3 rotation whose columns are the radial,
// transverse and normal unit vectors of the given state, i.e. the matrix
// taking RTN components to the inertial frame.
func RTNBasis(s State) *mat64.Dense {
	rHat := unit(s.R[:])
	nVec := cross(s.R[:], s.V[:])
	nHat := unit(nVec)
	tHat := cross(nHat, rHat)
	return mat64.NewDense(3, 3, []float64{
		rHat[0], tHat[0], nHat[0],
		rHat[1], tHat[1], nHat[1],
		rHat[2], tHat[2], nHat[2],
	})
}

// CovarianceRTNToInertial rotates a 6x6 covariance given in the RTN frame of
// the state into the inertial frame, applying the same 3x3 basis to the
// position and velocity blocks.
func CovarianceRTNToInertial(s State, covRTN *mat64.Dense) (*mat64.Dense, error) {
	r, c := covRTN.Dims()
	if r != 6 || c != 6 {
		return nil, errors.New("RTN covariance must be 6x6")
	}
	basis := RTNBasis(s)
	rot := gokalman.DenseIdentity(6)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rot.Set(i, j, basis.At(i, j))
			rot.Set(i+3, j+3, basis.At(i, j))
		}
	}
	var tmp, out mat64.Dense
	tmp.Mul(rot, covRTN)
	out.Mul(&tmp, rot.T())
	return &out, nil
}
