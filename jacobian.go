package dsgp4

import "github.com/gonum/matrix/mat64"

// Jacobian maps infinitesimal changes of the nine mean elements (and elapsed
// time) to changes of the six state scalars. Rows are rx, ry, rz, vx, vy,
// vz; columns follow the element order B*, ndot, nddot, e, ω, i, M, n, Ω.
// The ndot and nddot columns are identically zero: the perturbation model
// never consumes those two inputs.
type Jacobian struct {
	m  *mat64.Dense  // 6x9
	dt *mat64.Vector // 6x1, per minute of elapsed time
}

func newJacobian(out [6]dual) *Jacobian {
	m := mat64.NewDense(6, 9, nil)
	dt := mat64.NewVector(6, nil)
	for r, d := range out {
		for c := 0; c < 9; c++ {
			m.Set(r, c, d.g[c])
		}
		dt.SetVec(r, d.g[pTime])
	}
	return &Jacobian{m: m, dt: dt}
}

// Matrix returns the 6x9 element Jacobian.
func (j *Jacobian) Matrix() *mat64.Dense { return j.m }

// TimePartials returns the 6-vector of state partials with respect to
// elapsed time, in km/min and (km/s)/min.
func (j *Jacobian) TimePartials() *mat64.Vector { return j.dt }

// At returns ∂state_r/∂element_c.
func (j *Jacobian) At(r, c int) float64 { return j.m.At(r, c) }
