package dsgp4

import (
	"math"
	"os"

	kitlog "github.com/go-kit/kit/log"
	"github.com/gonum/matrix/mat64"
)

// freeSlots are the Jacobian columns the solver actually uses: the ndot and
// nddot columns are identically zero (they never enter the propagation) and
// B* is ill conditioned near epoch, so the update runs on the six osculating
// elements.
var freeSlots = [6]int{pEcc, pArgP, pIncl, pMeanAnom, pMeanMotion, pRAAN}

// FindElements solves for the mean element set whose propagation at tsince
// reproduces the target Cartesian state, by Newton iteration on the six
// elements e, ω, i, M, n, Ω starting from guess. B*, ndot and nddot are kept
// at the guess values. Tolerance and iteration cap come from the
// configuration (newton.tolerance, newton.max_iterations).
func FindElements(target State, guess *Elements, tsince float64) (*Elements, error) {
	cfg := dsgp4Config()
	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	klog = kitlog.With(klog, "solver", "newton")

	want := mat64.NewVector(6, target.Vector())
	cur := *guess
	cur.coeffs = nil
	residual := math.Inf(1)

	for it := 0; it < cfg.newtonMaxIter; it++ {
		if err := cur.Initialize(); err != nil {
			return nil, err
		}
		state, jac, err := cur.PropagateGrad(tsince)
		if err != nil {
			return nil, err
		}

		f := mat64.NewVector(6, state.Vector())
		f.SubVec(f, want)
		residual = mat64.Norm(f, 2)
		if residual < cfg.newtonTol {
			klog.Log("converged", true, "iterations", it, "residual", residual)
			out := cur
			return &out, nil
		}

		df := mat64.NewDense(6, 6, nil)
		for r := 0; r < 6; r++ {
			for c, slot := range freeSlots {
				df.Set(r, c, jac.At(r, slot))
			}
		}
		// The ω and M columns are nearly anti-parallel for near-circular
		// orbits, so the step comes from an SVD least-squares solve rather
		// than explicit normal equations (which square the conditioning).
		dfinv, err := pinv(df)
		if err != nil {
			return nil, NewtonError{Iterations: it, Residual: residual}
		}
		var dy mat64.Vector
		dy.MulVec(dfinv, f)
		// A step at rounding level means the residual has bottomed out at
		// machine precision for this state magnitude.
		if mat64.Norm(&dy, 2) < 1e-13 {
			klog.Log("converged", true, "iterations", it, "residual", residual)
			out := cur
			return &out, nil
		}

		y := cur.Nine()
		for c, slot := range freeSlots {
			y[slot] -= dy.At(c, 0)
		}
		y[pEcc] = math.Max(0, math.Min(y[pEcc], 1-1e-12))
		y[pIncl] = math.Max(0, math.Min(y[pIncl], math.Pi))
		next, err := cur.withNine(y)
		if err != nil {
			return nil, NewtonError{Iterations: it, Residual: residual}
		}
		cur = *next
		klog.Log("iteration", it, "residual", residual)
	}
	return nil, NewtonError{Iterations: cfg.newtonMaxIter, Residual: residual}
}
