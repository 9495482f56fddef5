package dsgp4

import "math"

// numPartials is the width of the gradient carried by every scalar: the nine
// mean elements followed by elapsed time.
const numPartials = 10

// Gradient slot indices, in the Jacobian column order.
const (
	pBStar = iota
	pNDot
	pNDDot
	pEcc
	pArgP
	pIncl
	pMeanAnom
	pMeanMotion
	pRAAN
	pTime
)

// dual is a first-order forward-mode scalar: a value and its exact partial
// derivatives with respect to the nine mean elements and elapsed time.
// All initializer and propagator arithmetic is expressed over duals so a
// single pass yields both the state and its Jacobian.
type dual struct {
	v float64
	g [numPartials]float64
}

// con returns a dual with no dependency on any input.
func con(v float64) dual { return dual{v: v} }

// seed returns a dual which *is* the idx-th input.
func seed(v float64, idx int) dual {
	d := dual{v: v}
	d.g[idx] = 1
	return d
}

func (a dual) add(b dual) dual {
	out := dual{v: a.v + b.v}
	for i := range out.g {
		out.g[i] = a.g[i] + b.g[i]
	}
	return out
}

func (a dual) sub(b dual) dual {
	out := dual{v: a.v - b.v}
	for i := range out.g {
		out.g[i] = a.g[i] - b.g[i]
	}
	return out
}

func (a dual) mul(b dual) dual {
	out := dual{v: a.v * b.v}
	for i := range out.g {
		out.g[i] = a.g[i]*b.v + a.v*b.g[i]
	}
	return out
}

func (a dual) div(b dual) dual {
	inv := 1 / (b.v * b.v)
	out := dual{v: a.v / b.v}
	for i := range out.g {
		out.g[i] = (a.g[i]*b.v - a.v*b.g[i]) * inv
	}
	return out
}

// addc adds a constant.
func (a dual) addc(c float64) dual {
	a.v += c
	return a
}

// mulc scales by a constant.
func (a dual) mulc(c float64) dual {
	a.v *= c
	for i := range a.g {
		a.g[i] *= c
	}
	return a
}

func (a dual) neg() dual { return a.mulc(-1) }

// chain applies f' = dfdv to the gradient for a value f(a.v).
func (a dual) chain(v, dfdv float64) dual {
	out := dual{v: v}
	for i := range out.g {
		out.g[i] = dfdv * a.g[i]
	}
	return out
}

func (a dual) sin() dual {
	s, c := math.Sincos(a.v)
	return a.chain(s, c)
}

func (a dual) cos() dual {
	s, c := math.Sincos(a.v)
	return a.chain(c, -s)
}

func (a dual) sincos() (dual, dual) {
	s, c := math.Sincos(a.v)
	return a.chain(s, c), a.chain(c, -s)
}

func (a dual) sqrt() dual {
	r := math.Sqrt(a.v)
	return a.chain(r, 0.5/r)
}

// pow raises to a constant exponent.
func (a dual) pow(p float64) dual {
	r := math.Pow(a.v, p)
	return a.chain(r, p*r/a.v)
}

// square avoids the Pow call for the common case.
func (a dual) square() dual { return a.mul(a) }

func (a dual) cube() dual { return a.mul(a).mul(a) }

func (a dual) abs() dual {
	if a.v < 0 {
		return a.neg()
	}
	return a
}

// atan2 returns atan2(a, b). The derivative (b·da − a·db)/(a²+b²) is exact
// away from the origin.
func (a dual) atan2(b dual) dual {
	out := dual{v: math.Atan2(a.v, b.v)}
	inv := 1 / (a.v*a.v + b.v*b.v)
	for i := range out.g {
		out.g[i] = (b.v*a.g[i] - a.v*b.g[i]) * inv
	}
	return out
}

// mod2pi wraps the value into [0, 2π). A shift by a multiple of 2π leaves
// the partials untouched.
func (a dual) mod2pi() dual {
	a.v = math.Mod(a.v, twoPi)
	if a.v < 0 {
		a.v += twoPi
	}
	return a
}

// clampConst replaces the value with a constant, severing all dependencies.
// Used where the theory pins a runaway quantity to a fixed bound.
func clampConst(v float64) dual { return con(v) }

// finite reports whether the value and every partial are finite.
func (a dual) finite() bool {
	if math.IsNaN(a.v) || math.IsInf(a.v, 0) {
		return false
	}
	for _, gi := range a.g {
		if math.IsNaN(gi) || math.IsInf(gi, 0) {
			return false
		}
	}
	return true
}

// valueFinite reports whether the value alone is finite.
func (a dual) valueFinite() bool {
	return !math.IsNaN(a.v) && !math.IsInf(a.v, 0)
}
