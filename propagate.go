package dsgp4

import (
	"fmt"
	"math"
)

// State is the propagated Cartesian state in the TEME frame, in km and km/s.
type State struct {
	R [3]float64
	V [3]float64
}

func (s State) String() string {
	return fmt.Sprintf("R=[%.3f %.3f %.3f] km V=[%.6f %.6f %.6f] km/s", s.R[0], s.R[1], s.R[2], s.V[0], s.V[1], s.V[2])
}

// Vector returns the state flattened to [rx ry rz vx vy vz].
func (s State) Vector() []float64 {
	return []float64{s.R[0], s.R[1], s.R[2], s.V[0], s.V[1], s.V[2]}
}

// Propagate computes the state tsince minutes after the element set epoch.
// The element set must be initialized and is never mutated.
func (el *Elements) Propagate(tsince float64) (State, error) {
	st, _, err := el.propagate(tsince, false)
	return st, err
}

// PropagateGrad is Propagate plus the exact Jacobian of the state with
// respect to the nine elements and elapsed time. When the state is valid but
// a partial is not (orbit at a derivative singularity), the state is
// returned together with a DerivativeError.
func (el *Elements) PropagateGrad(tsince float64) (State, *Jacobian, error) {
	return el.propagate(tsince, true)
}

func (el *Elements) propagate(tsince float64, grad bool) (State, *Jacobian, error) {
	if el.coeffs == nil {
		return State{}, nil, NotInitializedError{}
	}
	c := el.coeffs
	cfg := dsgp4Config()

	bstar, ecco, argpo, inclo, mo, _, nodeo := el.seeds()
	t := seed(tsince, pTime)

	// Secular drift of node, perigee and mean anomaly, plus the drag
	// polynomial in elapsed time.
	xmdf := mo.add(c.mdot.mul(t))
	argpdf := argpo.add(c.argpdot.mul(t))
	nodedf := nodeo.add(c.nodedot.mul(t))
	argpm := argpdf
	mm := xmdf
	t2 := t.square()
	nodem := nodedf.add(c.nodecf.mul(t2))
	tempa := con(1).sub(c.cc1.mul(t))
	tempe := bstar.mul(c.cc4).mul(t)
	templ := c.t2cof.mul(t2)

	if c.regime == RegimeNearEarth {
		delomg := c.omgcof.mul(t)
		delmtemp := c.eta.mul(xmdf.cos()).addc(1)
		delm := c.xmcof.mul(delmtemp.cube().sub(c.delmo))
		temp := delomg.add(delm)
		mm = xmdf.add(temp)
		argpm = argpdf.sub(temp)
		t3 := t2.mul(t)
		t4 := t3.mul(t)
		tempa = tempa.sub(c.d2.mul(t2)).sub(c.d3.mul(t3)).sub(c.d4.mul(t4))
		tempe = tempe.add(bstar.mul(c.cc5).mul(mm.sin().sub(c.sinmao)))
		templ = templ.add(c.t3cof.mul(t3)).add(t4.mul(c.t4cof.add(t.mul(c.t5cof))))
	}

	nm := c.no
	em := ecco
	inclm := inclo
	if c.regime == RegimeDeepSpace {
		em, inclm, nodem, argpm, mm, nm = c.dsSecular(t, em, inclm, nodem, argpm, mm, argpo, c.no)
	}

	if nm.v <= 0 {
		return State{}, nil, DecayedError{Tsince: tsince, Quantity: "mean motion", Value: nm.v}
	}
	am := con(xke).div(nm).pow(x2o3).mul(tempa.square())
	nm = con(xke).div(am.pow(1.5))
	em = em.sub(tempe)
	if em.v >= 1 || em.v < -0.001 {
		return State{}, nil, DecayedError{Tsince: tsince, Quantity: "eccentricity", Value: em.v}
	}
	if em.v < 1e-6 {
		em = clampConst(1e-6)
	}
	mm = mm.add(c.no.mul(templ))
	xlm := mm.add(argpm).add(nodem)
	nodem = nodem.mod2pi()
	argpm = argpm.mod2pi()
	xlm = xlm.mod2pi()
	mm = xlm.sub(argpm).sub(nodem).mod2pi()

	// Lunar-solar periodics for deep-space sets.
	ep := em
	xincp := inclm
	argpp := argpm
	nodep := nodem
	mp := mm
	sinip, cosip := c.sinio, c.cosio
	aycof, xlcof := c.aycof, c.xlcof
	con41, x1mth2, x7thm1 := c.con41, c.x1mth2, c.x7thm1
	if c.regime == RegimeDeepSpace {
		ep, xincp, nodep, argpp, mp = c.dsPeriodics(t, ep, xincp, nodep, argpp, mp)
		if xincp.v < 0 {
			xincp = xincp.neg()
			nodep = nodep.addc(math.Pi)
			argpp = argpp.addc(-math.Pi)
		}
		if ep.v < 0 || ep.v > 1 {
			return State{}, nil, DecayedError{Tsince: tsince, Quantity: "perturbed eccentricity", Value: ep.v}
		}
		// The periodics move the inclination, so the inclination functions
		// must be recomputed for this call.
		sinip, cosip = xincp.sincos()
		aycof = sinip.mulc(-0.5 * j3oj2)
		if math.Abs(cosip.v+1) > 1.5e-12 {
			xlcof = sinip.mulc(-0.25 * j3oj2).mul(cosip.mulc(5).addc(3)).div(cosip.addc(1))
		} else {
			xlcof = sinip.mulc(-0.25 * j3oj2).mul(cosip.mulc(5).addc(3)).mulc(1 / 1.5e-12)
		}
		cosisq := cosip.square()
		con41 = cosisq.mulc(3).addc(-1)
		x1mth2 = con(1).sub(cosisq)
		x7thm1 = cosisq.mulc(7).addc(-1)
	}

	// Long-period periodics.
	axnl := ep.mul(argpp.cos())
	temp := con(1).div(am.mul(con(1).sub(ep.square())))
	aynl := ep.mul(argpp.sin()).add(temp.mul(aycof))
	xl := mp.add(argpp).add(nodep).add(temp.mul(xlcof).mul(axnl))

	// Kepler's equation for the eccentric longitude. The iteration runs on
	// values only; the partials of the root come from implicitly
	// differentiating u = E - axnl·sin E + aynl·cos E at convergence.
	u := xl.sub(nodep).mod2pi()
	eo1 := u.v
	tem5 := 9999.9
	ktr := 1
	var sineo1, coseo1 float64
	for ; math.Abs(tem5) >= cfg.keplerTol && ktr <= cfg.keplerMaxIter; ktr++ {
		sineo1, coseo1 = math.Sincos(eo1)
		tem5 = 1 - coseo1*axnl.v - sineo1*aynl.v
		tem5 = (u.v - aynl.v*coseo1 + axnl.v*sineo1 - eo1) / tem5
		if math.Abs(tem5) >= 0.95 {
			tem5 = math.Copysign(0.95, tem5)
		}
		eo1 += tem5
	}
	if math.Abs(tem5) >= cfg.keplerTol {
		return State{}, nil, KeplerError{Tsince: tsince, Iterations: ktr - 1, Residual: tem5}
	}
	sineo1, coseo1 = math.Sincos(eo1)
	eccel := dual{v: eo1}
	denom := 1 - (axnl.v*coseo1 + aynl.v*sineo1)
	for j := range eccel.g {
		eccel.g[j] = (u.g[j] + sineo1*axnl.g[j] - coseo1*aynl.g[j]) / denom
	}
	sinE, cosE := eccel.sincos()

	// Short-period preliminary quantities.
	ecose := axnl.mul(cosE).add(aynl.mul(sinE))
	esine := axnl.mul(sinE).sub(aynl.mul(cosE))
	el2 := axnl.square().add(aynl.square())
	pl := am.mul(con(1).sub(el2))
	if pl.v < 0 {
		return State{}, nil, DecayedError{Tsince: tsince, Quantity: "semi-latus rectum", Value: pl.v}
	}
	rl := am.mul(con(1).sub(ecose))
	rdotl := am.sqrt().mul(esine).div(rl)
	rvdotl := pl.sqrt().div(rl)
	betal := con(1).sub(el2).sqrt()
	temp = esine.div(betal.addc(1))
	aoverr := am.div(rl)
	sinu := aoverr.mul(sinE.sub(aynl).sub(axnl.mul(temp)))
	cosu := aoverr.mul(cosE.sub(axnl).add(aynl.mul(temp)))
	su := sinu.atan2(cosu)
	sin2u := cosu.mul(sinu).mulc(2)
	cos2u := con(1).sub(sinu.square().mulc(2))

	// Short-period J2 corrections.
	temp = con(1).div(pl)
	temp1 := temp.mulc(0.5 * j2)
	temp2 := temp1.mul(temp)
	mrt := rl.mul(con(1).sub(temp2.mulc(1.5).mul(betal).mul(con41))).add(
		temp1.mulc(0.5).mul(x1mth2).mul(cos2u))
	su = su.sub(temp2.mulc(0.25).mul(x7thm1).mul(sin2u))
	xnode := nodep.add(temp2.mulc(1.5).mul(cosip).mul(sin2u))
	xinc := xincp.add(temp2.mulc(1.5).mul(cosip).mul(sinip).mul(cos2u))
	mvt := rdotl.sub(nm.mul(temp1).mul(x1mth2).mul(sin2u).mulc(1 / xke))
	rvdot := rvdotl.add(nm.mul(temp1).mul(x1mth2.mul(cos2u).add(con41.mulc(1.5))).mulc(1 / xke))

	// Orientation vectors and rotation to TEME.
	sinsu, cossu := su.sincos()
	snod, cnod := xnode.sincos()
	sini, cosi := xinc.sincos()
	xmx := snod.neg().mul(cosi)
	xmy := cnod.mul(cosi)
	ux := xmx.mul(sinsu).add(cnod.mul(cossu))
	uy := xmy.mul(sinsu).add(snod.mul(cossu))
	uz := sini.mul(sinsu)
	vx := xmx.mul(cossu).sub(cnod.mul(sinsu))
	vy := xmy.mul(cossu).sub(snod.mul(sinsu))
	vz := sini.mul(cossu)

	out := [6]dual{
		mrt.mul(ux).mulc(earthRadius),
		mrt.mul(uy).mulc(earthRadius),
		mrt.mul(uz).mulc(earthRadius),
		mvt.mul(ux).add(rvdot.mul(vx)).mulc(vKmPerSec),
		mvt.mul(uy).add(rvdot.mul(vy)).mulc(vKmPerSec),
		mvt.mul(uz).add(rvdot.mul(vz)).mulc(vKmPerSec),
	}

	if mrt.v < 1 {
		return State{}, nil, DecayedError{Tsince: tsince, Quantity: "radius", Value: mrt.v}
	}
	var st State
	for j := 0; j < 3; j++ {
		if !out[j].valueFinite() || !out[j+3].valueFinite() {
			return State{}, nil, fmt.Errorf("non-finite state component at t=%.3f min", tsince)
		}
		st.R[j] = out[j].v
		st.V[j] = out[j+3].v
	}
	if !grad {
		return st, nil, nil
	}

	jac := newJacobian(out)
	for j := range out {
		if !out[j].finite() {
			return st, jac, DerivativeError{Tsince: tsince, Reason: "non-finite partial (orbit at a derivative singularity)"}
		}
	}
	return st, jac, nil
}
