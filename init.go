package dsgp4

import "math"

// coeffs holds every time-invariant coefficient derived from the raw
// elements, as duals so that each carries its exact partials with respect to
// the nine inputs. Populated once by Initialize and read-only thereafter.
type coeffs struct {
	regime Regime
	gsto   float64 // Greenwich sidereal time at epoch, rad

	// Brouwer-recovered semi-major axis (Earth radii) and mean motion (rad/min).
	ao, no dual

	// Inclination functions, fixed at epoch.
	cosio, sinio          dual
	con41, x1mth2, x7thm1 dual

	// Secular rates.
	mdot, argpdot, nodedot, xpidot dual

	// Drag polynomial.
	cc1, cc4, cc5         dual
	d2, d3, d4            dual
	t2cof, t3cof          dual
	t4cof, t5cof          dual
	omgcof, xmcof, nodecf dual
	eta, delmo, sinmao    dual

	// Long-period periodics.
	xlcof, aycof dual

	deep *deepCoeffs // nil for near-earth sets
}

// Initialize recovers the Brouwer mean elements, classifies the perturbation
// regime and computes all propagation coefficients. It overwrites any prior
// derived state from the raw nine, so a second call is idempotent. Fails with
// InvalidElementsError or DegenerateGeometryError; on failure the set stays
// raw.
func (el *Elements) Initialize() error {
	if el.e < 0 || el.e >= 1 {
		return InvalidElementsError{Field: "eccentricity", Value: el.e}
	}
	if el.i < 0 || el.i > math.Pi {
		return InvalidElementsError{Field: "inclination", Value: el.i}
	}
	if el.n <= 0 {
		return InvalidElementsError{Field: "mean motion", Value: el.n}
	}

	bstar, ecco, argpo, inclo, mo, no, nodeo := el.seeds()
	c := &coeffs{regime: RegimeNearEarth, gsto: gstime(epochJD(el.epoch))}

	// Un-Kozai the mean motion and recover the semi-major axis.
	eccsq := ecco.square()
	omeosq := con(1).sub(eccsq)
	rteosq := omeosq.sqrt()
	cosio := inclo.cos()
	cosio2 := cosio.square()
	ak := con(xke).div(no).pow(x2o3)
	d1 := con(0.75 * j2).mul(cosio2.mulc(3).addc(-1)).div(rteosq.mul(omeosq))
	del := d1.div(ak.square())
	adel := ak.mul(con(1).sub(del.mul(del.mul(del.mulc(134.0 / 81.0).addc(1)).addc(1.0 / 3.0))))
	del = d1.div(adel.square())
	no = no.div(del.addc(1))
	ao := con(xke).div(no).pow(x2o3)
	sinio := inclo.sin()
	po := ao.mul(omeosq)
	con42 := con(1).sub(cosio2.mulc(5))
	con41 := cosio2.mulc(3).addc(-1)
	posq := po.square()
	rp := ao.mul(con(1).sub(ecco))

	if no.v <= 0 {
		return DegenerateGeometryError{Check: "recovered mean motion non-positive", Value: no.v}
	}
	if ao.v <= 0 {
		return DegenerateGeometryError{Check: "semi-major axis non-positive", Value: ao.v * earthRadius}
	}
	if rp.v < 1 {
		return DegenerateGeometryError{Check: "perigee below the surface", Value: (rp.v - 1) * earthRadius}
	}

	c.ao, c.no = ao, no
	c.cosio, c.sinio = cosio, sinio
	c.con41 = con41
	c.x1mth2 = con(1).sub(cosio2)
	c.x7thm1 = cosio2.mulc(7).addc(-1)

	// Atmosphere fitting parameters, lowered for low perigees.
	perige := rp.addc(-1).mulc(earthRadius)
	sfour := con(78.0/earthRadius + 1)
	qzms24 := con(math.Pow((120.0-78.0)/earthRadius, 4))
	if perige.v < 156 {
		sfour = perige.addc(-78)
		if perige.v < 98 {
			sfour = con(20)
		}
		qzms24 = con(120).sub(sfour).mulc(1 / earthRadius).pow(4)
		sfour = sfour.mulc(1 / earthRadius).addc(1)
	}

	pinvsq := con(1).div(posq)
	tsi := con(1).div(ao.sub(sfour))
	eta := ao.mul(ecco).mul(tsi)
	etasq := eta.square()
	eeta := ecco.mul(eta)
	psisq := con(1).sub(etasq).abs()
	coef := qzms24.mul(tsi.pow(4))
	coef1 := coef.div(psisq.pow(3.5))

	cc2 := coef1.mul(no).mul(
		ao.mul(etasq.mulc(1.5).addc(1).add(eeta.mul(etasq.addc(4)))).add(
			con(0.375 * j2).mul(tsi).div(psisq).mul(con41).mul(
				etasq.mul(etasq.addc(8)).mulc(3).addc(8))))
	c.cc1 = bstar.mul(cc2)

	cc3 := con(0)
	if ecco.v > 1e-4 {
		cc3 = coef.mul(tsi).mulc(-2 * j3oj2).mul(no).mul(sinio).div(ecco)
	}
	c.cc4 = no.mulc(2).mul(coef1).mul(ao).mul(omeosq).mul(
		eta.mul(etasq.mulc(0.5).addc(2)).add(ecco.mul(etasq.mulc(2).addc(0.5))).sub(
			con(j2).mul(tsi).div(ao.mul(psisq)).mul(
				con41.mulc(-3).mul(con(1).sub(eeta.mulc(2)).add(etasq.mul(eeta.mulc(-0.5).addc(1.5)))).add(
					c.x1mth2.mulc(0.75).mul(etasq.mulc(2).sub(eeta.mul(etasq.addc(1)))).mul(argpo.mulc(2).cos())))))
	c.cc5 = coef1.mulc(2).mul(ao).mul(omeosq).mul(
		con(1).add(etasq.add(eeta).mulc(2.75)).add(eeta.mul(etasq)))

	cosio4 := cosio2.square()
	temp1 := con(1.5 * j2).mul(pinvsq).mul(no)
	temp2 := temp1.mulc(0.5 * j2).mul(pinvsq)
	temp3 := con(-0.46875 * j4).mul(pinvsq).mul(pinvsq).mul(no)
	c.mdot = no.add(temp1.mulc(0.5).mul(rteosq).mul(con41)).add(
		temp2.mulc(0.0625).mul(rteosq).mul(cosio2.mulc(-78).addc(13).add(cosio4.mulc(137))))
	c.argpdot = temp1.mulc(-0.5).mul(con42).add(
		temp2.mulc(0.0625).mul(cosio2.mulc(-114).addc(7).add(cosio4.mulc(395)))).add(
		temp3.mul(cosio2.mulc(-36).addc(3).add(cosio4.mulc(49))))
	xhdot1 := temp1.neg().mul(cosio)
	c.nodedot = xhdot1.add(
		temp2.mulc(0.5).mul(cosio2.mulc(-19).addc(4)).add(temp3.mulc(2).mul(cosio2.mulc(-7).addc(3))).mul(cosio))
	c.xpidot = c.argpdot.add(c.nodedot)

	c.omgcof = bstar.mul(cc3).mul(argpo.cos())
	c.xmcof = con(0)
	if ecco.v > 1e-4 {
		c.xmcof = coef.mulc(-x2o3).mul(bstar).div(eeta)
	}
	c.nodecf = omeosq.mulc(3.5).mul(xhdot1).mul(c.cc1)
	c.t2cof = c.cc1.mulc(1.5)

	// The xlcof denominator 1+cos(i) blows up for retrograde equatorial
	// orbits; the theory pins it instead of dividing by zero.
	if math.Abs(cosio.v+1) > 1.5e-12 {
		c.xlcof = con(-0.25 * j3oj2).mul(sinio).mul(cosio.mulc(5).addc(3)).div(cosio.addc(1))
	} else {
		c.xlcof = con(-0.25 * j3oj2).mul(sinio).mul(cosio.mulc(5).addc(3)).mulc(1 / 1.5e-12)
	}
	c.aycof = sinio.mulc(-0.5 * j3oj2)
	c.eta = eta
	c.delmo = eta.mul(mo.cos()).addc(1).cube()
	c.sinmao = mo.sin()

	if twoPi/no.v >= deepSpacePeriodMin {
		c.regime = RegimeDeepSpace
		ds := newDeepCoeffs(el, c, ecco, eccsq, argpo, inclo, mo, no, nodeo, cosio, sinio)
		c.deep = ds
	} else if perige.v < 220 {
		c.regime = RegimeNearEarthSimplified
	}

	// Higher-order drag, not needed for the simplified model or deep space.
	if c.regime == RegimeNearEarth {
		cc1sq := c.cc1.square()
		c.d2 = ao.mulc(4).mul(tsi).mul(cc1sq)
		temp := c.d2.mul(tsi).mul(c.cc1).mulc(1.0 / 3.0)
		c.d3 = ao.mulc(17).add(sfour).mul(temp)
		c.d4 = temp.mulc(0.5).mul(ao).mul(tsi).mul(ao.mulc(221).add(sfour.mulc(31))).mul(c.cc1)
		c.t3cof = c.d2.add(cc1sq.mulc(2))
		c.t4cof = c.d3.mulc(3).add(c.cc1.mul(c.d2.mulc(12).add(cc1sq.mulc(10)))).mulc(0.25)
		c.t5cof = c.d4.mulc(3).add(c.cc1.mulc(12).mul(c.d3)).add(c.d2.square().mulc(6)).add(
			cc1sq.mulc(15).mul(c.d2.mulc(2).add(cc1sq))).mulc(0.2)
	}

	el.coeffs = c
	return nil
}
