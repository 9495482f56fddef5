package dsgp4

import "math"

// deepCoeffs carries the deep-space perturbation constants: lunar-solar
// periodic coefficients, their secular rates, and the tesseral resonance
// terms for 12h and 24h orbits.
type deepCoeffs struct {
	// Lunar-solar periodic coefficients.
	se2, se3, si2, si3, sl2, sl3, sl4 dual
	sgh2, sgh3, sgh4, sh2, sh3        dual
	ee2, e3, xi2, xi3, xl2, xl3, xl4  dual
	xgh2, xgh3, xgh4, xh2, xh3        dual
	zmol, zmos                        float64 // lunar/solar mean anomaly at epoch

	// Lunar-solar secular rates.
	dedt, didt, dmdt, dnodt, domdt dual

	// Resonance terms. irez is 0 (none), 1 (24h synchronous), 2 (12h).
	irez                                     int
	d2201, d2211, d3210, d3222, d4410, d4422 dual
	d5220, d5232, d5421, d5433               dual
	del1, del2, del3                         dual
	xfact, xlamo                             dual
}

// newDeepCoeffs computes the lunar-solar element series and the resonance
// initialization for a deep-space set. All element-dependent quantities stay
// in dual arithmetic; the lunar/solar geometry depends only on the epoch.
func newDeepCoeffs(el *Elements, c *coeffs, ecco, eccsq, argpo, inclo, mo, no, nodeo, cosim, sinim dual) *deepCoeffs {
	ds := &deepCoeffs{}

	// Lunar geometry at epoch.
	day := epochDays1950(el.epoch) + 18261.5
	xnodce := math.Mod(4.5236020-9.2422029e-4*day, twoPi)
	stem, ctem := math.Sincos(xnodce)
	zcosil := 0.91375164 - 0.03568096*ctem
	zsinil := math.Sqrt(1 - zcosil*zcosil)
	zsinhl := 0.089683511 * stem / zsinil
	zcoshl := math.Sqrt(1 - zsinhl*zsinhl)
	gam := 5.8351514 + 0.0019443680*day
	zx := 0.39785416 * stem / zsinil
	zy := zcoshl*ctem + 0.91744867*zsinhl*stem
	zx = gam + math.Atan2(zx, zy) - xnodce
	zsingl, zcosgl := math.Sincos(zx)
	ds.zmos = wrap2π(6.2565837 + 0.017201977*day)
	ds.zmol = wrap2π(4.7199672 + 0.22997150*day - gam)

	em := ecco
	emsq := eccsq
	betasq := con(1).sub(emsq)
	rtemsq := betasq.sqrt()
	snodm, cnodm := nodeo.sincos()
	sinomm, cosomm := argpo.sincos()
	xnoi := con(1).div(no)

	// Two passes over the same geometry kernel: solar constants first, then
	// the lunar orientation derived above.
	zcosg, zsing := con(zcosgs), con(zsings)
	zcosi, zsini := con(zcosis), con(zsinis)
	zcosh, zsinh := cnodm, snodm
	cc := c1ss

	var s1, s2, s3, s4, s5, s6, s7 dual
	var ss1, ss2, ss3, ss4, ss5, ss6, ss7 dual
	var z1, z2, z3, z11, z12, z13, z21, z22, z23, z31, z32, z33 dual
	var sz1, sz2, sz3, sz11, sz12, sz13, sz21, sz22, sz23, sz31, sz32, sz33 dual

	for lsflg := 1; lsflg <= 2; lsflg++ {
		a1 := zcosg.mul(zcosh).add(zsing.mul(zcosi).mul(zsinh))
		a3 := zsing.neg().mul(zcosh).add(zcosg.mul(zcosi).mul(zsinh))
		a7 := zcosg.neg().mul(zsinh).add(zsing.mul(zcosi).mul(zcosh))
		a8 := zsing.mul(zsini)
		a9 := zsing.mul(zsinh).add(zcosg.mul(zcosi).mul(zcosh))
		a10 := zcosg.mul(zsini)
		a2 := cosim.mul(a7).add(sinim.mul(a8))
		a4 := cosim.mul(a9).add(sinim.mul(a10))
		a5 := sinim.neg().mul(a7).add(cosim.mul(a8))
		a6 := sinim.neg().mul(a9).add(cosim.mul(a10))

		x1 := a1.mul(cosomm).add(a2.mul(sinomm))
		x2 := a3.mul(cosomm).add(a4.mul(sinomm))
		x3 := a1.neg().mul(sinomm).add(a2.mul(cosomm))
		x4 := a3.neg().mul(sinomm).add(a4.mul(cosomm))
		x5 := a5.mul(sinomm)
		x6 := a6.mul(sinomm)
		x7 := a5.mul(cosomm)
		x8 := a6.mul(cosomm)

		z31 = x1.square().mulc(12).sub(x3.square().mulc(3))
		z32 = x1.mul(x2).mulc(24).sub(x3.mul(x4).mulc(6))
		z33 = x2.square().mulc(12).sub(x4.square().mulc(3))
		z1 = a1.square().add(a2.square()).mulc(3).add(z31.mul(emsq))
		z2 = a1.mul(a3).add(a2.mul(a4)).mulc(6).add(z32.mul(emsq))
		z3 = a3.square().add(a4.square()).mulc(3).add(z33.mul(emsq))
		z11 = a1.mul(a5).mulc(-6).add(
			emsq.mul(x1.mul(x7).mulc(-24).sub(x3.mul(x5).mulc(6))))
		z12 = a1.mul(a6).add(a3.mul(a5)).mulc(-6).add(
			emsq.mul(x2.mul(x7).add(x1.mul(x8)).mulc(-24).sub(x3.mul(x6).add(x4.mul(x5)).mulc(6))))
		z13 = a3.mul(a6).mulc(-6).add(
			emsq.mul(x2.mul(x8).mulc(-24).sub(x4.mul(x6).mulc(6))))
		z21 = a2.mul(a5).mulc(6).add(
			emsq.mul(x1.mul(x5).mulc(24).sub(x3.mul(x7).mulc(6))))
		z22 = a4.mul(a5).add(a2.mul(a6)).mulc(6).add(
			emsq.mul(x2.mul(x5).add(x1.mul(x6)).mulc(24).sub(x4.mul(x7).add(x3.mul(x8)).mulc(6))))
		z23 = a4.mul(a6).mulc(6).add(
			emsq.mul(x2.mul(x6).mulc(24).sub(x4.mul(x8).mulc(6))))

		z1 = z1.mulc(2).add(betasq.mul(z31))
		z2 = z2.mulc(2).add(betasq.mul(z32))
		z3 = z3.mulc(2).add(betasq.mul(z33))
		s3 = xnoi.mulc(cc)
		s2 = s3.mulc(-0.5).div(rtemsq)
		s4 = s3.mul(rtemsq)
		s1 = em.mulc(-15).mul(s4)
		s5 = x1.mul(x3).add(x2.mul(x4))
		s6 = x2.mul(x3).add(x1.mul(x4))
		s7 = x2.mul(x4).sub(x1.mul(x3))

		if lsflg == 1 {
			ss1, ss2, ss3, ss4, ss5, ss6, ss7 = s1, s2, s3, s4, s5, s6, s7
			sz1, sz2, sz3 = z1, z2, z3
			sz11, sz12, sz13 = z11, z12, z13
			sz21, sz22, sz23 = z21, z22, z23
			sz31, sz32, sz33 = z31, z32, z33
			zcosg, zsing = con(zcosgl), con(zsingl)
			zcosi, zsini = con(zcosil), con(zsinil)
			zcosh = cnodm.mulc(zcoshl).add(snodm.mulc(zsinhl))
			zsinh = snodm.mulc(zcoshl).sub(cnodm.mulc(zsinhl))
			cc = c1l
		}
	}

	// Solar periodic coefficients.
	ds.se2 = ss1.mul(ss6).mulc(2)
	ds.se3 = ss1.mul(ss7).mulc(2)
	ds.si2 = ss2.mul(sz12).mulc(2)
	ds.si3 = ss2.mul(sz13.sub(sz11)).mulc(2)
	ds.sl2 = ss3.mul(sz2).mulc(-2)
	ds.sl3 = ss3.mul(sz3.sub(sz1)).mulc(-2)
	ds.sl4 = ss3.mul(emsq.mulc(-9).addc(-21)).mulc(-2 * zes)
	ds.sgh2 = ss4.mul(sz32).mulc(2)
	ds.sgh3 = ss4.mul(sz33.sub(sz31)).mulc(2)
	ds.sgh4 = ss4.mulc(-18 * zes)
	ds.sh2 = ss2.mul(sz22).mulc(-2)
	ds.sh3 = ss2.mul(sz23.sub(sz21)).mulc(-2)

	// Lunar periodic coefficients.
	ds.ee2 = s1.mul(s6).mulc(2)
	ds.e3 = s1.mul(s7).mulc(2)
	ds.xi2 = s2.mul(z12).mulc(2)
	ds.xi3 = s2.mul(z13.sub(z11)).mulc(2)
	ds.xl2 = s3.mul(z2).mulc(-2)
	ds.xl3 = s3.mul(z3.sub(z1)).mulc(-2)
	ds.xl4 = s3.mul(emsq.mulc(-9).addc(-21)).mulc(-2 * zel)
	ds.xgh2 = s4.mul(z32).mulc(2)
	ds.xgh3 = s4.mul(z33.sub(z31)).mulc(2)
	ds.xgh4 = s4.mulc(-18 * zel)
	ds.xh2 = s2.mul(z22).mulc(-2)
	ds.xh3 = s2.mul(z23.sub(z21)).mulc(-2)

	// Secular rates from the same series.
	sesRate := ss1.mulc(zns).mul(ss5)
	sisRate := ss2.mulc(zns).mul(sz11.add(sz13))
	slsRate := ss3.mulc(-zns).mul(sz1.add(sz3).add(emsq.mulc(-6).addc(-14)))
	sghs := ss4.mulc(zns).mul(sz31.add(sz33).addc(-6))
	shs := ss2.mulc(-zns).mul(sz21.add(sz23))
	// No node rate near equatorial (prograde or retrograde).
	if inclo.v < 5.2359877e-2 || inclo.v > math.Pi-5.2359877e-2 {
		shs = con(0)
	}
	if sinim.v != 0 {
		shs = shs.div(sinim)
	}
	sgs := sghs.sub(cosim.mul(shs))

	ds.dedt = sesRate.add(s1.mulc(znl).mul(s5))
	ds.didt = sisRate.add(s2.mulc(znl).mul(z11.add(z13)))
	ds.dmdt = slsRate.sub(s3.mulc(znl).mul(z1.add(z3).add(emsq.mulc(-6).addc(-14))))
	sghl := s4.mulc(znl).mul(z31.add(z33).addc(-6))
	shll := s2.mulc(-znl).mul(z21.add(z23))
	if inclo.v < 5.2359877e-2 || inclo.v > math.Pi-5.2359877e-2 {
		shll = con(0)
	}
	ds.domdt = sgs.add(sghl)
	ds.dnodt = shs
	if sinim.v != 0 {
		ds.domdt = ds.domdt.sub(cosim.div(sinim).mul(shll))
		ds.dnodt = ds.dnodt.add(shll.div(sinim))
	}

	// Resonance classification on the recovered mean motion.
	nm := no
	if nm.v < 0.0052359877 && nm.v > 0.0034906585 {
		ds.irez = 1
	}
	if nm.v >= 8.26e-3 && nm.v <= 9.24e-3 && ecco.v >= 0.5 {
		ds.irez = 2
	}
	if ds.irez == 0 {
		return ds
	}

	aonv := no.mulc(1 / xke).pow(x2o3)

	if ds.irez == 2 {
		// 12h resonance: geopotential sectoral coefficients, eccentricity
		// polynomials fit piecewise.
		cosisq := cosim.square()
		eoc := ecco.mul(eccsq)
		g201 := ecco.addc(-0.64).mulc(-0.440).addc(-0.306)
		var g211, g310, g322, g410, g422, g520 dual
		if ecco.v <= 0.65 {
			g211 = con(3.616).sub(ecco.mulc(13.2470)).add(eccsq.mulc(16.2900))
			g310 = con(-19.302).add(ecco.mulc(117.3900)).sub(eccsq.mulc(228.4190)).add(eoc.mulc(156.5910))
			g322 = con(-18.9068).add(ecco.mulc(109.7927)).sub(eccsq.mulc(214.6334)).add(eoc.mulc(146.5816))
			g410 = con(-41.122).add(ecco.mulc(242.6940)).sub(eccsq.mulc(471.0940)).add(eoc.mulc(313.9530))
			g422 = con(-146.407).add(ecco.mulc(841.8800)).sub(eccsq.mulc(1629.014)).add(eoc.mulc(1083.4350))
			g520 = con(-532.114).add(ecco.mulc(3017.977)).sub(eccsq.mulc(5740.032)).add(eoc.mulc(3708.2760))
		} else {
			g211 = con(-72.099).add(ecco.mulc(331.819)).sub(eccsq.mulc(508.738)).add(eoc.mulc(266.724))
			g310 = con(-346.844).add(ecco.mulc(1582.851)).sub(eccsq.mulc(2415.925)).add(eoc.mulc(1246.113))
			g322 = con(-342.585).add(ecco.mulc(1554.908)).sub(eccsq.mulc(2366.899)).add(eoc.mulc(1215.972))
			g410 = con(-1052.797).add(ecco.mulc(4758.686)).sub(eccsq.mulc(7193.992)).add(eoc.mulc(3651.957))
			g422 = con(-3581.690).add(ecco.mulc(16178.110)).sub(eccsq.mulc(24462.770)).add(eoc.mulc(12422.520))
			if ecco.v > 0.715 {
				g520 = con(-5149.660).add(ecco.mulc(29936.920)).sub(eccsq.mulc(54087.360)).add(eoc.mulc(31324.560))
			} else {
				g520 = con(1464.740).sub(ecco.mulc(4664.750)).add(eccsq.mulc(3763.640))
			}
		}
		var g533, g521, g532 dual
		if ecco.v < 0.7 {
			g533 = con(-919.22770).add(ecco.mulc(4988.6100)).sub(eccsq.mulc(9064.7700)).add(eoc.mulc(5542.21))
			g521 = con(-822.71072).add(ecco.mulc(4568.6173)).sub(eccsq.mulc(8491.4146)).add(eoc.mulc(5337.524))
			g532 = con(-853.66600).add(ecco.mulc(4690.2500)).sub(eccsq.mulc(8624.7700)).add(eoc.mulc(5341.4))
		} else {
			g533 = con(-37995.780).add(ecco.mulc(161616.52)).sub(eccsq.mulc(229838.20)).add(eoc.mulc(109377.94))
			g521 = con(-51752.104).add(ecco.mulc(218913.95)).sub(eccsq.mulc(309468.16)).add(eoc.mulc(146349.42))
			g532 = con(-40023.880).add(ecco.mulc(170470.89)).sub(eccsq.mulc(242699.48)).add(eoc.mulc(115605.82))
		}
		sini2 := sinim.square()
		f220 := cosim.mulc(2).add(cosisq).addc(1).mulc(0.75)
		f221 := sini2.mulc(1.5)
		f321 := sinim.mulc(1.875).mul(con(1).sub(cosim.mulc(2)).sub(cosisq.mulc(3)))
		f322 := sinim.mulc(-1.875).mul(con(1).add(cosim.mulc(2)).sub(cosisq.mulc(3)))
		f441 := sini2.mulc(35).mul(f220)
		f442 := sini2.square().mulc(39.3750)
		f522 := sinim.mulc(9.84375).mul(
			sini2.mul(con(1).sub(cosim.mulc(2)).sub(cosisq.mulc(5))).add(
				con(-2).add(cosim.mulc(4)).add(cosisq.mulc(6)).mulc(0.33333333)))
		f523 := sinim.mul(
			sini2.mulc(4.92187512).mul(con(-2).sub(cosim.mulc(4)).add(cosisq.mulc(10))).add(
				con(1).add(cosim.mulc(2)).sub(cosisq.mulc(3)).mulc(6.56250012)))
		f542 := sinim.mulc(29.53125).mul(
			con(2).sub(cosim.mulc(8)).add(cosisq.mul(cosim.mulc(8).add(cosisq.mulc(10)).addc(-12))))
		f543 := sinim.mulc(29.53125).mul(
			con(-2).sub(cosim.mulc(8)).add(cosisq.mul(cosim.mulc(8).sub(cosisq.mulc(10)).addc(12))))

		xno2 := nm.square()
		ainv2 := aonv.square()
		temp1 := xno2.mulc(3).mul(ainv2)
		temp := temp1.mulc(root22)
		ds.d2201 = temp.mul(f220).mul(g201)
		ds.d2211 = temp.mul(f221).mul(g211)
		temp1 = temp1.mul(aonv)
		temp = temp1.mulc(root32)
		ds.d3210 = temp.mul(f321).mul(g310)
		ds.d3222 = temp.mul(f322).mul(g322)
		temp1 = temp1.mul(aonv)
		temp = temp1.mulc(2 * root44)
		ds.d4410 = temp.mul(f441).mul(g410)
		ds.d4422 = temp.mul(f442).mul(g422)
		temp1 = temp1.mul(aonv)
		temp = temp1.mulc(root52)
		ds.d5220 = temp.mul(f522).mul(g520)
		ds.d5232 = temp.mul(f523).mul(g532)
		temp = temp1.mulc(2 * root54)
		ds.d5421 = temp.mul(f542).mul(g521)
		ds.d5433 = temp.mul(f543).mul(g533)
		ds.xlamo = mo.add(nodeo.mulc(2)).addc(-2 * c.gsto).mod2pi()
		ds.xfact = c.mdot.add(ds.dmdt).add(
			c.nodedot.add(ds.dnodt).addc(-earthRotRate).mulc(2)).sub(no)
	}

	if ds.irez == 1 {
		// 24h synchronous resonance.
		g200 := con(1).add(emsq.mul(emsq.mulc(0.8125).addc(-2.5)))
		g310 := con(1).add(emsq.mulc(2))
		g300 := con(1).add(emsq.mul(emsq.mulc(6.60937).addc(-6)))
		f220 := cosim.addc(1).square().mulc(0.75)
		f311 := sinim.square().mulc(0.9375).mul(cosim.mulc(3).addc(1)).sub(cosim.addc(1).mulc(0.75))
		f330 := cosim.addc(1).cube().mulc(1.875)
		del1 := nm.square().mul(aonv.square()).mulc(3)
		ds.del2 = del1.mulc(2 * q22).mul(f220).mul(g200)
		ds.del3 = del1.mulc(3 * q33).mul(f330).mul(g300).mul(aonv)
		ds.del1 = del1.mulc(q31).mul(f311).mul(g310).mul(aonv)
		ds.xlamo = mo.add(nodeo).add(argpo).addc(-c.gsto).mod2pi()
		ds.xfact = c.mdot.add(c.xpidot).add(ds.dmdt).add(ds.domdt).add(ds.dnodt).addc(-earthRotRate).sub(no)
	}

	return ds
}

// dsSecular applies the lunar-solar secular drift and, for resonant orbits,
// integrates the resonance equations from the epoch with the theory's own
// 720-minute modified-Euler stepper (the propagator stays pure: no state is
// kept between calls). Returns the updated mean elements and mean motion.
func (c *coeffs) dsSecular(t, em, inclm, nodem, argpm, mm, argpo, no dual) (dual, dual, dual, dual, dual, dual) {
	ds := c.deep
	em = em.add(ds.dedt.mul(t))
	inclm = inclm.add(ds.didt.mul(t))
	argpm = argpm.add(ds.domdt.mul(t))
	nodem = nodem.add(ds.dnodt.mul(t))
	mm = mm.add(ds.dmdt.mul(t))

	nm := no
	if ds.irez == 0 {
		return em, inclm, nodem, argpm, mm, nm
	}

	theta := t.mulc(earthRotRate).addc(c.gsto).mod2pi()

	atime := 0.0
	xni := no
	xli := ds.xlamo
	delt := stepp
	if t.v < 0 {
		delt = -stepp
	}

	var xndt, xldot, xnddt dual
	deriv := func(xli, xni dual, atime float64) (dual, dual, dual) {
		if ds.irez != 2 {
			xndt := ds.del1.mul(xli.addc(-fasx2).sin()).add(
				ds.del2.mul(xli.addc(-fasx4).mulc(2).sin())).add(
				ds.del3.mul(xli.addc(-fasx6).mulc(3).sin()))
			xldot := xni.add(ds.xfact)
			xnddt := ds.del1.mul(xli.addc(-fasx2).cos()).add(
				ds.del2.mul(xli.addc(-fasx4).mulc(2).cos()).mulc(2)).add(
				ds.del3.mul(xli.addc(-fasx6).mulc(3).cos()).mulc(3))
			return xndt, xldot, xnddt.mul(xldot)
		}
		xomi := argpo.add(c.argpdot.mulc(atime))
		x2omi := xomi.mulc(2)
		x2li := xli.mulc(2)
		xndt := ds.d2201.mul(x2omi.add(xli).addc(-g22).sin()).add(
			ds.d2211.mul(xli.addc(-g22).sin())).add(
			ds.d3210.mul(xomi.add(xli).addc(-g32).sin())).add(
			ds.d3222.mul(xomi.neg().add(xli).addc(-g32).sin())).add(
			ds.d4410.mul(x2omi.add(x2li).addc(-g44).sin())).add(
			ds.d4422.mul(x2li.addc(-g44).sin())).add(
			ds.d5220.mul(xomi.add(xli).addc(-g52).sin())).add(
			ds.d5232.mul(xomi.neg().add(xli).addc(-g52).sin())).add(
			ds.d5421.mul(xomi.add(x2li).addc(-g54).sin())).add(
			ds.d5433.mul(xomi.neg().add(x2li).addc(-g54).sin()))
		xldot := xni.add(ds.xfact)
		xnddt := ds.d2201.mul(x2omi.add(xli).addc(-g22).cos()).add(
			ds.d2211.mul(xli.addc(-g22).cos())).add(
			ds.d3210.mul(xomi.add(xli).addc(-g32).cos())).add(
			ds.d3222.mul(xomi.neg().add(xli).addc(-g32).cos())).add(
			ds.d5220.mul(xomi.add(xli).addc(-g52).cos())).add(
			ds.d5232.mul(xomi.neg().add(xli).addc(-g52).cos())).add(
			ds.d4410.mul(x2omi.add(x2li).addc(-g44).cos()).add(
				ds.d4422.mul(x2li.addc(-g44).cos())).add(
				ds.d5421.mul(xomi.add(x2li).addc(-g54).cos())).add(
				ds.d5433.mul(xomi.neg().add(x2li).addc(-g54).cos())).mulc(2))
		return xndt, xldot, xnddt.mul(xldot)
	}

	for math.Abs(t.v-atime) >= stepp {
		xndt, xldot, xnddt = deriv(xli, xni, atime)
		xli = xli.add(xldot.mulc(delt)).add(xndt.mulc(step2))
		xni = xni.add(xndt.mulc(delt)).add(xnddt.mulc(step2))
		atime += delt
	}
	xndt, xldot, xnddt = deriv(xli, xni, atime)

	ft := t.addc(-atime)
	ft2 := ft.square().mulc(0.5)
	nm = xni.add(xndt.mul(ft)).add(xnddt.mul(ft2))
	xl := xli.add(xldot.mul(ft)).add(xndt.mul(ft2))
	if ds.irez != 1 {
		mm = xl.sub(nodem.mulc(2)).add(theta.mulc(2))
	} else {
		mm = xl.sub(nodem).sub(argpm).add(theta)
	}
	return em, inclm, nodem, argpm, mm, nm
}

// dsPeriodics applies the lunar-solar periodic corrections to the working
// elements at time t, with the Lyddane modification below 0.2 rad
// inclination.
func (c *coeffs) dsPeriodics(t, ep, inclp, nodep, argpp, mp dual) (dual, dual, dual, dual, dual) {
	ds := c.deep

	// Solar terms.
	zm := t.mulc(zns).addc(ds.zmos)
	zf := zm.add(zm.sin().mulc(2 * zes))
	sinzf, coszf := zf.sincos()
	f2 := sinzf.square().mulc(0.5).addc(-0.25)
	f3 := sinzf.neg().mul(coszf).mulc(0.5)
	ses := ds.se2.mul(f2).add(ds.se3.mul(f3))
	sis := ds.si2.mul(f2).add(ds.si3.mul(f3))
	sls := ds.sl2.mul(f2).add(ds.sl3.mul(f3)).add(ds.sl4.mul(sinzf))
	sghs := ds.sgh2.mul(f2).add(ds.sgh3.mul(f3)).add(ds.sgh4.mul(sinzf))
	shs := ds.sh2.mul(f2).add(ds.sh3.mul(f3))

	// Lunar terms.
	zm = t.mulc(znl).addc(ds.zmol)
	zf = zm.add(zm.sin().mulc(2 * zel))
	sinzf, coszf = zf.sincos()
	f2 = sinzf.square().mulc(0.5).addc(-0.25)
	f3 = sinzf.neg().mul(coszf).mulc(0.5)
	sel := ds.ee2.mul(f2).add(ds.e3.mul(f3))
	sil := ds.xi2.mul(f2).add(ds.xi3.mul(f3))
	sll := ds.xl2.mul(f2).add(ds.xl3.mul(f3)).add(ds.xl4.mul(sinzf))
	sghl := ds.xgh2.mul(f2).add(ds.xgh3.mul(f3)).add(ds.xgh4.mul(sinzf))
	shll := ds.xh2.mul(f2).add(ds.xh3.mul(f3))

	pe := ses.add(sel)
	pinc := sis.add(sil)
	pl := sls.add(sll)
	pgh := sghs.add(sghl)
	ph := shs.add(shll)

	inclp = inclp.add(pinc)
	ep = ep.add(pe)
	sinip, cosip := inclp.sincos()

	if inclp.v >= 0.2 {
		ph = ph.div(sinip)
		pgh = pgh.sub(cosip.mul(ph))
		argpp = argpp.add(pgh)
		nodep = nodep.add(ph)
		mp = mp.add(pl)
		return ep, inclp, nodep, argpp, mp
	}

	// Lyddane modification: apply the node/perigee corrections through the
	// (sin i sin Ω, sin i cos Ω) pair to stay defined at low inclination.
	sinop, cosop := nodep.sincos()
	alfdp := sinip.mul(sinop)
	betdp := sinip.mul(cosop)
	dalf := ph.mul(cosop).add(pinc.mul(cosip).mul(sinop))
	dbet := ph.neg().mul(sinop).add(pinc.mul(cosip).mul(cosop))
	alfdp = alfdp.add(dalf)
	betdp = betdp.add(dbet)
	nodep = nodep.mod2pi()
	xls := mp.add(argpp).add(cosip.mul(nodep))
	dls := pl.add(pgh).sub(pinc.mul(nodep).mul(sinip))
	xls = xls.add(dls)
	xnoh := nodep.v
	nodep = alfdp.atan2(betdp)
	if math.Abs(xnoh-nodep.v) > math.Pi {
		if nodep.v < xnoh {
			nodep = nodep.addc(twoPi)
		} else {
			nodep = nodep.addc(-twoPi)
		}
	}
	mp = mp.add(pl)
	argpp = xls.sub(mp).sub(cosip.mul(nodep))
	return ep, inclp, nodep, argpp, mp
}
