package dsgp4

import "math"

// Gravity model constants (WGS-72, the model the TLE mean elements are fit to).
const (
	earthμ       = 398600.8 // km³/s²
	earthRadius  = 6378.135 // km
	j2           = 0.001082616
	j3           = -0.00000253881
	j4           = -0.00000165597
	j3oj2        = j3 / j2
	twoPi        = 2 * math.Pi
	deg2rad      = math.Pi / 180
	minPerDay    = 1440.0
	x2o3         = 2.0 / 3.0
	earthRotRate = 4.37526908801129966e-3 // rad/min
)

// Computed once from the gravity model.
var (
	xke       = 60.0 / math.Sqrt(earthRadius*earthRadius*earthRadius/earthμ) // rad/min per (ER)^-3/2
	vKmPerSec = earthRadius * xke / 60.0
)

// Lunar-solar and resonance series constants, in the units of the original
// perturbation theory (rad/min for the mean rates).
const (
	zes = 0.01675      // solar eccentricity factor
	zel = 0.05490      // lunar eccentricity factor
	zns = 1.19459e-5   // solar mean motion, rad/min
	znl = 1.5835218e-4 // lunar mean motion, rad/min

	c1ss = 2.9864797e-6
	c1l  = 4.7968065e-7

	zsinis = 0.39785416
	zcosis = 0.91744867
	zcosgs = 0.1945905
	zsings = -0.98088458

	q22 = 1.7891679e-6
	q31 = 2.1460748e-6
	q33 = 2.2123015e-7

	root22 = 1.7891679e-6
	root32 = 3.7393792e-7
	root44 = 7.3636953e-9
	root52 = 1.1428639e-7
	root54 = 2.1765803e-9

	// Resonance integration phase offsets and step (minutes).
	fasx2 = 0.13130908
	fasx4 = 2.8843198
	fasx6 = 0.37448087
	g22   = 5.7686396
	g32   = 0.95240898
	g44   = 1.8014998
	g52   = 1.0508330
	g54   = 4.4108898
	stepp = 720.0
	step2 = 259200.0
)

// deepSpacePeriodMin is the orbital period (minutes) beyond which the
// lunar-solar and resonance theory is switched on.
const deepSpacePeriodMin = 225.0
