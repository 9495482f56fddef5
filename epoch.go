package dsgp4

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/julian"
)

// jd1950 is the Julian date of 1949 December 31, 0h UT, the reference the
// lunar-solar mean element series are expanded from.
const jd1950 = 2433281.5

// epochJD returns the Julian date of the given epoch.
func epochJD(t time.Time) float64 {
	return julian.TimeToJD(t.UTC())
}

// epochDays1950 returns the days elapsed since the 1950 reference.
func epochDays1950(t time.Time) float64 {
	return epochJD(t) - jd1950
}

// gstime returns the Greenwich sidereal time in radians for a Julian date.
func gstime(jd float64) float64 {
	tut1 := (jd - 2451545.0) / 36525.0
	temp := -6.2e-6*tut1*tut1*tut1 + 0.093104*tut1*tut1 +
		(876600.0*3600+8640184.812866)*tut1 + 67310.54841
	temp = math.Mod(temp*deg2rad/240.0, twoPi)
	if temp < 0 {
		temp += twoPi
	}
	return temp
}
