package dsgp4

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/soniakeys/meeus/julian"
)

// Ephemeris export: one CSV row per sample with the Julian date, the offset
// from epoch in minutes, and the Cartesian state in km and km/s.

var ephemerisHeader = []string{"jd", "tsince_min", "rx_km", "ry_km", "rz_km", "vx_km_s", "vy_km_s", "vz_km_s"}

// ExportEphemeris propagates the element set from start to stop (minutes past
// epoch, inclusive) in the given step and writes the states as CSV. It stops
// at the first propagation failure and returns it.
func ExportEphemeris(w io.Writer, el *Elements, start, stop, step float64) error {
	if step <= 0 {
		return fmt.Errorf("non-positive step %v min", step)
	}
	if stop < start {
		return fmt.Errorf("stop %v min before start %v min", stop, start)
	}
	out := csv.NewWriter(w)
	if err := out.Write(ephemerisHeader); err != nil {
		return err
	}
	epochJDate := julian.TimeToJD(el.Epoch().UTC())
	for tsince := start; tsince <= stop+1e-9; tsince += step {
		s, err := el.Propagate(tsince)
		if err != nil {
			return err
		}
		jd := epochJDate + tsince/minPerDay
		row := []string{
			fmt.Sprintf("%.8f", jd),
			fmt.Sprintf("%.4f", tsince),
			fmt.Sprintf("%.8f", s.R[0]), fmt.Sprintf("%.8f", s.R[1]), fmt.Sprintf("%.8f", s.R[2]),
			fmt.Sprintf("%.9f", s.V[0]), fmt.Sprintf("%.9f", s.V[1]), fmt.Sprintf("%.9f", s.V[2]),
		}
		if err = out.Write(row); err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}

// EpochPlus returns the wall-clock time of the given offset from epoch.
func (el Elements) EpochPlus(tsince float64) time.Time {
	return el.epoch.Add(time.Duration(tsince * float64(time.Minute)))
}
