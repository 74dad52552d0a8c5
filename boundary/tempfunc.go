package boundary

import (
	"fmt"
	"math"

	"github.com/heatsim/hotbox/types"
)

// TempFunc gives the far-side reference temperature (degrees C) seen by a
// boundary surface at simulation time t (seconds).
type TempFunc func(t float64) float64

// Constant returns the fixed temperature v at all times.
func Constant(v float64) TempFunc {
	return func(float64) float64 { return v }
}

// SinusoidalDay models the diurnal air-temperature cycle: mean plus a
// 24-hour sinusoid peaking peakSeconds after t=0.
func SinusoidalDay(mean, amplitude, peakSeconds float64) TempFunc {
	const omegaDay = 2 * math.Pi / 86400
	return func(t float64) float64 {
		return mean + amplitude*math.Cos(omegaDay*(t-peakSeconds))
	}
}

// probe evaluates fn at a handful of times and rejects non-finite output
// before any stepping happens.
func probe(name string, fn TempFunc) error {
	if fn == nil {
		return fmt.Errorf("%w: %s temperature function is nil", types.ErrInvalidParameter, name)
	}
	for _, t := range []float64{0, 3600, 86400} {
		if v := fn(t); math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s temperature at t=%g s", types.ErrExternalFunction, name, t)
		}
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
