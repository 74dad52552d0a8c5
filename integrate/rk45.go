package integrate

import (
	"fmt"
	"math"

	"github.com/heatsim/hotbox/types"
)

// Embedded Dormand-Prince 5(4) pair. The high-order solution propagates,
// the difference row estimates the local error.
var (
	dpC = []float64{0, 1. / 5, 3. / 10, 4. / 5, 8. / 9, 1, 1}
	dpA = [][]float64{
		{},
		{1. / 5},
		{3. / 40, 9. / 40},
		{44. / 45, -56. / 15, 32. / 9},
		{19372. / 6561, -25360. / 2187, 64448. / 6561, -212. / 729},
		{9017. / 3168, -355. / 33, 46732. / 5247, 49. / 176, -5103. / 18656},
		{35. / 384, 0, 500. / 1113, 125. / 192, -2187. / 6784, 11. / 84},
	}
	dpB = []float64{35. / 384, 0, 500. / 1113, 125. / 192, -2187. / 6784, 11. / 84, 0}
	dpE = []float64{71. / 57600, 0, -71. / 16695, 71. / 1920, -17253. / 339200, 22. / 525, -1. / 40}
)

// DerivFunc fills dydt with the derivative of the flattened state y.
type DerivFunc func(t float64, y, dydt []float64) error

// EventFunc is a scalar observed during adaptive integration; the run
// terminates when it crosses zero (same contract as the splash event in
// the projectile model).
type EventFunc func(t float64, y []float64) float64

// Adaptive integrates a flattened state vector with the embedded
// Dormand-Prince pair and proportional step control.
type Adaptive struct {
	ATol, RTol  float64
	InitialStep float64
	MinStep     float64
	MaxStep     float64
	MaxSteps    int
	Event       EventFunc
}

// NonFiniteError reports the first non-finite component produced by an
// otherwise accepted adaptive step. Callers integrating a flattened field
// can map Index back onto grid coordinates.
type NonFiniteError struct {
	Time  float64
	Index int
	Steps int
}

func (e *NonFiniteError) Error() string {
	return fmt.Sprintf("%v: component %d non-finite at t=%g s after %d accepted steps",
		types.ErrNumericalDivergence, e.Index, e.Time, e.Steps)
}

func (e *NonFiniteError) Unwrap() error { return types.ErrNumericalDivergence }

// Solution is the accepted step sequence. Y[i] corresponds to T[i]; if
// Terminated, the last entry is the refined event point.
type Solution struct {
	T          []float64
	Y          [][]float64
	Steps      int
	Rejected   int
	Terminated bool
}

func (a *Adaptive) defaults(t0, t1 float64) (atol, rtol, h, hmin, hmax float64, maxSteps int) {
	span := t1 - t0
	atol, rtol = a.ATol, a.RTol
	if atol <= 0 {
		atol = 1e-6
	}
	if rtol <= 0 {
		rtol = 1e-6
	}
	h = a.InitialStep
	if h <= 0 {
		h = span / 100
	}
	hmin = a.MinStep
	if hmin <= 0 {
		hmin = span * 1e-12
	}
	hmax = a.MaxStep
	if hmax <= 0 {
		hmax = span
	}
	maxSteps = a.MaxSteps
	if maxSteps <= 0 {
		maxSteps = 100000
	}
	return
}

// Integrate advances y0 from t0 to t1 (or to the first event crossing).
// y0 is not modified.
func (a *Adaptive) Integrate(f DerivFunc, t0, t1 float64, y0 []float64) (*Solution, error) {
	if t1 <= t0 {
		return nil, fmt.Errorf("%w: time span [%g, %g] is empty", types.ErrInvalidConfiguration, t0, t1)
	}
	var (
		n    = len(y0)
		y    = append([]float64(nil), y0...)
		k    = make([][]float64, 7)
		ytmp = make([]float64, n)
		yerr = make([]float64, n)
		ynew = make([]float64, n)
	)
	for i := range k {
		k[i] = make([]float64, n)
	}
	atol, rtol, h, hmin, hmax, maxSteps := a.defaults(t0, t1)

	sol := &Solution{T: []float64{t0}, Y: [][]float64{append([]float64(nil), y...)}}
	t := t0
	gPrev := 0.0
	if a.Event != nil {
		gPrev = a.Event(t, y)
	}
	for t < t1 {
		if sol.Steps+sol.Rejected >= maxSteps {
			return sol, fmt.Errorf("%w: step budget %d exhausted at t=%g s", types.ErrNumericalDivergence, maxSteps, t)
		}
		if h > hmax {
			h = hmax
		}
		if t+h > t1 {
			h = t1 - t
		}
		// Seven stages
		if err := f(t, y, k[0]); err != nil {
			return sol, err
		}
		for s := 1; s < 7; s++ {
			copy(ytmp, y)
			for p := 0; p < s; p++ {
				if dpA[s][p] == 0 {
					continue
				}
				c := h * dpA[s][p]
				for i := 0; i < n; i++ {
					ytmp[i] += c * k[p][i]
				}
			}
			if err := f(t+dpC[s]*h, ytmp, k[s]); err != nil {
				return sol, err
			}
		}
		for i := 0; i < n; i++ {
			var dy, e float64
			for s := 0; s < 7; s++ {
				dy += dpB[s] * k[s][i]
				e += dpE[s] * k[s][i]
			}
			ynew[i] = y[i] + h*dy
			yerr[i] = h * e
		}
		// Scaled RMS error norm
		var norm float64
		for i := 0; i < n; i++ {
			sc := atol + rtol*math.Max(math.Abs(y[i]), math.Abs(ynew[i]))
			r := yerr[i] / sc
			norm += r * r
		}
		norm = math.Sqrt(norm / float64(n))

		if norm > 1 {
			sol.Rejected++
			h *= math.Max(0.2, 0.9*math.Pow(norm, -0.2))
			if h < hmin {
				return sol, fmt.Errorf("%w: adaptive step %g below minimum at t=%g s", types.ErrNumericalDivergence, h, t)
			}
			continue
		}
		for i, v := range ynew {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return sol, &NonFiniteError{Time: t + h, Index: i, Steps: sol.Steps}
			}
		}
		tNew := t + h
		if a.Event != nil {
			gNew := a.Event(tNew, ynew)
			if gPrev*gNew < 0 || gNew == 0 {
				te, ye, err := a.refineEvent(f, t, y, tNew)
				if err != nil {
					return sol, err
				}
				sol.T = append(sol.T, te)
				sol.Y = append(sol.Y, ye)
				sol.Steps++
				sol.Terminated = true
				return sol, nil
			}
			gPrev = gNew
		}
		copy(y, ynew)
		t = tNew
		sol.T = append(sol.T, t)
		sol.Y = append(sol.Y, append([]float64(nil), y...))
		sol.Steps++
		if norm > 0 {
			h *= math.Min(5, 0.9*math.Pow(norm, -0.2))
		} else {
			h *= 5
		}
	}
	return sol, nil
}

// refineEvent bisects the bracketing interval [tLo, tHi], probing each
// midpoint with a single classical RK4 step from the accepted left state.
// A derivative failure during refinement surfaces to the caller unchanged.
func (a *Adaptive) refineEvent(f DerivFunc, tLo float64, yLo []float64, tHi float64) (float64, []float64, error) {
	gLo := a.Event(tLo, yLo)
	for iter := 0; iter < 60 && tHi-tLo > 1e-12*(1+math.Abs(tHi)); iter++ {
		tMid := 0.5 * (tLo + tHi)
		yMid, err := rk4Step(f, tLo, yLo, tMid-tLo)
		if err != nil {
			return 0, nil, err
		}
		gMid := a.Event(tMid, yMid)
		if gLo*gMid <= 0 && gMid != 0 {
			tHi = tMid
		} else if gMid == 0 {
			return tMid, yMid, nil
		} else {
			tLo, yLo, gLo = tMid, yMid, gMid
		}
	}
	y, err := rk4Step(f, tLo, yLo, tHi-tLo)
	if err != nil {
		return 0, nil, err
	}
	return tHi, y, nil
}

func rk4Step(f DerivFunc, t float64, y []float64, h float64) ([]float64, error) {
	var (
		n          = len(y)
		k1         = make([]float64, n)
		k2         = make([]float64, n)
		k3         = make([]float64, n)
		k4         = make([]float64, n)
		ytmp, ynew = make([]float64, n), make([]float64, n)
	)
	if err := f(t, y, k1); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		ytmp[i] = y[i] + 0.5*h*k1[i]
	}
	if err := f(t+0.5*h, ytmp, k2); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		ytmp[i] = y[i] + 0.5*h*k2[i]
	}
	if err := f(t+0.5*h, ytmp, k3); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		ytmp[i] = y[i] + h*k3[i]
	}
	if err := f(t+h, ytmp, k4); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		ynew[i] = y[i] + h/6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return ynew, nil
}
