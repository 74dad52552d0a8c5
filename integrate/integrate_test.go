package integrate

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/heatsim/hotbox/grid"
	"github.com/heatsim/hotbox/laplacian"
	"github.com/heatsim/hotbox/types"
)

func TestStabilityGuard(t *testing.T) {
	g, err := grid.New(4, 4, 4, 1)
	assert.NoError(t, err)

	// gamma = 1/6 exactly is admissible
	s, err := NewFixedStep(g, 1, 1.0/6.0)
	assert.NoError(t, err)
	assert.InDelta(t, StabilityBound, s.Gamma, 1e-15)

	// gamma = 1/6 + eps must be refused before any step executes
	_, err = NewFixedStep(g, 1, 1.0/6.0+1e-3)
	assert.ErrorIs(t, err, types.ErrInstabilityRisk)

	_, err = NewFixedStep(g, 1, -0.1)
	assert.ErrorIs(t, err, types.ErrInvalidConfiguration)
	_, err = NewFixedStep(g, 0, 0.1)
	assert.ErrorIs(t, err, types.ErrInvalidConfiguration)
}

// Pure diffusion of a unit impulse: no source, no boundary flux. The node
// sum is conserved at every step and the impulse relaxes toward zero.
func TestPureDiffusionConservation(t *testing.T) {
	g, err := grid.New(5, 5, 5, 1)
	assert.NoError(t, err)
	op := laplacian.New(g)
	rhs := func(_ float64, u, out *grid.Field) error {
		op.Apply(u, out)
		return nil
	}

	s, err := NewFixedStep(g, 1, 1.0/6.0)
	assert.NoError(t, err)

	u := grid.NewField(g)
	next := grid.NewField(g)
	u.Set(2, 2, 2, 10)
	initialSum := u.Sum()
	peak := u.Max()

	var tm float64
	for step := 0; step < 300; step++ {
		assert.NoError(t, s.Step(tm, u, next, rhs, nil))
		u, next = next, u
		tm += s.Dt
		assert.InDelta(t, initialSum, u.Sum(), 1e-8)
		assert.GreaterOrEqual(t, u.Min(), -1e-12)
		newPeak := u.Max()
		assert.LessOrEqual(t, newPeak, peak+1e-12)
		peak = newPeak
	}
	// Long-run limit is the uniform spread of the injected heat
	limit := initialSum / float64(g.NumNodes())
	assert.InDelta(t, limit, u.Max(), 0.01)
	assert.InDelta(t, limit, u.Min(), 0.01)
}

func TestAdaptiveExponentialDecay(t *testing.T) {
	f := func(_ float64, y, dydt []float64) error {
		dydt[0] = -y[0]
		return nil
	}
	a := &Adaptive{ATol: 1e-9, RTol: 1e-9}
	sol, err := a.Integrate(f, 0, 2, []float64{1})
	assert.NoError(t, err)
	assert.False(t, sol.Terminated)
	last := sol.Y[len(sol.Y)-1][0]
	assert.InDelta(t, math.Exp(-2), last, 1e-7)
	assert.InDelta(t, 2.0, sol.T[len(sol.T)-1], 1e-9)
}

// Falling body with a splash event, the integration contract used by the
// projectile auxiliary model: z'' = -9.8 from z0 = 10, stop at z = 0.
func TestAdaptiveEvent(t *testing.T) {
	const gAcc = 9.8
	f := func(_ float64, y, dydt []float64) error {
		dydt[0] = y[1]
		dydt[1] = -gAcc
		return nil
	}
	a := &Adaptive{
		ATol:  1e-9,
		RTol:  1e-9,
		Event: func(_ float64, y []float64) float64 { return y[0] },
	}
	sol, err := a.Integrate(f, 0, 5, []float64{10, 0})
	assert.NoError(t, err)
	assert.True(t, sol.Terminated)

	tSplash := math.Sqrt(2 * 10 / gAcc)
	assert.InDelta(t, tSplash, sol.T[len(sol.T)-1], 1e-5)
	assert.InDelta(t, 0, sol.Y[len(sol.Y)-1][0], 1e-6)
	assert.InDelta(t, -gAcc*tSplash, sol.Y[len(sol.Y)-1][1], 1e-4)
}

func TestAdaptiveRejectsBadSpanAndDivergence(t *testing.T) {
	f := func(_ float64, y, dydt []float64) error {
		dydt[0] = y[0] * y[0] // finite-time blowup from y0=1 at t=1
		return nil
	}
	a := &Adaptive{}
	_, err := a.Integrate(f, 1, 1, []float64{1})
	assert.ErrorIs(t, err, types.ErrInvalidConfiguration)

	_, err = a.Integrate(f, 0, 2, []float64{1})
	assert.ErrorIs(t, err, types.ErrNumericalDivergence)
}

// Overflow in one component reports which component went non-finite.
func TestAdaptiveNonFiniteComponentReported(t *testing.T) {
	f := func(_ float64, y, dydt []float64) error {
		dydt[0] = 0
		dydt[1] = 1e308
		return nil
	}
	a := &Adaptive{}
	_, err := a.Integrate(f, 0, 10, []float64{1, 1})
	assert.ErrorIs(t, err, types.ErrNumericalDivergence)
	var nf *NonFiniteError
	assert.True(t, errors.As(err, &nf))
	assert.Equal(t, 1, nf.Index)
	assert.GreaterOrEqual(t, nf.Steps, 1)
	assert.Greater(t, nf.Time, 0.0)
}

// A derivative failure while bisecting the event crossing must surface,
// not vanish into the refined state.
func TestEventRefinementPropagatesDerivError(t *testing.T) {
	a := &Adaptive{
		Event: func(_ float64, y []float64) float64 { return y[0] },
	}
	f := func(tm float64, y, dydt []float64) error {
		if tm > 0.5 {
			return fmt.Errorf("%w: sensor dropout at t=%g s", types.ErrExternalFunction, tm)
		}
		dydt[0] = -1
		return nil
	}
	_, _, err := a.refineEvent(f, 0, []float64{0.9}, 1.0)
	assert.ErrorIs(t, err, types.ErrExternalFunction)
}
