package integrate

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/heatsim/hotbox/grid"
	"github.com/heatsim/hotbox/types"
)

// StabilityBound is the largest gamma = alpha*dt/dx^2 for which the
// explicit 7-point scheme stays bounded in 3D.
const StabilityBound = 1.0 / 6.0

// RHSFunc fills rhs with du/dt evaluated on the read-only snapshot u.
type RHSFunc func(t float64, u, rhs *grid.Field) error

// PostStep runs after the explicit update, on the freshly written buffer.
// The Dirichlet-blend boundary overwrite plugs in here.
type PostStep func(t float64, u *grid.Field) error

// FixedStep advances the field with the forward-Euler update
// u_next = u + dt*rhs(t, u). The caller supplies two buffers and swaps
// them between steps; the stepper never writes the input snapshot, which
// is what keeps the update a pure function of the previous field.
type FixedStep struct {
	Dt    float64
	Gamma float64
	work  *grid.Field
}

// NewFixedStep validates the stability bound up front. A gamma beyond the
// bound is refused before any step runs rather than detected after the
// field diverges; the caller can reduce dt or switch to the adaptive
// integrator.
func NewFixedStep(g *grid.Grid, alpha, dt float64) (*FixedStep, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("%w: dt = %g must be positive", types.ErrInvalidConfiguration, dt)
	}
	if alpha <= 0 {
		return nil, fmt.Errorf("%w: thermal diffusivity %g must be positive", types.ErrInvalidConfiguration, alpha)
	}
	gamma := alpha * dt / (g.Dx * g.Dx)
	if gamma > StabilityBound*(1+1e-12) {
		return nil, fmt.Errorf("%w: gamma = %.6g > 1/6 (dt = %g s, dx = %g m)",
			types.ErrInstabilityRisk, gamma, dt, g.Dx)
	}
	return &FixedStep{Dt: dt, Gamma: gamma, work: grid.NewField(g)}, nil
}

// Step writes u(t+dt) into next from the snapshot u, then applies the
// optional post-step rule to next. u and next must not alias.
func (s *FixedStep) Step(t float64, u, next *grid.Field, rhs RHSFunc, post PostStep) error {
	s.work.Zero()
	if err := rhs(t, u, s.work); err != nil {
		return err
	}
	floats.AddScaledTo(next.Data, u.Data, s.Dt, s.work.Data)
	if post != nil {
		return post(t+s.Dt, next)
	}
	return nil
}
