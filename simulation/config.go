package simulation

import (
	"fmt"

	"github.com/heatsim/hotbox/boundary"
	"github.com/heatsim/hotbox/grid"
	"github.com/heatsim/hotbox/solar"
	"github.com/heatsim/hotbox/types"
)

// Material bundles the scalar constants of the wall material. All values
// are configuration-time constants, never mutated during a run.
type Material struct {
	Diffusivity  float64 // alpha, m^2/s
	HeatTransfer float64 // h, W/(m^2 K)
	Conductivity float64 // k, W/(m K)
	SpecificHeat float64 // c, J/(kg K)
	Density      float64 // rho, kg/m^3
	Thickness    float64 // effective absorption depth d_eff, m
}

func (m Material) Validate() error {
	for _, v := range []struct {
		name string
		val  float64
	}{
		{"diffusivity", m.Diffusivity},
		{"heat transfer coefficient", m.HeatTransfer},
		{"conductivity", m.Conductivity},
		{"specific heat", m.SpecificHeat},
		{"density", m.Density},
		{"thickness", m.Thickness},
	} {
		if v.val <= 0 {
			return fmt.Errorf("%w: %s = %g must be positive", types.ErrInvalidConfiguration, v.name, v.val)
		}
	}
	return nil
}

// Beta is the dimensionless Robin coupling h*dx/k of the blend model.
func (m Material) Beta(dx float64) float64 {
	return m.HeatTransfer * dx / m.Conductivity
}

// Rate is the convective exchange rate B = h/(c*rho*d_eff) of the flux
// model, 1/s.
func (m Material) Rate() float64 {
	return m.HeatTransfer / (m.SpecificHeat * m.Density * m.Thickness)
}

// SourceCoef is A = 1/(c*rho*d_eff), mapping incident W/m^2 to K/s.
func (m Material) SourceCoef() float64 {
	return 1 / (m.SpecificHeat * m.Density * m.Thickness)
}

// Config is the complete description of one simulation run.
type Config struct {
	Title string

	// Geometry
	L, W, H, Dx float64

	Material Material

	// Boundary forcing
	BoundaryModel types.BoundaryModel
	AirTemp       boundary.TempFunc
	GroundTemp    boundary.TempFunc
	// GroundFactor scales the derived ground coupling relative to the air
	// faces; the ground sink is typically stiffer. Zero means 1.
	GroundFactor float64

	// Sources. Solar may be nil; Source is an additional injection term
	// (constant face sources in tests and calibration runs).
	Solar  *solar.Model
	Source Source

	// Time stepping
	Integrator types.IntegratorType
	Dt         float64 // explicit step, s
	Horizon    float64 // total simulated time, s
	ATol, RTol float64 // adaptive tolerances

	// Initial condition: a full field wins over the uniform value.
	InitialTemp  float64
	InitialField *grid.Field

	// SnapshotStride records every Nth accepted step (0 means every step).
	SnapshotStride int

	// Parallel is the worker count for the stencil sweep (0 = NumCPU).
	Parallel int

	// OnStep observes each accepted step; used for progress logging and
	// the websocket push hub. Must not retain u.
	OnStep func(step int, t float64, u *grid.Field)
}

func (cfg *Config) validate() error {
	if err := cfg.Material.Validate(); err != nil {
		return err
	}
	if cfg.Horizon <= 0 {
		return fmt.Errorf("%w: horizon = %g s must be positive", types.ErrInvalidConfiguration, cfg.Horizon)
	}
	if cfg.GroundFactor < 0 {
		return fmt.Errorf("%w: ground factor = %g must be non-negative", types.ErrInvalidConfiguration, cfg.GroundFactor)
	}
	switch cfg.BoundaryModel {
	case types.BM_DirichletBlend, types.BM_ConvectiveFlux:
	default:
		return fmt.Errorf("%w: no boundary model selected", types.ErrInvalidConfiguration)
	}
	if cfg.Integrator == types.IT_Adaptive && cfg.BoundaryModel == types.BM_DirichletBlend {
		// The blend is an algebraic overwrite, not part of the ODE right
		// hand side; it has no meaning inside an adaptive step.
		return fmt.Errorf("%w: the blend boundary model requires the explicit integrator", types.ErrInvalidConfiguration)
	}
	if cfg.Integrator == types.IT_Explicit && cfg.Dt <= 0 {
		return fmt.Errorf("%w: explicit stepping needs dt > 0", types.ErrInvalidConfiguration)
	}
	if cfg.Solar != nil {
		if err := cfg.Solar.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (cfg *Config) groundFactor() float64 {
	if cfg.GroundFactor == 0 {
		return 1
	}
	return cfg.GroundFactor
}
