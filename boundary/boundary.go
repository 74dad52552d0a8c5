package boundary

import (
	"fmt"

	"github.com/heatsim/hotbox/grid"
	"github.com/heatsim/hotbox/types"
)

// Two boundary forcing families share this package. DirichletBlend
// overwrites surface nodes after the interior update (the first model);
// ConvectiveFlux adds a term to the time derivative of surface nodes
// alongside diffusion and sources (the later models). They are deliberately
// separate code paths selected by configuration, never mixed.

// DirichletBlend applies the Robin blend
//
//	u_boundary = (u_adjacent + beta*v_external) / (1 + beta)
//
// on each of the six faces, with beta = h*dx/k. The ground face (k=0)
// carries its own, typically larger, coupling and reference temperature.
// beta = 0 degenerates to a zero-gradient (Neumann) copy of the adjacent
// interior node; beta -> infinity pins the surface to v_external.
type DirichletBlend struct {
	BetaAir    float64
	BetaGround float64
	AirTemp    TempFunc
	GroundTemp TempFunc
}

func (b *DirichletBlend) Validate() error {
	if b.BetaAir < 0 || b.BetaGround < 0 {
		return fmt.Errorf("%w: beta (air %g, ground %g) must be non-negative",
			types.ErrInvalidParameter, b.BetaAir, b.BetaGround)
	}
	if err := probe("air", b.AirTemp); err != nil {
		return err
	}
	return probe("ground", b.GroundTemp)
}

// Apply overwrites all boundary nodes of u in place at time t. The sweep
// order (west, east, south, north, ground, top) makes the last face win on
// shared edges and corners, matching the original model.
func (b *DirichletBlend) Apply(g *grid.Grid, u *grid.Field, t float64) error {
	var (
		vair    = b.AirTemp(t)
		vground = b.GroundTemp(t)
	)
	if !finite(vair) || !finite(vground) {
		return fmt.Errorf("%w: boundary temperature at t=%g s", types.ErrExternalFunction, t)
	}
	var (
		ba = b.BetaAir
		bg = b.BetaGround
		nx = g.Nx
		ny = g.Ny
		nz = g.Nz
	)
	for j := 0; j < ny; j++ {
		for k := 0; k < nz; k++ {
			u.Set(0, j, k, (u.At(1, j, k)+ba*vair)/(1+ba))
			u.Set(nx-1, j, k, (u.At(nx-2, j, k)+ba*vair)/(1+ba))
		}
	}
	for i := 0; i < nx; i++ {
		for k := 0; k < nz; k++ {
			u.Set(i, 0, k, (u.At(i, 1, k)+ba*vair)/(1+ba))
			u.Set(i, ny-1, k, (u.At(i, ny-2, k)+ba*vair)/(1+ba))
		}
	}
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			u.Set(i, j, 0, (u.At(i, j, 1)+bg*vground)/(1+bg))
			u.Set(i, j, nz-1, (u.At(i, j, nz-2)+ba*vair)/(1+ba))
		}
	}
	return nil
}

// ConvectiveFlux adds B*(v_external - u_boundary) to the time derivative of
// every boundary node, B = h/(c*rho*d_eff). A node belonging to several
// faces still receives a single contribution; the ground face (k=0) uses
// its own rate and reference temperature.
type ConvectiveFlux struct {
	RateAir    float64 // B for the five air-coupled faces, 1/s
	RateGround float64 // B for the ground face, 1/s
	AirTemp    TempFunc
	GroundTemp TempFunc
}

func (b *ConvectiveFlux) Validate() error {
	if b.RateAir < 0 || b.RateGround < 0 {
		return fmt.Errorf("%w: convective rate (air %g, ground %g) must be non-negative",
			types.ErrInvalidParameter, b.RateAir, b.RateGround)
	}
	if err := probe("air", b.AirTemp); err != nil {
		return err
	}
	return probe("ground", b.GroundTemp)
}

// Accumulate adds the convective term for time t into rhs, reading the
// snapshot u. Interior nodes are untouched.
func (b *ConvectiveFlux) Accumulate(g *grid.Grid, u, rhs *grid.Field, t float64) error {
	var (
		vair    = b.AirTemp(t)
		vground = b.GroundTemp(t)
	)
	if !finite(vair) || !finite(vground) {
		return fmt.Errorf("%w: boundary temperature at t=%g s", types.ErrExternalFunction, t)
	}
	for n := 0; n < g.NumNodes(); n++ {
		i, j, k := g.Coords(n)
		if g.Classify(i, j, k).IsInterior() {
			continue
		}
		if k == 0 {
			rhs.Data[n] += b.RateGround * (vground - u.Data[n])
		} else {
			rhs.Data[n] += b.RateAir * (vair - u.Data[n])
		}
	}
	return nil
}
