package simulation

import (
	"fmt"
	"math"

	"github.com/heatsim/hotbox/grid"
	"github.com/heatsim/hotbox/types"
)

// Source injects power density (K/s) into the right-hand side. The solar
// model satisfies this; ConstantFaceSource covers calibration runs and the
// analytic equilibrium checks.
type Source interface {
	Accumulate(g *grid.Grid, rhs *grid.Field, t float64) error
}

// ConstantFaceSource deposits a fixed power density on every node of one
// face, independent of time.
type ConstantFaceSource struct {
	Face  types.Face
	Power float64 // K/s
}

func (s *ConstantFaceSource) Validate() error {
	if s.Power < 0 || math.IsNaN(s.Power) || math.IsInf(s.Power, 0) {
		return fmt.Errorf("%w: face source power %g", types.ErrInvalidParameter, s.Power)
	}
	return nil
}

func (s *ConstantFaceSource) Accumulate(g *grid.Grid, rhs *grid.Field, _ float64) error {
	switch s.Face {
	case types.F_West, types.F_East:
		i := 0
		if s.Face == types.F_East {
			i = g.Nx - 1
		}
		for j := 0; j < g.Ny; j++ {
			for k := 0; k < g.Nz; k++ {
				rhs.Data[g.Index(i, j, k)] += s.Power
			}
		}
	case types.F_South, types.F_North:
		j := 0
		if s.Face == types.F_North {
			j = g.Ny - 1
		}
		for i := 0; i < g.Nx; i++ {
			for k := 0; k < g.Nz; k++ {
				rhs.Data[g.Index(i, j, k)] += s.Power
			}
		}
	default:
		k := 0
		if s.Face == types.F_Top {
			k = g.Nz - 1
		}
		for i := 0; i < g.Nx; i++ {
			for j := 0; j < g.Ny; j++ {
				rhs.Data[g.Index(i, j, k)] += s.Power
			}
		}
	}
	return nil
}

// FaceNodeCount is the node count of one face, including its edges and
// corners; used by the equilibrium balance.
func FaceNodeCount(g *grid.Grid, f types.Face) int {
	switch f {
	case types.F_West, types.F_East:
		return g.Ny * g.Nz
	case types.F_South, types.F_North:
		return g.Nx * g.Nz
	default:
		return g.Nx * g.Ny
	}
}
