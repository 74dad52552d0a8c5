package grid

import (
	"fmt"

	"github.com/heatsim/hotbox/types"
)

// Grid is the discretized rectangular domain: physical dimensions (L, W, H)
// in meters, uniform spacing Dx along all three axes. Immutable after
// construction. Axis orientation is fixed for the whole solver:
// x runs west->east, y runs south->north, z runs ground->top.
type Grid struct {
	L, W, H    float64
	Dx         float64
	Nx, Ny, Nz int
}

// New computes integer extents Nx = floor(L/Dx) (similarly Ny, Nz). Each
// extent must resolve to at least 3 nodes so that an interior exists.
func New(L, W, H, dx float64) (*Grid, error) {
	if dx <= 0 {
		return nil, fmt.Errorf("%w: spacing dx = %g must be positive", types.ErrInvalidConfiguration, dx)
	}
	if L <= 0 || W <= 0 || H <= 0 {
		return nil, fmt.Errorf("%w: dimensions (L,W,H) = (%g,%g,%g) must be positive",
			types.ErrInvalidConfiguration, L, W, H)
	}
	g := &Grid{
		L: L, W: W, H: H, Dx: dx,
		Nx: int(L / dx),
		Ny: int(W / dx),
		Nz: int(H / dx),
	}
	if g.Nx < 3 || g.Ny < 3 || g.Nz < 3 {
		return nil, fmt.Errorf("%w: extents (%d,%d,%d) for dx = %g leave no interior, need >= 3 nodes per axis",
			types.ErrInvalidConfiguration, g.Nx, g.Ny, g.Nz, dx)
	}
	return g, nil
}

// NumNodes is the total node count Nx*Ny*Nz.
func (g *Grid) NumNodes() int { return g.Nx * g.Ny * g.Nz }

// Index flattens (i,j,k) into the storage index, k fastest.
func (g *Grid) Index(i, j, k int) int { return (i*g.Ny+j)*g.Nz + k }

// Coords inverts Index.
func (g *Grid) Coords(idx int) (i, j, k int) {
	k = idx % g.Nz
	idx /= g.Nz
	j = idx % g.Ny
	i = idx / g.Ny
	return
}

// BoundaryNodeCount is the number of nodes lying on at least one face.
func (g *Grid) BoundaryNodeCount() int {
	interior := (g.Nx - 2) * (g.Ny - 2) * (g.Nz - 2)
	return g.NumNodes() - interior
}
