package laplacian

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/heatsim/hotbox/grid"
	"github.com/heatsim/hotbox/utils"
)

func testGrid(t *testing.T, L, W, H, dx float64) *grid.Grid {
	g, err := grid.New(L, W, H, dx)
	assert.NoError(t, err)
	return g
}

// A globally constant field has zero Laplacian at every node regardless of
// classification; this catches stencil coefficient errors in all 27 cases.
func TestConstantField(t *testing.T) {
	g := testGrid(t, 5, 4, 3, 1)
	op := New(g)
	u := grid.NewField(g)
	out := grid.NewField(g)

	u.Fill(27) // integer-valued, so cancellation is exact
	op.Apply(u, out)
	for _, v := range out.Data {
		assert.Equal(t, 0.0, v)
	}

	u.Fill(0.1)
	op.Apply(u, out)
	for _, v := range out.Data {
		assert.InDelta(t, 0, v, 1e-12)
	}
}

// Unit impulse at the single interior node of a 3x3x3 grid: every stencil
// class is exercised and the values are small enough to verify by hand.
func TestImpulseStencils(t *testing.T) {
	g := testGrid(t, 3, 3, 3, 1)
	assert.Equal(t, 27, g.NumNodes())
	op := New(g)
	u := grid.NewField(g)
	out := grid.NewField(g)
	u.Set(1, 1, 1, 1)

	op.Apply(u, out)

	// Center loses six units of its value
	assert.Equal(t, -6.0, out.At(1, 1, 1))
	// Each face center receives the doubled reflection term: 2*1/(2 dx^2)
	for _, n := range [][3]int{{0, 1, 1}, {2, 1, 1}, {1, 0, 1}, {1, 2, 1}, {1, 1, 0}, {1, 1, 2}} {
		assert.Equal(t, 1.0, out.At(n[0], n[1], n[2]))
	}
	// Edge and corner nodes have no neighbor holding the impulse
	assert.Equal(t, 0.0, out.At(0, 0, 1))
	assert.Equal(t, 0.0, out.At(0, 0, 0))
	// Exchange antisymmetry: plain node sum vanishes
	assert.InDelta(t, 0, out.Sum(), 1e-13)
}

// The 2^m normalization makes every pairwise exchange antisymmetric, so the
// plain node sum of the operator output is zero for arbitrary fields.
func TestSumConservation(t *testing.T) {
	g := testGrid(t, 6, 5, 4, 1)
	op := New(g)
	u := grid.NewField(g)
	out := grid.NewField(g)

	for n := range u.Data {
		i, j, k := g.Coords(n)
		u.Data[n] = 20 + 5*math.Sin(float64(3*i+7*j)) + 2*math.Cos(float64(2*k+i))
	}
	op.Apply(u, out)
	assert.InDelta(t, 0, out.Sum(), 1e-10)
}

// Mirror symmetry of the domain and stencils: reflecting the input in x
// reflects the output.
func TestMirrorSymmetry(t *testing.T) {
	g := testGrid(t, 5, 4, 3, 1)
	op := New(g)
	u := grid.NewField(g)
	mirrored := grid.NewField(g)
	outU := grid.NewField(g)
	outM := grid.NewField(g)

	for n := range u.Data {
		i, j, k := g.Coords(n)
		u.Data[n] = float64(i*i) + 3*float64(j) - 0.5*float64(k*j)
	}
	for i := 0; i < g.Nx; i++ {
		for j := 0; j < g.Ny; j++ {
			for k := 0; k < g.Nz; k++ {
				mirrored.Set(i, j, k, u.At(g.Nx-1-i, j, k))
			}
		}
	}
	op.Apply(u, outU)
	op.Apply(mirrored, outM)
	for i := 0; i < g.Nx; i++ {
		for j := 0; j < g.Ny; j++ {
			for k := 0; k < g.Nz; k++ {
				assert.InDelta(t, outU.At(g.Nx-1-i, j, k), outM.At(i, j, k), 1e-13)
			}
		}
	}
}

func TestApplyParallelMatchesSerial(t *testing.T) {
	g := testGrid(t, 7, 6, 5, 1)
	op := New(g)
	u := grid.NewField(g)
	serial := grid.NewField(g)
	parallel := grid.NewField(g)

	for n := range u.Data {
		u.Data[n] = math.Sin(float64(n)) * 10
	}
	op.Apply(u, serial)
	for _, degree := range []int{1, 2, 3, 8} {
		parallel.Zero()
		pm := utils.NewPartitionMap(degree, g.NumNodes())
		op.ApplyParallel(u, parallel, pm)
		assert.Equal(t, serial.Data, parallel.Data)
	}
}

// Input snapshot is never written.
func TestInputUntouched(t *testing.T) {
	g := testGrid(t, 4, 4, 4, 1)
	op := New(g)
	u := grid.NewField(g)
	for n := range u.Data {
		u.Data[n] = float64(n)
	}
	before := u.Copy()
	out := grid.NewField(g)
	op.Apply(u, out)
	assert.Equal(t, before.Data, u.Data)
}
