package laplacian

import (
	"fmt"
	"sync"

	"github.com/heatsim/hotbox/grid"
	"github.com/heatsim/hotbox/utils"
)

// Operator evaluates the discrete Laplacian of a temperature field over a
// uniform Grid using the 7-point stencil. Boundary nodes use the
// finite-volume corrected form: every present one-sided axis difference is
// doubled (the reflected half-cell), the central coefficient stays 6, and
// the whole expression is divided by 2^m * dx^2 where m is the number of
// one-sided axes. No ghost values are ever stored; Robin physics is not
// applied here, it enters as a separate additive term.
//
// With this normalization every neighbor exchange is antisymmetric, so the
// plain node sum of the output vanishes for any input field.
type Operator struct {
	g *grid.Grid
	// Precomputed 1/(2^m dx^2) for m = 0..3
	w0, w1, w2, w3 float64
}

func New(g *grid.Grid) *Operator {
	h2 := g.Dx * g.Dx
	return &Operator{
		g:  g,
		w0: 1 / h2,
		w1: 1 / (2 * h2),
		w2: 1 / (4 * h2),
		w3: 1 / (8 * h2),
	}
}

// AtNode evaluates the stencil at node (i,j,k) of the snapshot u. The 27
// node classifications each carry their own expression; the doubling and
// the denominator differ per class and do not reduce to a per-axis product.
func (op *Operator) AtNode(u *grid.Field, i, j, k int) float64 {
	var (
		g = op.g
		c = u.At(i, j, k)
	)
	switch g.Classify(i, j, k) {

	// Interior
	case grid.NodeClass{X: grid.Inside, Y: grid.Inside, Z: grid.Inside}:
		return (u.At(i-1, j, k) + u.At(i+1, j, k) +
			u.At(i, j-1, k) + u.At(i, j+1, k) +
			u.At(i, j, k-1) + u.At(i, j, k+1) - 6*c) * op.w0

	// Faces
	case grid.NodeClass{X: grid.Min, Y: grid.Inside, Z: grid.Inside}: // west face
		return (2*u.At(i+1, j, k) +
			u.At(i, j-1, k) + u.At(i, j+1, k) +
			u.At(i, j, k-1) + u.At(i, j, k+1) - 6*c) * op.w1
	case grid.NodeClass{X: grid.Max, Y: grid.Inside, Z: grid.Inside}: // east face
		return (2*u.At(i-1, j, k) +
			u.At(i, j-1, k) + u.At(i, j+1, k) +
			u.At(i, j, k-1) + u.At(i, j, k+1) - 6*c) * op.w1
	case grid.NodeClass{X: grid.Inside, Y: grid.Min, Z: grid.Inside}: // south face
		return (2*u.At(i, j+1, k) +
			u.At(i-1, j, k) + u.At(i+1, j, k) +
			u.At(i, j, k-1) + u.At(i, j, k+1) - 6*c) * op.w1
	case grid.NodeClass{X: grid.Inside, Y: grid.Max, Z: grid.Inside}: // north face
		return (2*u.At(i, j-1, k) +
			u.At(i-1, j, k) + u.At(i+1, j, k) +
			u.At(i, j, k-1) + u.At(i, j, k+1) - 6*c) * op.w1
	case grid.NodeClass{X: grid.Inside, Y: grid.Inside, Z: grid.Min}: // ground face
		return (2*u.At(i, j, k+1) +
			u.At(i-1, j, k) + u.At(i+1, j, k) +
			u.At(i, j-1, k) + u.At(i, j+1, k) - 6*c) * op.w1
	case grid.NodeClass{X: grid.Inside, Y: grid.Inside, Z: grid.Max}: // top face
		return (2*u.At(i, j, k-1) +
			u.At(i-1, j, k) + u.At(i+1, j, k) +
			u.At(i, j-1, k) + u.At(i, j+1, k) - 6*c) * op.w1

	// Edges parallel to z
	case grid.NodeClass{X: grid.Min, Y: grid.Min, Z: grid.Inside}:
		return (2*u.At(i+1, j, k) + 2*u.At(i, j+1, k) +
			u.At(i, j, k-1) + u.At(i, j, k+1) - 6*c) * op.w2
	case grid.NodeClass{X: grid.Min, Y: grid.Max, Z: grid.Inside}:
		return (2*u.At(i+1, j, k) + 2*u.At(i, j-1, k) +
			u.At(i, j, k-1) + u.At(i, j, k+1) - 6*c) * op.w2
	case grid.NodeClass{X: grid.Max, Y: grid.Min, Z: grid.Inside}:
		return (2*u.At(i-1, j, k) + 2*u.At(i, j+1, k) +
			u.At(i, j, k-1) + u.At(i, j, k+1) - 6*c) * op.w2
	case grid.NodeClass{X: grid.Max, Y: grid.Max, Z: grid.Inside}:
		return (2*u.At(i-1, j, k) + 2*u.At(i, j-1, k) +
			u.At(i, j, k-1) + u.At(i, j, k+1) - 6*c) * op.w2

	// Edges parallel to y
	case grid.NodeClass{X: grid.Min, Y: grid.Inside, Z: grid.Min}:
		return (2*u.At(i+1, j, k) + 2*u.At(i, j, k+1) +
			u.At(i, j-1, k) + u.At(i, j+1, k) - 6*c) * op.w2
	case grid.NodeClass{X: grid.Min, Y: grid.Inside, Z: grid.Max}:
		return (2*u.At(i+1, j, k) + 2*u.At(i, j, k-1) +
			u.At(i, j-1, k) + u.At(i, j+1, k) - 6*c) * op.w2
	case grid.NodeClass{X: grid.Max, Y: grid.Inside, Z: grid.Min}:
		return (2*u.At(i-1, j, k) + 2*u.At(i, j, k+1) +
			u.At(i, j-1, k) + u.At(i, j+1, k) - 6*c) * op.w2
	case grid.NodeClass{X: grid.Max, Y: grid.Inside, Z: grid.Max}:
		return (2*u.At(i-1, j, k) + 2*u.At(i, j, k-1) +
			u.At(i, j-1, k) + u.At(i, j+1, k) - 6*c) * op.w2

	// Edges parallel to x
	case grid.NodeClass{X: grid.Inside, Y: grid.Min, Z: grid.Min}:
		return (2*u.At(i, j+1, k) + 2*u.At(i, j, k+1) +
			u.At(i-1, j, k) + u.At(i+1, j, k) - 6*c) * op.w2
	case grid.NodeClass{X: grid.Inside, Y: grid.Min, Z: grid.Max}:
		return (2*u.At(i, j+1, k) + 2*u.At(i, j, k-1) +
			u.At(i-1, j, k) + u.At(i+1, j, k) - 6*c) * op.w2
	case grid.NodeClass{X: grid.Inside, Y: grid.Max, Z: grid.Min}:
		return (2*u.At(i, j-1, k) + 2*u.At(i, j, k+1) +
			u.At(i-1, j, k) + u.At(i+1, j, k) - 6*c) * op.w2
	case grid.NodeClass{X: grid.Inside, Y: grid.Max, Z: grid.Max}:
		return (2*u.At(i, j-1, k) + 2*u.At(i, j, k-1) +
			u.At(i-1, j, k) + u.At(i+1, j, k) - 6*c) * op.w2

	// Corners
	case grid.NodeClass{X: grid.Min, Y: grid.Min, Z: grid.Min}:
		return (2*u.At(i+1, j, k) + 2*u.At(i, j+1, k) + 2*u.At(i, j, k+1) - 6*c) * op.w3
	case grid.NodeClass{X: grid.Min, Y: grid.Min, Z: grid.Max}:
		return (2*u.At(i+1, j, k) + 2*u.At(i, j+1, k) + 2*u.At(i, j, k-1) - 6*c) * op.w3
	case grid.NodeClass{X: grid.Min, Y: grid.Max, Z: grid.Min}:
		return (2*u.At(i+1, j, k) + 2*u.At(i, j-1, k) + 2*u.At(i, j, k+1) - 6*c) * op.w3
	case grid.NodeClass{X: grid.Min, Y: grid.Max, Z: grid.Max}:
		return (2*u.At(i+1, j, k) + 2*u.At(i, j-1, k) + 2*u.At(i, j, k-1) - 6*c) * op.w3
	case grid.NodeClass{X: grid.Max, Y: grid.Min, Z: grid.Min}:
		return (2*u.At(i-1, j, k) + 2*u.At(i, j+1, k) + 2*u.At(i, j, k+1) - 6*c) * op.w3
	case grid.NodeClass{X: grid.Max, Y: grid.Min, Z: grid.Max}:
		return (2*u.At(i-1, j, k) + 2*u.At(i, j+1, k) + 2*u.At(i, j, k-1) - 6*c) * op.w3
	case grid.NodeClass{X: grid.Max, Y: grid.Max, Z: grid.Min}:
		return (2*u.At(i-1, j, k) + 2*u.At(i, j-1, k) + 2*u.At(i, j, k+1) - 6*c) * op.w3
	case grid.NodeClass{X: grid.Max, Y: grid.Max, Z: grid.Max}:
		return (2*u.At(i-1, j, k) + 2*u.At(i, j-1, k) + 2*u.At(i, j, k-1) - 6*c) * op.w3
	}
	panic(fmt.Sprintf("unclassifiable node (%d,%d,%d)", i, j, k))
}

// Apply evaluates the Laplacian of u into out. The input is never written;
// out must not alias u.
func (op *Operator) Apply(u, out *grid.Field) {
	op.ApplyRange(u, out, 0, op.g.NumNodes())
}

// ApplyRange evaluates nodes with flattened index in [n0, n1).
func (op *Operator) ApplyRange(u, out *grid.Field, n0, n1 int) {
	for n := n0; n < n1; n++ {
		i, j, k := op.g.Coords(n)
		out.Data[n] = op.AtNode(u, i, j, k)
	}
}

// ApplyParallel evaluates the stencil with one goroutine per partition
// bucket. Every worker reads the same immutable snapshot u.
func (op *Operator) ApplyParallel(u, out *grid.Field, pm *utils.PartitionMap) {
	var wg sync.WaitGroup
	for np := 0; np < pm.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			n0, n1 := pm.GetBucketRange(np)
			op.ApplyRange(u, out, n0, n1)
			wg.Done()
		}(np)
	}
	wg.Wait()
}
