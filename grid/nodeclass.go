package grid

// AxisPos locates one coordinate of a node relative to its axis: at the
// low end (index 0), at the high end (index n-1), or strictly inside.
type AxisPos uint8

const (
	Inside AxisPos = iota
	Min
	Max
)

// NodeClass is the derived classification of a node by its per-axis
// positions. There are 27 distinct classes: 1 interior, 6 faces, 12 edges
// and 8 corners. The class determines which Laplacian stencil applies.
type NodeClass struct {
	X, Y, Z AxisPos
}

// Missing is the number m of axes with a one-sided neighborhood
// (m=0 interior, 1 face, 2 edge, 3 corner).
func (c NodeClass) Missing() (m int) {
	if c.X != Inside {
		m++
	}
	if c.Y != Inside {
		m++
	}
	if c.Z != Inside {
		m++
	}
	return
}

func (c NodeClass) IsInterior() bool { return c.Missing() == 0 }
func (c NodeClass) IsFace() bool     { return c.Missing() == 1 }
func (c NodeClass) IsEdge() bool     { return c.Missing() == 2 }
func (c NodeClass) IsCorner() bool   { return c.Missing() == 3 }

// Classify derives the NodeClass of node (i,j,k). Classification is
// computed on demand, never stored.
func (g *Grid) Classify(i, j, k int) (c NodeClass) {
	switch i {
	case 0:
		c.X = Min
	case g.Nx - 1:
		c.X = Max
	}
	switch j {
	case 0:
		c.Y = Min
	case g.Ny - 1:
		c.Y = Max
	}
	switch k {
	case 0:
		c.Z = Min
	case g.Nz - 1:
		c.Z = Max
	}
	return
}
