package grid

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Field is a dense 3D temperature array (degrees C), one entry per grid
// node, stored flat with k fastest. A Field never outlives the Grid it was
// allocated for.
type Field struct {
	Nx, Ny, Nz int
	Data       []float64
}

func NewField(g *Grid) *Field {
	return &Field{
		Nx: g.Nx, Ny: g.Ny, Nz: g.Nz,
		Data: make([]float64, g.NumNodes()),
	}
}

func (f *Field) At(i, j, k int) float64     { return f.Data[(i*f.Ny+j)*f.Nz+k] }
func (f *Field) Set(i, j, k int, v float64) { f.Data[(i*f.Ny+j)*f.Nz+k] = v }

// Fill sets every node to v.
func (f *Field) Fill(v float64) {
	for i := range f.Data {
		f.Data[i] = v
	}
}

// Copy returns a deep copy.
func (f *Field) Copy() *Field {
	out := &Field{Nx: f.Nx, Ny: f.Ny, Nz: f.Nz, Data: make([]float64, len(f.Data))}
	copy(out.Data, f.Data)
	return out
}

// Zero clears the field in place.
func (f *Field) Zero() {
	for i := range f.Data {
		f.Data[i] = 0
	}
}

// Sum is the plain node sum, the conserved discrete quantity of the
// source-free, flux-free scheme.
func (f *Field) Sum() float64 { return floats.Sum(f.Data) }

// Mean is the volume-mean temperature.
func (f *Field) Mean() float64 { return floats.Sum(f.Data) / float64(len(f.Data)) }

func (f *Field) Min() float64 { return floats.Min(f.Data) }
func (f *Field) Max() float64 { return floats.Max(f.Data) }

// SliceMeanZ is the mean over the horizontal slice at height index k.
func (f *Field) SliceMeanZ(k int) float64 {
	var sum float64
	for i := 0; i < f.Nx; i++ {
		for j := 0; j < f.Ny; j++ {
			sum += f.At(i, j, k)
		}
	}
	return sum / float64(f.Nx*f.Ny)
}

// FirstNonFinite scans for NaN/Inf and reports the first offending node.
func (f *Field) FirstNonFinite() (i, j, k int, found bool) {
	for idx, v := range f.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			k = idx % f.Nz
			r := idx / f.Nz
			j = r % f.Ny
			i = r / f.Ny
			return i, j, k, true
		}
	}
	return 0, 0, 0, false
}
