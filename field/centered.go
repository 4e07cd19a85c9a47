package field

import (
	"gonum.org/v1/gonum/floats"

	"github.com/mlandau/gridflow/geom"
)

// CenteredGrid is a scalar field with one sample per cell, stored batch-major
// and row-major within a batch entry (last axis fastest).
type CenteredGrid struct {
	Bounds *geom.Box
	Res    []int
	Extrap Extrapolation
	Batch  int
	Values []float64
}

// NewCenteredGrid creates a zero-valued centered grid.
func NewCenteredGrid(bounds *geom.Box, res []int, extrap Extrapolation, batch int) *CenteredGrid {
	if len(res) != bounds.Rank() {
		panic("Grid resolution rank does not match its bounds.")
	}
	if batch < 1 {
		batch = 1
	}
	return &CenteredGrid{
		Bounds: bounds, Res: res, Extrap: extrap, Batch: batch,
		Values: make([]float64, batch*prod(res)),
	}
}

func (g *CenteredGrid) Rank() int                    { return len(g.Res) }
func (g *CenteredGrid) Resolution() []int            { return g.Res }
func (g *CenteredGrid) Extrapolation() Extrapolation { return g.Extrap }
func (g *CenteredGrid) BatchSize() int               { return g.Batch }

// Cells returns the number of cells per batch entry.
func (g *CenteredGrid) Cells() int { return prod(g.Res) }

// Dx returns the cell size along every axis.
func (g *CenteredGrid) Dx() []float64 {
	dx := g.Bounds.Size()
	for d := range dx {
		dx[d] /= float64(g.Res[d])
	}
	return dx
}

func (g *CenteredGrid) Clone() *CenteredGrid {
	out := *g
	out.Values = make([]float64, len(g.Values))
	copy(out.Values, g.Values)
	return &out
}

// WithValues returns a grid sharing this grid's geometry but holding vals.
func (g *CenteredGrid) WithValues(vals []float64) *CenteredGrid {
	if len(vals) != len(g.Values) {
		panic("Value slice length does not match the grid.")
	}
	out := *g
	out.Values = vals
	return &out
}

// atExtrap resolves out-of-range indices through an explicit extrapolation
// policy, which operators like Stagger override independently of the grid's.
func (g *CenteredGrid) atExtrap(b int, idx []int, extrap Extrapolation) float64 {
	flat := 0
	for d, i := range idx {
		n := g.Res[d]
		if i < 0 || i >= n {
			switch extrap {
			case Periodic:
				i = ((i % n) + n) % n
			case Boundary:
				if i < 0 {
					i = 0
				} else {
					i = n - 1
				}
			default:
				return 0
			}
		}
		flat = flat*n + i
	}
	return g.Values[b*g.Cells()+flat]
}

// At returns the value at idx of batch entry b, resolving out-of-range
// indices through the grid's own extrapolation.
func (g *CenteredGrid) At(b int, idx []int) float64 {
	return g.atExtrap(b, idx, g.Extrap)
}

// Set assigns the value at an in-range multi-index.
func (g *CenteredGrid) Set(b int, idx []int, v float64) {
	flat := 0
	for d, i := range idx {
		flat = flat*g.Res[d] + i
	}
	g.Values[b*g.Cells()+flat] = v
}

// CellCenter writes the world-space center of the cell at idx into out.
func (g *CenteredGrid) CellCenter(idx []int, out []float64) {
	dx := g.Dx()
	for d := range idx {
		out[d] = g.Bounds.Lower[d] + (float64(idx[d])+0.5)*dx[d]
	}
}

// Sample interpolates the grid at the world-space point pt for batch entry
// b, using multilinear interpolation between cell centers and the grid's
// extrapolation outside.
func (g *CenteredGrid) Sample(b int, pt []float64) float64 {
	dx := g.Dx()
	u := make([]float64, len(pt))
	for d := range pt {
		u[d] = (pt[d]-g.Bounds.Lower[d])/dx[d] - 0.5
	}
	return sampleLinear(u, func(idx []int) float64 { return g.At(b, idx) })
}

// Add returns the elementwise sum with o.
func (g *CenteredGrid) Add(o *CenteredGrid) *CenteredGrid {
	out := g.Clone()
	floats.Add(out.Values, o.Values)
	return out
}

// Sub returns the elementwise difference with o.
func (g *CenteredGrid) Sub(o *CenteredGrid) *CenteredGrid {
	out := g.Clone()
	floats.Sub(out.Values, o.Values)
	return out
}

// Mul returns the elementwise product with o.
func (g *CenteredGrid) Mul(o *CenteredGrid) *CenteredGrid {
	out := g.Clone()
	floats.Mul(out.Values, o.Values)
	return out
}

// Scale returns the grid scaled by s.
func (g *CenteredGrid) Scale(s float64) *CenteredGrid {
	out := g.Clone()
	floats.Scale(s, out.Values)
	return out
}

// Where selects a where mask is positive and b elsewhere.
func Where(mask, a, b *CenteredGrid) *CenteredGrid {
	out := a.Clone()
	for i, m := range mask.Values {
		if m <= 0 {
			out.Values[i] = b.Values[i]
		}
	}
	return out
}
