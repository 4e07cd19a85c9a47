package field

import (
	"github.com/mlandau/gridflow/geom"
)

// VectorGrid is a vector field with every component sampled at cell centers.
type VectorGrid struct {
	Comp []*CenteredGrid
}

// NewVectorGrid creates a zero-valued centered vector grid with one
// component per axis.
func NewVectorGrid(bounds *geom.Box, res []int, extrap Extrapolation, batch int) *VectorGrid {
	comp := make([]*CenteredGrid, len(res))
	for d := range comp {
		comp[d] = NewCenteredGrid(bounds, res, extrap, batch)
	}
	return &VectorGrid{Comp: comp}
}

func (g *VectorGrid) Rank() int                    { return g.Comp[0].Rank() }
func (g *VectorGrid) Resolution() []int            { return g.Comp[0].Res }
func (g *VectorGrid) Extrapolation() Extrapolation { return g.Comp[0].Extrap }
func (g *VectorGrid) BatchSize() int               { return g.Comp[0].Batch }
func (g *VectorGrid) Bounds() *geom.Box            { return g.Comp[0].Bounds }

func (g *VectorGrid) Clone() *VectorGrid {
	comp := make([]*CenteredGrid, len(g.Comp))
	for d := range comp {
		comp[d] = g.Comp[d].Clone()
	}
	return &VectorGrid{Comp: comp}
}

// Sample writes the interpolated vector at pt for batch entry b into out.
func (g *VectorGrid) Sample(b int, pt []float64, out []float64) {
	for d := range g.Comp {
		out[d] = g.Comp[d].Sample(b, pt)
	}
}

// Sub returns the elementwise difference with o.
func (g *VectorGrid) Sub(o *VectorGrid) *VectorGrid {
	comp := make([]*CenteredGrid, len(g.Comp))
	for d := range comp {
		comp[d] = g.Comp[d].Sub(o.Comp[d])
	}
	return &VectorGrid{Comp: comp}
}

// Mul returns the grid with every component multiplied elementwise by the
// scalar mask.
func (g *VectorGrid) Mul(mask *CenteredGrid) *VectorGrid {
	comp := make([]*CenteredGrid, len(g.Comp))
	for d := range comp {
		comp[d] = g.Comp[d].Mul(mask)
	}
	return &VectorGrid{Comp: comp}
}

// SubField implements VectorField.
func (g *VectorGrid) SubField(other VectorField) VectorField {
	return g.Sub(other.(*VectorGrid))
}

// ExtrapolateValidField implements VectorField. Every component is filled
// against the matching component of valid.
func (g *VectorGrid) ExtrapolateValidField(valid VectorField, steps int) (VectorField, VectorField) {
	vmask := valid.(*VectorGrid)
	outComp := make([]*CenteredGrid, len(g.Comp))
	newComp := make([]*CenteredGrid, len(g.Comp))
	for d := range g.Comp {
		outComp[d], newComp[d] = ExtrapolateValid(g.Comp[d], vmask.Comp[d], steps)
	}
	return &VectorGrid{Comp: outComp}, &VectorGrid{Comp: newComp}
}
