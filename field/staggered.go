package field

import (
	"gonum.org/v1/gonum/floats"

	"github.com/mlandau/gridflow/geom"
)

// StaggeredGrid is a vector field storing each component at the face centers
// perpendicular to its axis: component d has Res[d]+1 samples along axis d
// and Res[a] samples along every other axis a.
type StaggeredGrid struct {
	Bounds *geom.Box
	Res    []int
	Extrap Extrapolation
	Batch  int
	Comp   [][]float64
}

// NewStaggeredGrid creates a zero-valued staggered grid.
func NewStaggeredGrid(bounds *geom.Box, res []int, extrap Extrapolation, batch int) *StaggeredGrid {
	if len(res) != bounds.Rank() {
		panic("Grid resolution rank does not match its bounds.")
	}
	if batch < 1 {
		batch = 1
	}
	g := &StaggeredGrid{
		Bounds: bounds, Res: res, Extrap: extrap, Batch: batch,
		Comp: make([][]float64, len(res)),
	}
	for d := range g.Comp {
		g.Comp[d] = make([]float64, batch*g.FaceCells(d))
	}
	return g
}

func (g *StaggeredGrid) Rank() int                    { return len(g.Res) }
func (g *StaggeredGrid) Resolution() []int            { return g.Res }
func (g *StaggeredGrid) Extrapolation() Extrapolation { return g.Extrap }
func (g *StaggeredGrid) BatchSize() int               { return g.Batch }

// FaceRes returns the resolution of the face grid of component d.
func (g *StaggeredGrid) FaceRes(d int) []int {
	res := make([]int, len(g.Res))
	copy(res, g.Res)
	res[d]++
	return res
}

// FaceCells returns the number of face samples of component d per batch
// entry.
func (g *StaggeredGrid) FaceCells(d int) int {
	n := 1
	for a, r := range g.Res {
		if a == d {
			r++
		}
		n *= r
	}
	return n
}

func (g *StaggeredGrid) Dx() []float64 {
	dx := g.Bounds.Size()
	for d := range dx {
		dx[d] /= float64(g.Res[d])
	}
	return dx
}

func (g *StaggeredGrid) Clone() *StaggeredGrid {
	out := *g
	out.Comp = make([][]float64, len(g.Comp))
	for d := range g.Comp {
		out.Comp[d] = make([]float64, len(g.Comp[d]))
		copy(out.Comp[d], g.Comp[d])
	}
	return &out
}

// CompAt returns the value of component d at the face multi-index idx of
// batch entry b, resolving out-of-range indices through the grid's
// extrapolation. Under Periodic, face Res[d] along axis d aliases face 0.
func (g *StaggeredGrid) CompAt(b, d int, idx []int) float64 {
	flat := 0
	for a, i := range idx {
		n := g.Res[a]
		faceN := n
		if a == d {
			faceN++
		}
		if i < 0 || i >= faceN {
			switch g.Extrap {
			case Periodic:
				i = ((i % n) + n) % n
			case Boundary:
				if i < 0 {
					i = 0
				} else {
					i = faceN - 1
				}
			default:
				return 0
			}
		}
		flat = flat*faceN + i
	}
	return g.Comp[d][b*g.FaceCells(d)+flat]
}

// SetComp assigns component d at an in-range face multi-index.
func (g *StaggeredGrid) SetComp(b, d int, idx []int, v float64) {
	flat := 0
	for a, i := range idx {
		n := g.Res[a]
		if a == d {
			n++
		}
		flat = flat*n + i
	}
	g.Comp[d][b*g.FaceCells(d)+flat] = v
}

// SyncSeams copies the face at index 0 along each component's own axis onto
// its stored alias at index Res[d]. A periodic staggered grid holds that seam
// face twice; writers that accumulate into wrapped indices call this so both
// copies agree. Grids with other extrapolations are left alone.
func (g *StaggeredGrid) SyncSeams() {
	if g.Extrap != Periodic {
		return
	}
	rank := g.Rank()
	idx := make([]int, rank)
	for d := 0; d < rank; d++ {
		faceRes := g.FaceRes(d)
		fc := g.FaceCells(d)
		for b := 0; b < g.Batch; b++ {
			for i := 0; i < fc; i++ {
				unravel(i, faceRes, idx)
				if idx[d] != 0 {
					continue
				}
				v := g.Comp[d][b*fc+i]
				idx[d] = g.Res[d]
				g.SetComp(b, d, idx, v)
				idx[d] = 0
			}
		}
	}
}

// FaceCenter writes the world-space position of the face sample of component
// d at idx into out.
func (g *StaggeredGrid) FaceCenter(d int, idx []int, out []float64) {
	dx := g.Dx()
	for a := range idx {
		off := 0.5
		if a == d {
			off = 0
		}
		out[a] = g.Bounds.Lower[a] + (float64(idx[a])+off)*dx[a]
	}
}

// Sample writes the interpolated velocity vector at the world-space point pt
// for batch entry b into out. Each component is interpolated on its own
// face grid.
func (g *StaggeredGrid) Sample(b int, pt []float64, out []float64) {
	dx := g.Dx()
	u := make([]float64, len(pt))
	for d := range g.Comp {
		for a := range pt {
			off := 0.5
			if a == d {
				off = 0
			}
			u[a] = (pt[a]-g.Bounds.Lower[a])/dx[a] - off
		}
		out[d] = sampleLinear(u, func(idx []int) float64 { return g.CompAt(b, d, idx) })
	}
}

// Add returns the elementwise sum with o.
func (g *StaggeredGrid) Add(o *StaggeredGrid) *StaggeredGrid {
	out := g.Clone()
	for d := range out.Comp {
		floats.Add(out.Comp[d], o.Comp[d])
	}
	return out
}

// Sub returns the elementwise difference with o.
func (g *StaggeredGrid) Sub(o *StaggeredGrid) *StaggeredGrid {
	out := g.Clone()
	for d := range out.Comp {
		floats.Sub(out.Comp[d], o.Comp[d])
	}
	return out
}

// Mul returns the elementwise (Hadamard) product with o, commonly a face
// mask.
func (g *StaggeredGrid) Mul(o *StaggeredGrid) *StaggeredGrid {
	out := g.Clone()
	for d := range out.Comp {
		floats.Mul(out.Comp[d], o.Comp[d])
	}
	return out
}

// Scale returns the grid scaled by s.
func (g *StaggeredGrid) Scale(s float64) *StaggeredGrid {
	out := g.Clone()
	for d := range out.Comp {
		floats.Scale(s, out.Comp[d])
	}
	return out
}

// SubField implements VectorField.
func (g *StaggeredGrid) SubField(other VectorField) VectorField {
	return g.Sub(other.(*StaggeredGrid))
}

// ExtrapolateValidField implements VectorField.
func (g *StaggeredGrid) ExtrapolateValidField(valid VectorField, steps int) (VectorField, VectorField) {
	return ExtrapolateValidStaggered(g, valid.(*StaggeredGrid), steps)
}
