package field

import (
	"github.com/mlandau/gridflow"
	"github.com/mlandau/gridflow/geom"
)

// GeometryMask is an indicator field built from a union of geometries,
// scaled by a constant value. The value may be a vector, giving one field
// component per entry.
type GeometryMask struct {
	geoms []geom.Geometry
	value []float64
}

// NewGeometryMask builds a mask whose sample at a point is the pointwise
// maximum of the member indicators times value. All geometries must share a
// rank.
func NewGeometryMask(value []float64, geoms ...geom.Geometry) (*GeometryMask, error) {
	if len(value) == 0 {
		panic("A geometry mask needs at least one value component.")
	}
	for _, g := range geoms {
		if g.Rank() != geoms[0].Rank() {
			return nil, gridflow.Preconditionf(
				"Mask geometries have ranks %d and %d; all geometries must share a rank.",
				geoms[0].Rank(), g.Rank(),
			)
		}
	}
	return &GeometryMask{geoms: geoms, value: value}, nil
}

// UnionMask builds a scalar unit-valued mask over the given geometries.
func UnionMask(geoms ...geom.Geometry) (*GeometryMask, error) {
	return NewGeometryMask([]float64{1}, geoms...)
}

// Rank returns the rank inherited from the first geometry, or 0 for an
// empty mask.
func (m *GeometryMask) Rank() int {
	if len(m.geoms) == 0 {
		return 0
	}
	return m.geoms[0].Rank()
}

func (m *GeometryMask) ComponentCount() int { return len(m.value) }

// SampleAt evaluates the mask at the query points, returning one vector of
// ComponentCount entries per point. With zero geometries the result is all
// zeros.
func (m *GeometryMask) SampleAt(points [][]float64) [][]float64 {
	out := make([][]float64, len(points))
	for i := range out {
		out[i] = make([]float64, len(m.value))
	}
	if len(m.geoms) == 0 {
		return out
	}
	ind := m.geoms[0].ValueAt(points)
	for _, g := range m.geoms[1:] {
		for i, v := range g.ValueAt(points) {
			if v > ind[i] {
				ind[i] = v
			}
		}
	}
	for i := range out {
		for c, v := range m.value {
			out[i][c] = ind[i] * v
		}
	}
	return out
}

// Unstack splits a vector-valued mask into one scalar mask per component.
func (m *GeometryMask) Unstack() []*GeometryMask {
	out := make([]*GeometryMask, len(m.value))
	for c, v := range m.value {
		out[c] = &GeometryMask{geoms: m.geoms, value: []float64{v}}
	}
	return out
}

// Discretize samples a scalar mask at the cell centers of a centered grid.
func (m *GeometryMask) Discretize(bounds *geom.Box, res []int, extrap Extrapolation, batch int) (*CenteredGrid, error) {
	if len(m.value) != 1 {
		return nil, gridflow.Preconditionf(
			"Only scalar masks can be discretized; this mask has %d components. Unstack it first.",
			len(m.value),
		)
	}
	out := NewCenteredGrid(bounds, res, extrap, batch)
	cells := out.Cells()
	points := make([][]float64, cells)
	idx := make([]int, len(res))
	for i := range points {
		points[i] = make([]float64, len(res))
		unravel(i, res, idx)
		out.CellCenter(idx, points[i])
	}
	vals := m.SampleAt(points)
	for b := 0; b < out.Batch; b++ {
		for i := range vals {
			out.Values[b*cells+i] = vals[i][0]
		}
	}
	return out, nil
}
