package field

import (
	"math"

	"github.com/mlandau/gridflow/geom"
)

// Cloud is an ordered collection of particle positions with an associated
// vector value per particle, commonly a velocity. Clouds are immutable:
// updates go through WithValues and WithPoints, which return new clouds.
//
// A batched cloud holds Batch independent instances of Len() particles each,
// laid out batch-major in Points and Values.
type Cloud struct {
	Batch  int
	Points [][]float64
	Values [][]float64
	Radius float64
	Bounds *geom.Box
}

// NewCloud creates an unbatched cloud. values may be nil for a cloud that
// only carries positions.
func NewCloud(points, values [][]float64, radius float64, bounds *geom.Box) *Cloud {
	return NewBatchedCloud(1, points, values, radius, bounds)
}

// NewBatchedCloud creates a cloud of batch independent instances sharing one
// backing slice.
func NewBatchedCloud(batch int, points, values [][]float64, radius float64, bounds *geom.Box) *Cloud {
	if batch < 1 {
		batch = 1
	}
	if len(points)%batch != 0 {
		panic("Particle count is not divisible by the batch count.")
	}
	if values != nil && len(values) != len(points) {
		panic("Particle values and positions have different lengths.")
	}
	return &Cloud{Batch: batch, Points: points, Values: values, Radius: radius, Bounds: bounds}
}

// Len returns the number of particles per batch entry.
func (c *Cloud) Len() int { return len(c.Points) / c.Batch }

func (c *Cloud) Rank() int {
	if len(c.Points) == 0 {
		return 0
	}
	return len(c.Points[0])
}

// WithValues returns a cloud with the same positions carrying new values.
func (c *Cloud) WithValues(values [][]float64) *Cloud {
	if len(values) != len(c.Points) {
		panic("Particle values and positions have different lengths.")
	}
	out := *c
	out.Values = values
	return &out
}

// WithPoints returns a cloud with the same values at new positions, rebuilt
// around spheres of the given radius.
func (c *Cloud) WithPoints(points [][]float64, radius float64) *Cloud {
	if len(points) != len(c.Points) {
		panic("New positions have a different particle count.")
	}
	out := *c
	out.Points = points
	out.Radius = radius
	return &out
}

// cell writes the cell index containing pt into idx. Points past the domain
// edge wrap under periodic boundaries and clamp to the edge cell otherwise.
func cell(pt, lower, dx []float64, res []int, periodic bool, idx []int) {
	for d := range pt {
		i := int(math.Floor((pt[d] - lower[d]) / dx[d]))
		if periodic {
			i = ((i % res[d]) + res[d]) % res[d]
		} else if i < 0 {
			i = 0
		} else if i >= res[d] {
			i = res[d] - 1
		}
		idx[d] = i
	}
}

// OccupancyCentered rasterizes the cloud onto a centered grid: 1 in every
// cell containing at least one particle, 0 elsewhere.
func (c *Cloud) OccupancyCentered(bounds *geom.Box, res []int, extrap Extrapolation) *CenteredGrid {
	out := NewCenteredGrid(bounds, res, extrap, c.Batch)
	dx := out.Dx()
	n := c.Len()
	periodic := extrap == Periodic
	idx := make([]int, len(res))
	for p, pt := range c.Points {
		b := p / n
		cell(pt, bounds.Lower, dx, res, periodic, idx)
		out.Set(b, idx, 1)
	}
	return out
}

// OccupancyStaggered rasterizes the cloud onto a staggered grid: 1 on every
// face of a cell containing at least one particle. Under periodic boundaries
// the duplicated seam face is marked on both stored copies.
func (c *Cloud) OccupancyStaggered(bounds *geom.Box, res []int, extrap Extrapolation) *StaggeredGrid {
	out := NewStaggeredGrid(bounds, res, extrap, c.Batch)
	dx := out.Dx()
	rank := len(res)
	n := c.Len()
	periodic := extrap == Periodic
	idx := make([]int, rank)
	fIdx := make([]int, rank)
	for p, pt := range c.Points {
		b := p / n
		cell(pt, bounds.Lower, dx, res, periodic, idx)
		for d := 0; d < rank; d++ {
			copy(fIdx, idx)
			out.SetComp(b, d, fIdx, 1)
			fIdx[d]++
			if periodic && fIdx[d] == res[d] {
				fIdx[d] = 0
			}
			out.SetComp(b, d, fIdx, 1)
		}
	}
	out.SyncSeams()
	return out
}
