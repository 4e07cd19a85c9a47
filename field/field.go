/*package field provides sampled scalar and vector fields over centered and
staggered grid layouts, the differential operators defined on them, and the
particle clouds that exchange values with them.

Grids carry an explicit batch count: values of independent simulation
instances are stored batch-major and every operation applies per batch entry
independently.
*/
package field

import (
	"math"
)

// Grid is the interface shared by all discretized fields.
type Grid interface {
	Rank() int
	Resolution() []int
	Extrapolation() Extrapolation
	BatchSize() int
}

// VectorField is a vector-valued grid. The two concrete layouts are
// VectorGrid (all components sampled at cell centers) and StaggeredGrid
// (components sampled at face centers). Callers select the layout
// explicitly; mixing layouts in one operation is a contract violation.
type VectorField interface {
	Grid

	// Sample writes the interpolated vector at pt for batch entry b into out.
	Sample(b int, pt []float64, out []float64)

	// SubField returns the elementwise difference with other, which must
	// have the same concrete layout and shape.
	SubField(other VectorField) VectorField

	// ExtrapolateValidField fills cells marked invalid by valid from the
	// mean of their valid neighbors, up to steps hops. It returns the
	// filled field and the updated validity mask.
	ExtrapolateValidField(valid VectorField, steps int) (VectorField, VectorField)
}

// SameKind reports whether a and b share a concrete grid layout and shape.
func SameKind(a, b Grid) bool {
	switch a.(type) {
	case *StaggeredGrid:
		if _, ok := b.(*StaggeredGrid); !ok {
			return false
		}
	case *VectorGrid:
		if _, ok := b.(*VectorGrid); !ok {
			return false
		}
	case *CenteredGrid:
		if _, ok := b.(*CenteredGrid); !ok {
			return false
		}
	default:
		return false
	}
	if a.Rank() != b.Rank() || a.BatchSize() != b.BatchSize() {
		return false
	}
	ra, rb := a.Resolution(), b.Resolution()
	for d := range ra {
		if ra[d] != rb[d] {
			return false
		}
	}
	return true
}

func prod(res []int) int {
	n := 1
	for _, r := range res {
		n *= r
	}
	return n
}

// unravel writes the multi-index of flat index i on a grid with the given
// resolution into idx (row-major, last axis fastest).
func unravel(i int, res []int, idx []int) {
	for d := len(res) - 1; d >= 0; d-- {
		idx[d] = i % res[d]
		i /= res[d]
	}
}

// sampleLinear performs multilinear interpolation at the grid-space
// coordinate u, fetching grid values through at.
func sampleLinear(u []float64, at func(idx []int) float64) float64 {
	rank := len(u)
	i0 := make([]int, rank)
	frac := make([]float64, rank)
	for d, x := range u {
		f := math.Floor(x)
		i0[d] = int(f)
		frac[d] = x - f
	}
	idx := make([]int, rank)
	var sum float64
	for corner := 0; corner < 1<<uint(rank); corner++ {
		w := 1.0
		for d := 0; d < rank; d++ {
			if corner&(1<<uint(d)) != 0 {
				idx[d] = i0[d] + 1
				w *= frac[d]
			} else {
				idx[d] = i0[d]
				w *= 1 - frac[d]
			}
		}
		if w != 0 {
			sum += w * at(idx)
		}
	}
	return sum
}
