/*package geom contains shape primitives and the point queries the fluid
solver needs: inside/outside indicator evaluation, signed distance to the
surface, and "push" operations that displace points out of a shape by a
margin.

All shapes are rank-generic: points are []float64 slices whose length is the
rank of the shape they are tested against.
*/
package geom

import (
	"math"
)

// Geometry is an immutable shape descriptor.
type Geometry interface {
	// Rank returns the spatial dimensionality of the shape.
	Rank() int

	// ValueAt returns the inside indicator of every point: 1 inside the
	// shape, 0 outside.
	ValueAt(points [][]float64) []float64

	// SignedDistance returns the distance from pt to the shape's surface,
	// negative inside.
	SignedDistance(pt []float64) float64

	// Push returns a copy of points where every point closer than shift to
	// the surface (including points inside the shape) has been displaced to
	// lie at least shift outside the surface.
	Push(points [][]float64, shift float64) [][]float64
}

func copyPoints(points [][]float64) [][]float64 {
	out := make([][]float64, len(points))
	for i, p := range points {
		out[i] = make([]float64, len(p))
		copy(out[i], p)
	}
	return out
}

func dist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
