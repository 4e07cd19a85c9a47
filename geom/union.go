package geom

import (
	"math"

	"github.com/mlandau/gridflow"
)

// Union combines geometries: its indicator is the pointwise maximum of the
// member indicators.
type Union struct {
	geoms []Geometry
}

// NewUnion combines the given geometries. All members must share the same
// rank; the union of zero geometries is valid and empty everywhere.
func NewUnion(geoms ...Geometry) (*Union, error) {
	if len(geoms) == 0 {
		return &Union{}, nil
	}
	for _, g := range geoms[1:] {
		if g.Rank() != geoms[0].Rank() {
			return nil, gridflow.Preconditionf(
				"Union members have ranks %d and %d; all members must share a rank.",
				geoms[0].Rank(), g.Rank(),
			)
		}
	}
	return &Union{geoms: geoms}, nil
}

func (u *Union) Geometries() []Geometry { return u.geoms }

func (u *Union) Rank() int {
	if len(u.geoms) == 0 {
		return 0
	}
	return u.geoms[0].Rank()
}

func (u *Union) ValueAt(points [][]float64) []float64 {
	vals := make([]float64, len(points))
	for _, g := range u.geoms {
		for i, v := range g.ValueAt(points) {
			if v > vals[i] {
				vals[i] = v
			}
		}
	}
	return vals
}

func (u *Union) SignedDistance(pt []float64) float64 {
	min := math.Inf(1)
	for _, g := range u.geoms {
		if d := g.SignedDistance(pt); d < min {
			min = d
		}
	}
	return min
}

// Push applies every member push in order. Later members can push points
// back into earlier ones when regions overlap; this is an accepted
// approximation rather than a simultaneous multi-constraint solve.
func (u *Union) Push(points [][]float64, shift float64) [][]float64 {
	out := copyPoints(points)
	for _, g := range u.geoms {
		out = g.Push(out, shift)
	}
	return out
}
