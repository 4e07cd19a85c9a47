package flip

import (
	"github.com/mlandau/gridflow"
	"github.com/mlandau/gridflow/field"
	"github.com/mlandau/gridflow/geom"
)

// RespectBoundaries corrects particles that the advection step carried into
// obstacles or out of the domain: every listed region pushes its particles
// at least offset outside its surface, in order, and the domain boundary
// finally pushes strays back inside by the same offset. Later pushes can
// undo earlier ones where regions overlap; this is an accepted
// approximation rather than a simultaneous multi-constraint solve.
//
// The cloud is rebuilt around spheres with a radius of 0.5% of the mean
// domain extent. A cloud without bounds is a contract violation.
func RespectBoundaries(particles *field.Cloud, notAccessible []geom.Geometry, offset float64) (*field.Cloud, error) {
	if particles.Bounds == nil {
		return nil, gridflow.Preconditionf(
			"RespectBoundaries requires a particle cloud with explicit bounds.",
		)
	}
	positions := particles.Points
	for _, g := range notAccessible {
		positions = g.Push(positions, offset)
	}
	positions = particles.Bounds.Complement().Push(positions, offset)
	return particles.WithPoints(positions, particles.Bounds.MeanExtent()*0.005), nil
}
