/*package flip runs fluid implicit particle (FLIP) and particle-in-cell
(PIC) simulations: pressure projection of a staggered velocity field,
transfer of the projected velocities back onto particles, and boundary
enforcement for particles that drifted into obstacles or out of the domain.
*/
package flip

import (
	"log"
	"math"
	"sync"

	"github.com/mlandau/gridflow"
	"github.com/mlandau/gridflow/field"
	"github.com/mlandau/gridflow/geom"
	"github.com/mlandau/gridflow/solver"
)

// Obstacle is a geometry annotated as impassable. It satisfies
// geom.Geometry by delegation, so obstacles can be handed directly to
// RespectBoundaries.
type Obstacle struct {
	Geometry geom.Geometry
}

func NewObstacle(g geom.Geometry) Obstacle { return Obstacle{Geometry: g} }

func (o Obstacle) Rank() int                           { return o.Geometry.Rank() }
func (o Obstacle) ValueAt(points [][]float64) []float64 { return o.Geometry.ValueAt(points) }
func (o Obstacle) SignedDistance(pt []float64) float64 { return o.Geometry.SignedDistance(pt) }
func (o Obstacle) Push(points [][]float64, shift float64) [][]float64 {
	return o.Geometry.Push(points, shift)
}

// Projection is the result of a pressure projection.
type Projection struct {
	// Velocity is the divergence-free velocity field.
	Velocity *field.StaggeredGrid
	// Pressure is the solved pressure field.
	Pressure *field.CenteredGrid
	// Occupied marks the faces of particle-occupied cells; the velocity
	// transfer step needs it.
	Occupied *field.StaggeredGrid
	// Divergence is the divergence of the input velocity restricted to
	// occupied cells, the right-hand side of the pressure solve.
	Divergence *field.CenteredGrid
	// Iterations is the number of linear-solver iterations used.
	Iterations int
	// Adjoint is the reverse-mode rule for the pressure: its backward pass
	// re-masks incoming gradients by the cell occupancy.
	Adjoint *solver.Adjoint
}

// MakeIncompressible projects velocity onto its divergence-free part by
// solving for the pressure and subtracting its gradient, respecting the
// given obstacles. particles marks the wet cells; only their divergence
// enters the pressure equation. Obstacle and occupancy masks are rebuilt
// from scratch on every call.
func MakeIncompressible(velocity *field.StaggeredGrid, particles *field.Cloud, obstacles []Obstacle, solve *solver.Solve) (*Projection, error) {
	geoms := make([]geom.Geometry, len(obstacles))
	for i, o := range obstacles {
		geoms[i] = o.Geometry
	}
	accessible, err := accessibleStaggered(geoms, velocity)
	if err != nil {
		return nil, err
	}
	return MakeIncompressibleMasked(velocity, particles, accessible, solve)
}

// MakeIncompressibleMasked is MakeIncompressible with a precomputed
// staggered accessibility mask: 1 on faces flow may pass, 0 on blocked
// faces. The mask must match the velocity grid's shape.
func MakeIncompressibleMasked(velocity *field.StaggeredGrid, particles *field.Cloud, accessible *field.StaggeredGrid, solve *solver.Solve) (*Projection, error) {
	if !field.SameKind(velocity, accessible) {
		return nil, gridflow.Preconditionf(
			"The accessibility mask must be a staggered grid matching the velocity grid's shape.",
		)
	}
	if particles.Batch != velocity.Batch {
		return nil, gridflow.Preconditionf(
			"Particle batch count %d does not match the velocity grid's %d.",
			particles.Batch, velocity.Batch,
		)
	}
	if particles.Rank() != velocity.Rank() {
		return nil, gridflow.Preconditionf(
			"Particle rank %d does not match the velocity grid's rank %d.",
			particles.Rank(), velocity.Rank(),
		)
	}

	occCentered := particles.OccupancyCentered(velocity.Bounds, velocity.Res, velocity.Extrap.Gradient())
	occStaggered := particles.OccupancyStaggered(velocity.Bounds, velocity.Res, velocity.Extrap)

	// Extrapolating one cell outward keeps divergence at the border of the
	// occupied region out of the pressure equation: single particles moving
	// into a new cell would otherwise deform the occupancy mask and get
	// compensated by spurious pressure.
	velField, _ := field.ExtrapolateValidStaggered(velocity.Mul(occStaggered), occStaggered, 1)
	velField = velField.Mul(accessible)
	div := field.Divergence(velField).Mul(occCentered)

	op := func(p *field.CenteredGrid) *field.CenteredGrid {
		return field.Where(occCentered, field.Divergence(field.Gradient(p).Mul(accessible)), p)
	}
	cfg := *solve
	if cfg.X0 == nil {
		cfg.X0 = field.NewCenteredGrid(
			velocity.Bounds, velocity.Res, velocity.Extrap.Pressure(), velocity.Batch,
		)
	}
	pressure, iters, err := solver.SolveLinear(op, div, &cfg)
	if err != nil {
		return nil, err
	}
	rule := PressureAdjoint(occCentered)
	if solve.Adjoints != nil {
		if custom, ok := solve.Adjoints.Lookup(rule.Name); ok {
			rule = custom
		}
	}
	pressure = rule.Apply(pressure)

	gradP := field.Gradient(pressure).Mul(accessible)
	return &Projection{
		Velocity:   velField.Sub(gradP),
		Pressure:   pressure,
		Occupied:   occStaggered,
		Divergence: div,
		Iterations: iters,
		Adjoint:    rule,
	}, nil
}

// PressureRuleName is the adjoint-registry name of the pressure solve.
// Registering a rule under this name in Solve.Adjoints overrides the default
// occupancy-masked backward pass of MakeIncompressible.
const PressureRuleName = "pressure"

// PressureAdjoint returns the reverse-mode rule of the pressure solve: the
// forward pass is the identity, and the backward pass masks the incoming
// cotangent by the cell occupancy, so pressure gradients propagate only
// through occupied cells. This replaces the solver's natural gradient.
func PressureAdjoint(occupied *field.CenteredGrid) *solver.Adjoint {
	return &solver.Adjoint{
		Name:    PressureRuleName,
		Forward: func(p *field.CenteredGrid) *field.CenteredGrid { return p },
		Backward: func(_, _, dp *field.CenteredGrid) *field.CenteredGrid {
			return dp.Mul(occupied)
		},
	}
}

// accessibleStaggered builds the face accessibility mask of the given
// blocked regions on the velocity grid: the complement indicator sampled at
// cell centers, staggered with a minimum so a face is open only if both
// adjacent cells are. Domain boundary faces are closed unless the velocity
// field is periodic.
func accessibleStaggered(blocked []geom.Geometry, velocity *field.StaggeredGrid) (*field.StaggeredGrid, error) {
	mask, err := field.UnionMask(blocked...)
	if err != nil {
		return nil, err
	}
	if len(blocked) > 0 && mask.Rank() != velocity.Rank() {
		return nil, gridflow.Preconditionf(
			"Obstacle rank %d does not match the velocity grid's rank %d.",
			mask.Rank(), velocity.Rank(),
		)
	}
	open, err := mask.Discretize(velocity.Bounds, velocity.Res, velocity.Extrap.Gradient(), velocity.Batch)
	if err != nil {
		return nil, err
	}
	for i, v := range open.Values {
		open.Values[i] = 1 - v
	}
	extrap := field.Zero
	if velocity.Extrap == field.Periodic {
		extrap = field.Periodic
	}
	return field.Stagger(open, math.Min, extrap), nil
}

// Kind selects a grid layout for AccessibleMask.
type Kind int

const (
	KindCentered Kind = iota
	KindStaggered
)

var accessibleMaskOnce sync.Once

// AccessibleMask unifies blocked regions into a binary mask of the
// requested layout.
//
// Deprecated: build centered masks with field.UnionMask and Discretize, and
// staggered masks by passing obstacles to MakeIncompressible directly.
func AccessibleMask(notAccessible []geom.Geometry, kind Kind, bounds *geom.Box, res []int, extrap field.Extrapolation, batch int) (field.Grid, error) {
	accessibleMaskOnce.Do(func() {
		log.Printf(
			"flip.AccessibleMask is deprecated; build the mask with field.UnionMask " +
				"or pass obstacles to MakeIncompressible directly.",
		)
	})
	mask, err := field.UnionMask(notAccessible...)
	if err != nil {
		return nil, err
	}
	open, err := mask.Discretize(bounds, res, extrap, batch)
	if err != nil {
		return nil, err
	}
	for i, v := range open.Values {
		open.Values[i] = 1 - v
	}
	switch kind {
	case KindCentered:
		return open, nil
	case KindStaggered:
		return field.Stagger(open, math.Min, extrap), nil
	}
	return nil, gridflow.Preconditionf("Unknown grid kind %d.", int(kind))
}
