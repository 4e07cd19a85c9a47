package flip

import (
	"math"

	"github.com/mlandau/gridflow"
	"github.com/mlandau/gridflow/field"
	"github.com/mlandau/gridflow/geom"
)

// MapVelocityToParticles maps the result of the pressure projection back
// onto particles as a blend of two update rules: PIC replaces particle
// velocities by grid samples of velGrid, FLIP adds the sampled change
// between velGrid and prevGrid to the previous particle velocity.
//
// viscosity is the PIC weight, clamped into [0, 1]; 1-viscosity is the FLIP
// weight. Passing a nil prevGrid forces pure PIC regardless of viscosity.
// occupied must share velGrid's layout; it marks the cells holding
// particles, and both grids are extrapolated one cell past that region
// before sampling so particles near its border see sensible values.
func MapVelocityToParticles(prev *field.Cloud, velGrid, occupied, prevGrid field.VectorField, viscosity float64) (*field.Cloud, error) {
	if prev.Values == nil {
		return nil, gridflow.Preconditionf(
			"The particle cloud must carry velocity values.",
		)
	}
	if !field.SameKind(velGrid, occupied) {
		return nil, gridflow.Preconditionf(
			"The occupancy mask must share the velocity grid's layout and shape.",
		)
	}
	viscosity = math.Min(math.Max(0, viscosity), 1)
	if prevGrid == nil {
		viscosity = 1
	} else if !field.SameKind(velGrid, prevGrid) {
		return nil, gridflow.Preconditionf(
			"The pre-projection grid must share the velocity grid's layout and shape.",
		)
	}

	rank := velGrid.Rank()
	n := prev.Len()
	out := make([][]float64, len(prev.Points))
	for i := range out {
		out[i] = make([]float64, rank)
	}
	buf := make([]float64, rank)

	if viscosity > 0 {
		picGrid, _ := velGrid.ExtrapolateValidField(occupied, 1)
		for p, pt := range prev.Points {
			picGrid.Sample(p/n, pt, buf)
			for d := 0; d < rank; d++ {
				out[p][d] += viscosity * buf[d]
			}
		}
	}
	if viscosity < 1 {
		change, _ := velGrid.SubField(prevGrid).ExtrapolateValidField(occupied, 1)
		for p, pt := range prev.Points {
			change.Sample(p/n, pt, buf)
			for d := 0; d < rank; d++ {
				out[p][d] += (1 - viscosity) * (prev.Values[p][d] + buf[d])
			}
		}
	}
	return prev.WithValues(out), nil
}

// VelocityToGrid rasterizes particle velocities onto a staggered grid by
// multilinear scatter: every particle distributes each velocity component
// over the surrounding face samples of that component, and accumulated
// values are normalized by the accumulated weights.
func VelocityToGrid(particles *field.Cloud, bounds *geom.Box, res []int, extrap field.Extrapolation) *field.StaggeredGrid {
	out := field.NewStaggeredGrid(bounds, res, extrap, particles.Batch)
	wts := field.NewStaggeredGrid(bounds, res, extrap, particles.Batch)
	dx := out.Dx()
	rank := len(res)
	n := particles.Len()
	u := make([]float64, rank)
	i0 := make([]int, rank)
	frac := make([]float64, rank)

	for p, pt := range particles.Points {
		b := p / n
		for d := 0; d < rank; d++ {
			fc := out.FaceCells(d)
			for a := 0; a < rank; a++ {
				off := 0.5
				if a == d {
					off = 0
				}
				u[a] = (pt[a]-bounds.Lower[a])/dx[a] - off
				f := math.Floor(u[a])
				i0[a] = int(f)
				frac[a] = u[a] - f
			}
			for corner := 0; corner < 1<<uint(rank); corner++ {
				w := 1.0
				flat := 0
				ok := true
				for a := 0; a < rank; a++ {
					i := i0[a]
					if corner&(1<<uint(a)) != 0 {
						i++
						w *= frac[a]
					} else {
						w *= 1 - frac[a]
					}
					faceN := res[a]
					if a == d {
						faceN++
					}
					if i < 0 || i >= faceN {
						if extrap == field.Periodic {
							i = ((i % res[a]) + res[a]) % res[a]
						} else {
							ok = false
							break
						}
					}
					flat = flat*faceN + i
				}
				if ok && w > 0 {
					out.Comp[d][b*fc+flat] += w * particles.Values[p][d]
					wts.Comp[d][b*fc+flat] += w
				}
			}
		}
	}
	for d := 0; d < rank; d++ {
		for i, w := range wts.Comp[d] {
			if w > 0 {
				out.Comp[d][i] /= w
			}
		}
	}
	// Periodic scatter wraps all seam weight into face 0; the stored alias
	// at face Res[d] must carry the same value.
	out.SyncSeams()
	return out
}

// Advect moves every particle along its velocity for a time step, returning
// a new cloud.
func Advect(particles *field.Cloud, dt float64) *field.Cloud {
	points := make([][]float64, len(particles.Points))
	for i, pt := range particles.Points {
		points[i] = make([]float64, len(pt))
		for d := range pt {
			points[i][d] = pt[d] + particles.Values[i][d]*dt
		}
	}
	return particles.WithPoints(points, particles.Radius)
}
