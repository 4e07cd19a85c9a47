package field

// Divergence computes the divergence of a staggered velocity field as a
// centered grid: the net outflow of every cell divided by the cell volume.
func Divergence(v *StaggeredGrid) *CenteredGrid {
	out := NewCenteredGrid(v.Bounds, v.Res, v.Extrap.Gradient(), v.Batch)
	dx := v.Dx()
	rank := v.Rank()
	cells := out.Cells()
	idx := make([]int, rank)
	fIdx := make([]int, rank)
	for b := 0; b < v.Batch; b++ {
		for i := 0; i < cells; i++ {
			unravel(i, v.Res, idx)
			var div float64
			for d := 0; d < rank; d++ {
				copy(fIdx, idx)
				lo := v.CompAt(b, d, fIdx)
				fIdx[d]++
				hi := v.CompAt(b, d, fIdx)
				div += (hi - lo) / dx[d]
			}
			out.Values[b*cells+i] = div
		}
	}
	return out
}

// Gradient computes the spatial gradient of a centered scalar field on the
// staggered layout: component d at a face is the difference of the two
// adjacent cells divided by the cell size, with cells past the domain edge
// resolved by the scalar field's extrapolation.
func Gradient(p *CenteredGrid) *StaggeredGrid {
	out := NewStaggeredGrid(p.Bounds, p.Res, p.Extrap.Gradient(), p.Batch)
	dx := p.Dx()
	rank := p.Rank()
	idx := make([]int, rank)
	cIdx := make([]int, rank)
	for d := 0; d < rank; d++ {
		faceRes := out.FaceRes(d)
		fc := out.FaceCells(d)
		for b := 0; b < p.Batch; b++ {
			for i := 0; i < fc; i++ {
				unravel(i, faceRes, idx)
				copy(cIdx, idx)
				hi := p.At(b, cIdx)
				cIdx[d]--
				lo := p.At(b, cIdx)
				out.Comp[d][b*fc+i] = (hi - lo) / dx[d]
			}
		}
	}
	return out
}

// GradientCentered computes the spatial gradient of a centered scalar field
// on the centered layout using central differences.
func GradientCentered(p *CenteredGrid) *VectorGrid {
	out := NewVectorGrid(p.Bounds, p.Res, p.Extrap.Gradient(), p.Batch)
	dx := p.Dx()
	rank := p.Rank()
	cells := p.Cells()
	idx := make([]int, rank)
	nIdx := make([]int, rank)
	for b := 0; b < p.Batch; b++ {
		for i := 0; i < cells; i++ {
			unravel(i, p.Res, idx)
			for d := 0; d < rank; d++ {
				copy(nIdx, idx)
				nIdx[d]++
				hi := p.At(b, nIdx)
				nIdx[d] -= 2
				lo := p.At(b, nIdx)
				out.Comp[d].Values[b*cells+i] = (hi - lo) / (2 * dx[d])
			}
		}
	}
	return out
}

// Stagger builds a staggered grid from a centered one: every face takes
// reduce of the two adjacent cell values. Cells past the domain edge are
// resolved through extrap rather than the centered grid's own policy, so an
// accessibility mask staggered with Zero blocks the domain boundary faces.
func Stagger(c *CenteredGrid, reduce func(a, b float64) float64, extrap Extrapolation) *StaggeredGrid {
	out := NewStaggeredGrid(c.Bounds, c.Res, extrap, c.Batch)
	rank := c.Rank()
	idx := make([]int, rank)
	cIdx := make([]int, rank)
	for d := 0; d < rank; d++ {
		faceRes := out.FaceRes(d)
		fc := out.FaceCells(d)
		for b := 0; b < c.Batch; b++ {
			for i := 0; i < fc; i++ {
				unravel(i, faceRes, idx)
				copy(cIdx, idx)
				hi := c.atExtrap(b, cIdx, extrap)
				cIdx[d]--
				lo := c.atExtrap(b, cIdx, extrap)
				out.Comp[d][b*fc+i] = reduce(lo, hi)
			}
		}
	}
	return out
}

// ExtrapolateValid fills cells invalid under valid with the mean of their
// valid face neighbors, repeating for steps hops. It returns the filled grid
// and the updated validity mask; cells that no hop could reach keep their
// original value and stay invalid.
func ExtrapolateValid(g, valid *CenteredGrid, steps int) (*CenteredGrid, *CenteredGrid) {
	out, vmask := g.Clone(), valid.Clone()
	rank := g.Rank()
	cells := g.Cells()
	idx := make([]int, rank)
	nIdx := make([]int, rank)
	for s := 0; s < steps; s++ {
		src, srcValid := out.Clone(), vmask.Clone()
		for b := 0; b < g.Batch; b++ {
			for i := 0; i < cells; i++ {
				if srcValid.Values[b*cells+i] > 0 {
					continue
				}
				unravel(i, g.Res, idx)
				var sum float64
				count := 0
				for d := 0; d < rank; d++ {
					for _, off := range [2]int{-1, 1} {
						copy(nIdx, idx)
						nIdx[d] += off
						if srcValid.At(b, nIdx) > 0 {
							sum += src.At(b, nIdx)
							count++
						}
					}
				}
				if count > 0 {
					out.Values[b*cells+i] = sum / float64(count)
					vmask.Values[b*cells+i] = 1
				}
			}
		}
	}
	return out, vmask
}

// ExtrapolateValidStaggered is ExtrapolateValid on every face grid of a
// staggered field.
func ExtrapolateValidStaggered(g, valid *StaggeredGrid, steps int) (*StaggeredGrid, *StaggeredGrid) {
	out, vmask := g.Clone(), valid.Clone()
	rank := g.Rank()
	idx := make([]int, rank)
	nIdx := make([]int, rank)
	for s := 0; s < steps; s++ {
		src, srcValid := out.Clone(), vmask.Clone()
		for d := 0; d < rank; d++ {
			faceRes := out.FaceRes(d)
			fc := out.FaceCells(d)
			for b := 0; b < g.Batch; b++ {
				for i := 0; i < fc; i++ {
					if srcValid.Comp[d][b*fc+i] > 0 {
						continue
					}
					unravel(i, faceRes, idx)
					var sum float64
					count := 0
					for a := 0; a < rank; a++ {
						for _, off := range [2]int{-1, 1} {
							copy(nIdx, idx)
							nIdx[a] += off
							if srcValid.CompAt(b, d, nIdx) > 0 {
								sum += src.CompAt(b, d, nIdx)
								count++
							}
						}
					}
					if count > 0 {
						out.Comp[d][b*fc+i] = sum / float64(count)
						vmask.Comp[d][b*fc+i] = 1
					}
				}
			}
		}
	}
	return out, vmask
}
