package geom

import (
	"math"
)

// Box is an axis-aligned box spanning [Lower, Upper] along every axis.
type Box struct {
	Lower, Upper []float64
}

func NewBox(lower, upper []float64) *Box {
	if len(lower) != len(upper) {
		panic("Box lower and upper corners have different lengths.")
	}
	return &Box{Lower: lower, Upper: upper}
}

func (b *Box) Rank() int { return len(b.Lower) }

// Size returns the edge lengths of the box.
func (b *Box) Size() []float64 {
	size := make([]float64, len(b.Lower))
	for i := range size {
		size[i] = b.Upper[i] - b.Lower[i]
	}
	return size
}

// MeanExtent returns the mean edge length.
func (b *Box) MeanExtent() float64 {
	var sum float64
	for i := range b.Lower {
		sum += b.Upper[i] - b.Lower[i]
	}
	return sum / float64(len(b.Lower))
}

func (b *Box) Contains(pt []float64) bool {
	for i := range pt {
		if pt[i] < b.Lower[i] || pt[i] > b.Upper[i] {
			return false
		}
	}
	return true
}

func (b *Box) ValueAt(points [][]float64) []float64 {
	vals := make([]float64, len(points))
	for i, p := range points {
		if b.Contains(p) {
			vals[i] = 1
		}
	}
	return vals
}

// SignedDistance uses the exact Euclidean distance outside the box and the
// distance to the nearest face inside it.
func (b *Box) SignedDistance(pt []float64) float64 {
	inside := math.Inf(-1)
	var outSum float64
	for i := range pt {
		d := math.Max(b.Lower[i]-pt[i], pt[i]-b.Upper[i])
		if d > 0 {
			outSum += d * d
		} else if d > inside {
			inside = d
		}
	}
	if outSum > 0 {
		return math.Sqrt(outSum)
	}
	return inside
}

// Push moves points out through the nearest face.
func (b *Box) Push(points [][]float64, shift float64) [][]float64 {
	out := copyPoints(points)
	for _, p := range out {
		if b.SignedDistance(p) >= shift {
			continue
		}
		// Nearest face: the axis with the smallest distance to either face.
		axis, sign := 0, 1.0
		best := math.Inf(1)
		for i := range p {
			if d := p[i] - b.Lower[i]; d < best {
				best, axis, sign = d, i, -1
			}
			if d := b.Upper[i] - p[i]; d < best {
				best, axis, sign = d, i, 1
			}
		}
		if sign > 0 {
			p[axis] = b.Upper[axis] + shift
		} else {
			p[axis] = b.Lower[axis] - shift
		}
	}
	return out
}

// Complement returns the region outside the box. Pushing against the
// complement moves stray points back into the box.
func (b *Box) Complement() *Complement {
	return &Complement{Box: b}
}

// Complement is the region outside a box, used to keep particles inside the
// simulation domain.
type Complement struct {
	Box *Box
}

func (c *Complement) Rank() int { return c.Box.Rank() }

func (c *Complement) ValueAt(points [][]float64) []float64 {
	vals := c.Box.ValueAt(points)
	for i := range vals {
		vals[i] = 1 - vals[i]
	}
	return vals
}

func (c *Complement) SignedDistance(pt []float64) float64 {
	return -c.Box.SignedDistance(pt)
}

// Push clamps every point into the box eroded by shift.
func (c *Complement) Push(points [][]float64, shift float64) [][]float64 {
	out := copyPoints(points)
	b := c.Box
	for _, p := range out {
		for i := range p {
			if p[i] < b.Lower[i]+shift {
				p[i] = b.Lower[i] + shift
			}
			if p[i] > b.Upper[i]-shift {
				p[i] = b.Upper[i] - shift
			}
		}
	}
	return out
}
