package geom

// Sphere is a hypersphere of the rank given by the length of its center.
type Sphere struct {
	Center []float64
	R      float64
}

func NewSphere(center []float64, r float64) *Sphere {
	return &Sphere{Center: center, R: r}
}

func (s *Sphere) Rank() int { return len(s.Center) }

func (s *Sphere) ValueAt(points [][]float64) []float64 {
	vals := make([]float64, len(points))
	for i, p := range points {
		if dist(p, s.Center) <= s.R {
			vals[i] = 1
		}
	}
	return vals
}

func (s *Sphere) SignedDistance(pt []float64) float64 {
	return dist(pt, s.Center) - s.R
}

// Push displaces points radially. A point sitting exactly at the center is
// pushed along the first axis.
func (s *Sphere) Push(points [][]float64, shift float64) [][]float64 {
	out := copyPoints(points)
	target := s.R + shift
	for _, p := range out {
		d := dist(p, s.Center)
		if d >= target {
			continue
		}
		if d == 0 {
			p[0] = s.Center[0] + target
			for j := 1; j < len(p); j++ {
				p[j] = s.Center[j]
			}
			continue
		}
		scale := target / d
		for j := range p {
			p[j] = s.Center[j] + (p[j]-s.Center[j])*scale
		}
	}
	return out
}
