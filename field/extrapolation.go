package field

// Extrapolation is the boundary-fill policy of a grid: the value of samples
// past the domain edge.
type Extrapolation int

const (
	// Zero pads with zeros (open, zero-Dirichlet boundary).
	Zero Extrapolation = iota
	// Boundary replicates the edge value (closed, zero-Neumann boundary).
	Boundary
	// Periodic wraps around the domain.
	Periodic
)

func (e Extrapolation) String() string {
	switch e {
	case Zero:
		return "zero"
	case Boundary:
		return "boundary"
	case Periodic:
		return "periodic"
	}
	return "unknown"
}

// Gradient returns the extrapolation of the spatial gradient of a field with
// extrapolation e: constant boundary values have zero gradient, periodic
// stays periodic.
func (e Extrapolation) Gradient() Extrapolation {
	if e == Periodic {
		return Periodic
	}
	return Zero
}

// Pressure returns the extrapolation of the pressure field matching a
// velocity field with extrapolation e: periodic stays periodic, closed
// velocity walls (Zero) pair with replicated pressure, and open velocity
// boundaries (Boundary) pair with zero-Dirichlet pressure.
func (e Extrapolation) Pressure() Extrapolation {
	switch e {
	case Zero:
		return Boundary
	case Boundary:
		return Zero
	}
	return Periodic
}
