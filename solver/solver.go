/*package solver provides the iterative linear solver behind the pressure
projection, its configuration, and the adjoint-rule mechanism used to
override reverse-mode derivatives of solver outputs.
*/
package solver

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/mlandau/gridflow"
	"github.com/mlandau/gridflow/field"
)

const defaultMaxIterations = 1000

// Solve configures a linear solve: the method, the tolerance budget, an
// optional initial guess, and the configuration of the backward solve used
// when differentiating through the result.
type Solve struct {
	// Method selects the algorithm. "auto" and "CG" both run conjugate
	// gradients, the only method implemented.
	Method string

	// The solve stops once the residual norm drops below
	// max(AbsTol, RelTol * |rhs|).
	RelTol, AbsTol float64

	// MaxIterations caps the iteration count; 0 means the default of 1000.
	MaxIterations int

	// X0 is the initial guess. When nil the solve starts from a zero grid
	// shaped like the right-hand side; callers that need a different
	// boundary policy on the solution set X0 explicitly.
	X0 *field.CenteredGrid

	// Adjoints optionally carries named overrides for the backward rules of
	// operations built on this solve. An operation with a custom reverse-mode
	// derivative looks its rule name up here and prefers a registered rule
	// over its default.
	Adjoints *Registry

	// Gradient configures the backward solve. Nil means the same settings
	// as the forward solve.
	Gradient *Solve
}

// NewSolve returns a Solve with the given tolerances and default budget.
func NewSolve(method string, relTol, absTol float64) *Solve {
	return &Solve{
		Method: method, RelTol: relTol, AbsTol: absTol,
		Gradient: &Solve{Method: method, RelTol: relTol, AbsTol: absTol},
	}
}

// ConvergenceError reports a linear solve that exhausted its iteration
// budget before reaching the configured tolerance.
type ConvergenceError struct {
	Method     string
	Iterations int
	Residual   float64
	Tolerance  float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf(
		"%s solve did not converge within %d iterations: residual %g, tolerance %g.",
		e.Method, e.Iterations, e.Residual, e.Tolerance,
	)
}

// SolveLinear solves op(x) = rhs for x with a matrix-free conjugate gradient
// iteration. op must be linear in its argument and act on grids shaped like
// rhs; batch entries are independent blocks of the same operator. The
// returned count is the number of iterations used. A solve that does not
// reach its tolerance returns a *ConvergenceError, never a partial result.
func SolveLinear(op func(*field.CenteredGrid) *field.CenteredGrid, rhs *field.CenteredGrid, solve *Solve) (*field.CenteredGrid, int, error) {
	switch solve.Method {
	case "", "auto", "CG":
	default:
		return nil, 0, gridflow.Preconditionf(
			"Unknown linear solve method %q; only \"auto\" and \"CG\" are implemented.",
			solve.Method,
		)
	}
	base := solve.X0
	if base == nil {
		base = field.NewCenteredGrid(rhs.Bounds, rhs.Res, rhs.Extrap, rhs.Batch)
	}
	apply := func(v []float64) []float64 {
		return op(base.WithValues(v)).Values
	}

	maxIter := solve.MaxIterations
	if maxIter <= 0 {
		maxIter = defaultMaxIterations
	}
	tol := solve.RelTol * floats.Norm(rhs.Values, 2)
	if solve.AbsTol > tol {
		tol = solve.AbsTol
	}

	x := make([]float64, len(base.Values))
	copy(x, base.Values)
	r := make([]float64, len(rhs.Values))
	copy(r, rhs.Values)
	floats.Sub(r, apply(x))
	if floats.Norm(r, 2) <= tol {
		return base.WithValues(x), 0, nil
	}

	p := make([]float64, len(r))
	copy(p, r)
	rr := floats.Dot(r, r)
	residual := floats.Norm(r, 2)
	for i := 1; i <= maxIter; i++ {
		ap := apply(p)
		pap := floats.Dot(p, ap)
		if pap == 0 {
			return nil, i, &ConvergenceError{
				Method: "CG", Iterations: i, Residual: residual, Tolerance: tol,
			}
		}
		alpha := rr / pap
		floats.AddScaled(x, alpha, p)
		floats.AddScaled(r, -alpha, ap)
		residual = floats.Norm(r, 2)
		if residual <= tol {
			return base.WithValues(x), i, nil
		}
		rrNew := floats.Dot(r, r)
		beta := rrNew / rr
		rr = rrNew
		floats.Scale(beta, p)
		floats.Add(p, r)
	}
	return nil, maxIter, &ConvergenceError{
		Method: "CG", Iterations: maxIter, Residual: residual, Tolerance: tol,
	}
}
