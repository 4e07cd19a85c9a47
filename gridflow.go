/*package gridflow is a toolkit for grid- and particle-based incompressible
fluid simulation.

The heavy lifting lives in the subpackages: geom provides shape primitives
and point queries, field provides centered and staggered grids together with
the differential operators defined on them, solver provides the iterative
linear solver used by the pressure projection, and flip combines them into
the PIC/FLIP pipeline (pressure projection, grid-particle velocity transfer,
and boundary enforcement).
*/
package gridflow

import (
	"fmt"
)

// PreconditionError reports that a caller violated an input contract, such
// as passing a particle cloud without bounds to boundary enforcement or
// combining geometries of different rank.
type PreconditionError struct {
	Msg string
}

func (e *PreconditionError) Error() string { return e.Msg }

// Preconditionf creates a PreconditionError with a formatted message.
func Preconditionf(format string, args ...interface{}) *PreconditionError {
	return &PreconditionError{Msg: fmt.Sprintf(format, args...)}
}
