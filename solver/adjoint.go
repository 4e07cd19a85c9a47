package solver

import (
	"fmt"

	"github.com/mlandau/gridflow/field"
)

// Adjoint is a named forward/backward function pair: Forward maps x to y,
// and Backward maps the incoming cotangent dy (together with x and y) to the
// cotangent of x. It replaces the natural reverse-mode derivative of
// Forward wherever the rule is applied.
type Adjoint struct {
	Name     string
	Forward  func(x *field.CenteredGrid) *field.CenteredGrid
	Backward func(x, y, dy *field.CenteredGrid) *field.CenteredGrid
}

// Apply runs the forward function.
func (a *Adjoint) Apply(x *field.CenteredGrid) *field.CenteredGrid {
	return a.Forward(x)
}

// Registry holds named adjoint rules. It is an explicit value handed to the
// code that needs it; there is no process-global registry.
type Registry struct {
	rules map[string]*Adjoint
}

func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]*Adjoint)}
}

// Register adds a rule. Registering a second rule under an existing name is
// an error.
func (r *Registry) Register(rule *Adjoint) error {
	if _, ok := r.rules[rule.Name]; ok {
		return fmt.Errorf("An adjoint rule named %q is already registered.", rule.Name)
	}
	r.rules[rule.Name] = rule
	return nil
}

// Lookup returns the rule registered under name.
func (r *Registry) Lookup(name string) (*Adjoint, bool) {
	rule, ok := r.rules[name]
	return rule, ok
}
