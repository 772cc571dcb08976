package transfer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/paraxial/internal/beam"
	"github.com/san-kum/paraxial/internal/integrators"
)

// Method names a step-matrix discretization.
type Method string

const (
	Midpoint      Method = "midpoint"
	ImplicitEuler Method = "implicit_euler"
	ConstantField Method = "constant_field"
	RK4           Method = "rk4"
)

// DefaultMethod is used when no method is named.
const DefaultMethod = Midpoint

// MethodError reports a method name with no registered builder.
type MethodError struct {
	Name  string
	Known []Method
}

func (e *MethodError) Error() string {
	known := make([]string, len(e.Known))
	for i, m := range e.Known {
		known[i] = string(m)
	}
	return fmt.Sprintf("transfer: unknown solver method %q (available: %s)", e.Name, strings.Join(known, ", "))
}

func (e *MethodError) Unwrap() error {
	return beam.ErrUnknownMethod
}

type Registry struct {
	builders map[Method]func() integrators.Builder
}

// NewRegistry returns a registry with every built-in method.
func NewRegistry() *Registry {
	r := &Registry{builders: make(map[Method]func() integrators.Builder)}

	r.Register(Midpoint, func() integrators.Builder { return integrators.NewMidpoint() })
	r.Register(ImplicitEuler, func() integrators.Builder { return integrators.NewImplicitEuler() })
	r.Register(ConstantField, func() integrators.Builder { return integrators.NewConstantField() })
	r.Register(RK4, func() integrators.Builder { return integrators.NewRK4() })

	return r
}

// Register adds or replaces the builder for m.
func (r *Registry) Register(m Method, fn func() integrators.Builder) {
	r.builders[m] = fn
}

// Builder returns a fresh builder for m. The empty method selects
// DefaultMethod.
func (r *Registry) Builder(m Method) (integrators.Builder, error) {
	if m == "" {
		m = DefaultMethod
	}
	fn, ok := r.builders[m]
	if !ok {
		return nil, &MethodError{Name: string(m), Known: r.Methods()}
	}
	return fn(), nil
}

// Methods lists the registered methods in name order.
func (r *Registry) Methods() []Method {
	names := make([]Method, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// ParseMethod checks name against the built-in methods. The empty name
// selects DefaultMethod.
func ParseMethod(name string) (Method, error) {
	m := Method(strings.TrimSpace(name))
	if m == "" {
		return DefaultMethod, nil
	}
	if _, err := defaultSolver.registry.Builder(m); err != nil {
		return "", err
	}
	return m, nil
}
