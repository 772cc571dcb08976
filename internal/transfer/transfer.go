package transfer

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/san-kum/paraxial/internal/beam"
	"github.com/san-kum/paraxial/internal/matprod"
)

// Solver dispatches to registered builders and composes their output.
// A Solver holds no per-call state and may be shared between goroutines.
type Solver struct {
	registry *Registry
	log      *log.Entry
}

func NewSolver(r *Registry) *Solver {
	if r == nil {
		r = NewRegistry()
	}
	return &Solver{
		registry: r,
		log:      log.WithField("component", "transfer"),
	}
}

var defaultSolver = NewSolver(nil)

// Registry returns the solver's method registry.
func (s *Solver) Registry() *Registry { return s.registry }

// StepMatrices returns one step matrix per field sample. Entry 0 is the
// identity.
func (s *Solver) StepMatrices(f beam.Field, gammaInitial float64, m Method) (beam.Sequence, error) {
	b, err := s.registry.Builder(m)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	seq, err := b.Build(f, gammaInitial)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(log.Fields{
		"method":  b.Name(),
		"samples": len(seq),
		"gamma0":  gammaInitial,
		"elapsed": time.Since(start),
	}).Debug("built step matrices")

	return seq, nil
}

// Total returns the transfer matrix from the first to the last sample.
func (s *Solver) Total(f beam.Field, gammaInitial float64, m Method) (beam.Mat2, error) {
	seq, err := s.StepMatrices(f, gammaInitial, m)
	if err != nil {
		return beam.Mat2{}, err
	}
	return matprod.Total(seq)
}

// Cumulative returns the transfer matrix from the first sample to every
// sample. The last entry equals Total for the same inputs.
func (s *Solver) Cumulative(f beam.Field, gammaInitial float64, m Method) (beam.Sequence, error) {
	seq, err := s.StepMatrices(f, gammaInitial, m)
	if err != nil {
		return nil, err
	}
	return matprod.Cumulative(seq)
}

// StepMatrices uses the built-in registry.
func StepMatrices(f beam.Field, gammaInitial float64, m Method) (beam.Sequence, error) {
	return defaultSolver.StepMatrices(f, gammaInitial, m)
}

// Total uses the built-in registry.
func Total(f beam.Field, gammaInitial float64, m Method) (beam.Mat2, error) {
	return defaultSolver.Total(f, gammaInitial, m)
}

// Cumulative uses the built-in registry.
func Cumulative(f beam.Field, gammaInitial float64, m Method) (beam.Sequence, error) {
	return defaultSolver.Cumulative(f, gammaInitial, m)
}
