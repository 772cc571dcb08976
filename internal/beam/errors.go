package beam

import (
	"errors"
	"fmt"
)

// Domain errors shared by every package in the module.
var (
	// ErrUnknownMethod indicates a discretization name with no registered builder.
	ErrUnknownMethod = errors.New("beam: unknown discretization method")

	// ErrLengthMismatch indicates Ez and Bz sample arrays of different length.
	ErrLengthMismatch = errors.New("beam: Ez and Bz lengths differ")

	// ErrTooFewSamples indicates fewer than two field samples.
	ErrTooFewSamples = errors.New("beam: at least two field samples required")

	// ErrBadStep indicates a grid spacing that is not finite and positive.
	ErrBadStep = errors.New("beam: step size must be finite and positive")

	// ErrUnphysical indicates the fields drove gamma to or below 1.
	ErrUnphysical = errors.New("beam: unphysical energy (gamma <= 1)")

	// ErrEmptySequence indicates a matrix product over no matrices.
	ErrEmptySequence = errors.New("beam: empty matrix sequence")
)

// GammaError reports the first sample at which gamma left the physical domain.
type GammaError struct {
	Index int
	Gamma float64
}

func (e *GammaError) Error() string {
	return fmt.Sprintf("beam: unphysical energy at sample %d (gamma=%g)", e.Index, e.Gamma)
}

func (e *GammaError) Unwrap() error {
	return ErrUnphysical
}
