// Package matprod composes ordered sequences of 2×2 transfer matrices.
//
// Matrices are applied left to right along the beamline, so each new step
// multiplies the running product from the left:
//
//	Total(S)         = S[n-1] · … · S[1] · S[0]
//	Cumulative(S)[k] = S[k] · Cumulative(S)[k-1]
//
// Total is the last element of the same scan, so the two always agree
// bit for bit.
package matprod

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/paraxial/internal/beam"
)

// product holds a running 2×2 product. The Dense values are views over the
// arrays in the struct, so no per-step allocation is needed.
type product struct {
	acc, step, out    beam.Mat2
	accV, stepV, outV *mat.Dense
	right             bool
}

func newProduct(first beam.Mat2, right bool) *product {
	p := &product{acc: first, right: right}
	p.accV = mat.NewDense(2, 2, p.acc[:])
	p.stepV = mat.NewDense(2, 2, p.step[:])
	p.outV = mat.NewDense(2, 2, p.out[:])
	return p
}

func (p *product) push(s beam.Mat2) beam.Mat2 {
	p.step = s
	if p.right {
		p.outV.Mul(p.accV, p.stepV)
	} else {
		p.outV.Mul(p.stepV, p.accV)
	}
	p.acc = p.out
	return p.acc
}

// Total returns the ordered product of the whole sequence.
func Total(seq beam.Sequence) (beam.Mat2, error) {
	if len(seq) == 0 {
		return beam.Mat2{}, beam.ErrEmptySequence
	}

	p := newProduct(seq[0], false)
	for _, s := range seq[1:] {
		p.push(s)
	}
	return p.acc, nil
}

// Cumulative returns every prefix product: entry k maps the state at sample
// 0 to the state at sample k.
func Cumulative(seq beam.Sequence) (beam.Sequence, error) {
	if len(seq) == 0 {
		return nil, beam.ErrEmptySequence
	}

	out := make(beam.Sequence, len(seq))
	out[0] = seq[0]

	p := newProduct(seq[0], false)
	for i := 1; i < len(seq); i++ {
		out[i] = p.push(seq[i])
	}
	return out, nil
}

// Reversed returns S[0] · S[1] · … · S[n-1], the product with the opposite
// ordering convention.
func Reversed(seq beam.Sequence) (beam.Mat2, error) {
	if len(seq) == 0 {
		return beam.Mat2{}, beam.ErrEmptySequence
	}

	p := newProduct(seq[0], true)
	for _, s := range seq[1:] {
		p.push(s)
	}
	return p.acc, nil
}
