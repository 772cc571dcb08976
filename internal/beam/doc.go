// Package beam provides the shared types for paraxial transfer-matrix work.
//
// The package defines the data every other package passes around:
//
//   - [Field]: Ez and Bz sampled on a uniform longitudinal grid
//   - [Mat2]: a real 2×2 transfer matrix, row-major
//   - [Vec2]: the transverse state (x, Px)
//   - [Sequence]: one matrix per field sample
//
// Physical constants live here as well so that every builder uses the same
// rest energy and charge-to-mass ratio.
//
// # Example
//
//	f := beam.Field{Ez: ez, Bz: bz, Dz: 1e-4}
//	seq, _ := transfer.StepMatrices(f, 1, transfer.Midpoint)
//	m, _ := matprod.Total(seq)
//	out := m.Apply(beam.Vec2{X: 1e-3})
//
// # Thread Safety
//
// All values are plain data. A Sequence returned by a builder is owned by the
// caller and is never touched again by the library.
package beam
