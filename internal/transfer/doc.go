// Package transfer computes paraxial transfer matrices from sampled axial
// fields.
//
// Three entry points mirror the usual workflow:
//
//   - [StepMatrices]: one matrix per sample, built by the chosen method
//   - [Total]: the ordered product of all step matrices
//   - [Cumulative]: the transfer matrix from the first sample to every sample
//
// Methods are selected by name ("midpoint", "implicit_euler",
// "constant_field", "rk4"). An unknown name fails with an error wrapping
// [beam.ErrUnknownMethod] before any numerical work starts.
package transfer
