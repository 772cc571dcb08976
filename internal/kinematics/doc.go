// Package kinematics derives the longitudinal energy profile of an electron
// from sampled axial fields.
//
// [Compute] integrates Ez/mc² to obtain gamma(z), beta(z) and the first two
// derivatives of gamma. [Larmor] turns Bz into the local Larmor frequency.
//
// gamma'' is a numerical derivative of the sampled field and amplifies any
// sampling noise. Field data should be smooth or filtered before it gets here;
// nothing in this package smooths.
package kinematics
