// Package fieldmap loads on-axis field maps and resamples them onto the
// uniform grid the transfer-matrix builders expect.
//
// A field map is a text table with columns z [m], Ez [V/m] and optionally
// Bz [T]. Columns may be separated by whitespace or commas; lines starting
// with '#' are comments and a single leading header row is skipped.
// Rows are sorted by z on load; resampling needs z strictly increasing.
// Outside the tabulated range fields are taken to be zero.
//
// For quick studies without a file, [Profile] describes simple analytic
// shapes (uniform, gaussian, hard-edge) that can be summed.
package fieldmap
