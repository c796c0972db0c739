// Package kernel provides the performance implementations of the
// Kennard-Stone selectors together with the flat-buffer numeric
// primitives they are built on.
//
// All kernels operate on row-major float64 buffers with explicit
// dimensions and caller-allocated outputs. Dispatch goes through
// package-level function pointers so that optimized variants can be
// swapped in without touching call sites; the generic Go
// implementations are the default.
//
// The selectors in this package are engineered independently from the
// reference implementations in internal/ks. The two are cross-validated
// against each other by the conformance tests in the root package; that
// equivalence is the correctness contract that lets the kernels be
// trusted.
package kernel
