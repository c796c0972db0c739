// Package testutil provides testing utilities for ksample.
//
// This package is intended for use in tests and benchmarks only.
// It provides a deterministic, thread-safe random source and helpers
// for generating random feature matrices.
//
// # Random Matrix Generation
//
//	rng := testutil.NewRNG(seed)
//	rows := rng.GaussianVectors(1000, 16)
//	flat := rng.GaussianFlat(1000, 16)
package testutil
