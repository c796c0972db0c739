// Package distance builds pairwise distance matrices for sampling.
//
// A provider consumes a flattened row-major feature buffer and returns
// the full n x n matrix of non-negative distances with zero diagonal.
// Two Euclidean providers ship with the package:
//
//   - Euclidean: direct pairwise computation, numerically safe (default)
//   - EuclideanGram: Gram-matrix expansion via gonum, roughly one big
//     matrix multiply instead of n^2/2 vector passes; tiny negative
//     rounding artifacts are clamped to zero
//
// # Usage
//
//	dist, _ := distance.Euclidean(x, n, dim)
//	fn, _ := distance.Provider(distance.MetricEuclideanGram)
package distance
