// Package ksample selects maximally diverse, ordered subsets of a
// sample set by Kennard-Stone (greedy farthest-point / max-min
// dispersion) sampling. It is the standard way to split a dataset into
// representative training and validation subsets without clustering
// bias.
//
// # Quick Start
//
//	ctx := context.Background()
//
//	// Full-matrix mode: precomputes the n x n distance matrix.
//	sel, _ := ksample.Sample(ctx, x, ksample.WithResultCount(100))
//
//	// Memory-bounded mode: recomputes distances on demand, O(n*dim) memory.
//	sel, _ := ksample.SampleBounded(ctx, x,
//	    ksample.WithResultCount(100),
//	    ksample.WithWorkers(8),
//	)
//
//	for k, i := range sel.Indices {
//	    fmt.Println(i, sel.Distances[k])
//	}
//
// # How It Works
//
// Selection starts from a seed: either indices supplied via WithSeed or
// the globally farthest pair of samples, discovered automatically. Each
// following step picks the sample whose minimum distance to everything
// already selected is largest, until the requested count is reached.
// The greedy rule is a deterministic approximation to the NP-hard
// max-min dispersion problem; it does not guarantee global optimality.
//
// # Backends
//
// Every selector exists twice: a reference implementation and a
// performance implementation on flat buffers. Both produce identical
// selections and are continuously cross-validated against each other;
// switch with WithBackend(ksample.BackendReference) to audit a result.
//
// # Key Features
//
//   - Full-matrix and memory-bounded execution modes
//   - Parallel farthest-pair seed search for large sample sets
//   - Pluggable distance matrix providers (direct or Gram-expansion Euclidean)
//   - Dispersion distance trace for subset quality inspection
//   - Compressed on-disk matrix format (see the dataset package)
package ksample
