package ksample

import (
	"context"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/ksample/dataset"
	"github.com/hupe1980/ksample/distance"
	"github.com/hupe1980/ksample/internal/kernel"
	"github.com/hupe1980/ksample/internal/ks"
	"github.com/hupe1980/ksample/internal/seed"
)

// Selection is the result of a sampling run.
type Selection struct {
	// Indices holds the selected sample indices in selection order. The
	// prefix equals the seed (supplied or discovered), the rest is the
	// greedy max-min order.
	Indices []int

	// Distances is the dispersion trace, offset one ahead of Indices:
	// Distances[k] is the running minimum distance that justified
	// selecting Indices[k+1]. The final entry is always zero; with
	// exactly two seeds, Distances[0] is the direct seed-to-seed
	// distance.
	Distances []float64
}

// Len returns the number of selected samples.
func (s *Selection) Len() int {
	return len(s.Indices)
}

// Bitmap returns the selected indices as a roaring bitmap, convenient
// for splitting a dataset into the selected subset and its complement.
func (s *Selection) Bitmap() *roaring.Bitmap {
	rb := roaring.New()
	for _, i := range s.Indices {
		rb.Add(uint32(i))
	}

	return rb
}

// Sample selects a maximally diverse subset of x by Kennard-Stone
// (greedy max-min dispersion) sampling, precomputing the full pairwise
// distance matrix. x holds n feature vectors of equal length.
//
// Memory is O(n^2); for sample counts where the matrix does not fit,
// use SampleBounded.
func Sample(ctx context.Context, x [][]float64, optFns ...Option) (*Selection, error) {
	m, err := flatten(x)
	if err != nil {
		return nil, err
	}

	return SampleMatrix(ctx, m, optFns...)
}

// SampleMatrix is Sample for feature data already held in a
// dataset.Matrix, e.g. loaded via dataset.Read.
func SampleMatrix(ctx context.Context, m *dataset.Matrix, optFns ...Option) (*Selection, error) {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}

	n, dim := m.Rows, m.Dim

	nResult, err := validate(&o, n)
	if err != nil {
		return nil, err
	}

	matrixFn := o.matrixFn
	if matrixFn == nil {
		matrixFn, err = distance.Provider(o.metric)
		if err != nil {
			return nil, fmt.Errorf("ksample: %w", err)
		}
	}

	dist, err := matrixFn(m.Data, n, dim)
	if err != nil {
		return nil, fmt.Errorf("ksample: build distance matrix: %w", err)
	}

	o.logger.DebugContext(ctx, "sampling configuration resolved",
		"mode", "full-matrix",
		"backend", o.backend.String(),
		"samples", n,
		"dimension", dim,
		"results", nResult,
		"seeds", len(o.seed),
	)

	switch o.backend {
	case BackendKernel:
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result := make([]int, nResult)
		vdist := make([]float64, nResult)
		// The kernel runs its own farthest-pair search when the seed is
		// empty.
		if err := kernel.KennardStone(dist, o.seed, result, vdist, n); err != nil {
			return nil, fmt.Errorf("ksample: %w", err)
		}

		return &Selection{Indices: result, Distances: vdist}, nil

	case BackendReference:
		s := o.seed
		if len(s) == 0 {
			p := seed.FromMatrix(dist, n)
			s = []int{p.I, p.J}

			o.logger.DebugContext(ctx, "seed pair discovered",
				"i", p.I, "j", p.J, "distance", p.Dist)
		}

		result, vdist, err := ks.Select(ctx, dist, n, s, nResult)
		if err != nil {
			return nil, fmt.Errorf("ksample: %w", err)
		}

		return &Selection{Indices: result, Distances: vdist}, nil

	default:
		return nil, &ErrInvalidBackend{Backend: o.backend}
	}
}

// SampleBounded selects the same maximally diverse subset as Sample
// but never materializes the distance matrix: distances are recomputed
// from the raw feature rows on demand, keeping memory at O(n*dim).
// Only Euclidean distance is supported in this mode.
//
// When no seed is supplied, the farthest starting pair is discovered by
// a parallel batched search; tune it with WithWorkers and
// WithBatchSize.
func SampleBounded(ctx context.Context, x [][]float64, optFns ...Option) (*Selection, error) {
	m, err := flatten(x)
	if err != nil {
		return nil, err
	}

	return SampleBoundedMatrix(ctx, m, optFns...)
}

// SampleBoundedMatrix is SampleBounded for feature data already held in
// a dataset.Matrix.
func SampleBoundedMatrix(ctx context.Context, m *dataset.Matrix, optFns ...Option) (*Selection, error) {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}

	n, dim := m.Rows, m.Dim

	nResult, err := validate(&o, n)
	if err != nil {
		return nil, err
	}

	o.logger.DebugContext(ctx, "sampling configuration resolved",
		"mode", "memory-bounded",
		"backend", o.backend.String(),
		"samples", n,
		"dimension", dim,
		"results", nResult,
		"seeds", len(o.seed),
		"workers", o.workers,
		"batch_size", o.batchSize,
	)

	s := o.seed
	if len(s) == 0 {
		p, err := seed.FromVectors(ctx, m.Data, n, dim, o.workers, o.batchSize)
		if err != nil {
			return nil, fmt.Errorf("ksample: seed search: %w", err)
		}
		s = []int{p.I, p.J}

		o.logger.DebugContext(ctx, "seed pair discovered",
			"i", p.I, "j", p.J, "distance", p.Dist)
	}

	switch o.backend {
	case BackendKernel:
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result := make([]int, nResult)
		vdist := make([]float64, nResult)
		if err := kernel.KennardStoneBounded(m.Data, s, result, vdist, n, dim); err != nil {
			return nil, fmt.Errorf("ksample: %w", err)
		}

		return &Selection{Indices: result, Distances: vdist}, nil

	case BackendReference:
		result, vdist, err := ks.SelectBounded(ctx, m.Data, n, dim, s, nResult)
		if err != nil {
			return nil, fmt.Errorf("ksample: %w", err)
		}

		return &Selection{Indices: result, Distances: vdist}, nil

	default:
		return nil, &ErrInvalidBackend{Backend: o.backend}
	}
}

// validate resolves the result count and checks every user-visible
// precondition: backend identity, sample count, seed range and
// distinctness, and that the seed (supplied, or the discovered pair of
// two) fits into the result count.
func validate(o *options, n int) (int, error) {
	switch o.backend {
	case BackendKernel, BackendReference:
	default:
		return 0, &ErrInvalidBackend{Backend: o.backend}
	}

	if n == 0 {
		return 0, ErrEmptyInput
	}

	nResult := o.nResult
	if nResult == 0 {
		nResult = n
	}

	if nResult < 0 || nResult > n {
		return 0, &ErrInvalidResultCount{NumResults: nResult, NumSeeds: len(o.seed), NumSamples: n}
	}

	seen := make(map[int]struct{}, len(o.seed))
	for _, s := range o.seed {
		if s < 0 || s >= n {
			return 0, &ErrSeedOutOfRange{Index: s, NumSamples: n}
		}
		if _, ok := seen[s]; ok {
			return 0, fmt.Errorf("%w: %d", ErrDuplicateSeed, s)
		}
		seen[s] = struct{}{}
	}

	nSeed := len(o.seed)
	if nSeed == 0 {
		// Seed discovery always yields a pair.
		nSeed = 2
	}

	if nSeed > nResult {
		return 0, &ErrInvalidResultCount{NumResults: nResult, NumSeeds: nSeed, NumSamples: n}
	}

	return nResult, nil
}

func flatten(x [][]float64) (*dataset.Matrix, error) {
	if len(x) == 0 || len(x[0]) == 0 {
		return nil, ErrEmptyInput
	}

	dim := len(x[0])
	data := make([]float64, 0, len(x)*dim)

	for i, row := range x {
		if len(row) != dim {
			return nil, &ErrRaggedInput{Row: i, Expected: dim, Actual: len(row)}
		}
		data = append(data, row...)
	}

	return &dataset.Matrix{Data: data, Rows: len(x), Dim: dim}, nil
}
