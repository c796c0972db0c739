// Package seed finds the globally farthest pair of samples, which
// bootstraps a Kennard-Stone run when the caller supplies no seed.
package seed

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/ksample/internal/kernel"
)

// Pair is a pair of sample indices and the distance between them.
type Pair struct {
	I, J int
	Dist float64
}

// FromMatrix returns the farthest pair by a flat argmax over a
// row-major n*n distance matrix. Ties resolve to the first occurrence
// in row-major order; the diagonal is skipped so degenerate inputs
// (all points identical) still produce two distinct indices.
func FromMatrix(dist []float64, n int) Pair {
	p := Pair{I: 0, J: 1, Dist: math.Inf(-1)}

	for i := 0; i < n; i++ {
		row := dist[i*n : i*n+n]
		for j, v := range row {
			if i == j {
				continue
			}
			if v > p.Dist {
				p = Pair{I: i, J: j, Dist: v}
			}
		}
	}

	return p
}

// block is a contiguous range of sample indices.
type block struct {
	start, end int
}

// FromVectors returns the farthest pair without materializing the full
// distance matrix. The sample range is partitioned into contiguous
// batches of batchSize rows; every unordered batch pair (including a
// batch against itself) becomes one task computing its sub-block of
// squared distances via the norm expansion and reporting a local
// maximum. Tasks run on an errgroup limited to workers goroutines and
// the local maxima are reduced by a commutative max with a
// deterministic (I, J) tie-break.
//
// x is a row-major n*dim feature buffer; it is only read.
func FromVectors(ctx context.Context, x []float64, n, dim, workers, batchSize int) (Pair, error) {
	if n < 2 {
		return Pair{}, fmt.Errorf("seed: need at least 2 samples, got %d", n)
	}

	if workers < 1 {
		workers = 1
	}

	if batchSize < 1 || batchSize > n {
		batchSize = n
	}

	norms := make([]float64, n)
	kernel.SquaredNorms(x, dim, norms)

	var blocks []block
	for start := 0; start < n; start += batchSize {
		end := start + batchSize
		if end > n {
			end = n
		}
		blocks = append(blocks, block{start: start, end: end})
	}

	type task struct {
		a, b block
	}

	var tasks []task
	for i := range blocks {
		for j := i; j < len(blocks); j++ {
			tasks = append(tasks, task{a: blocks[i], b: blocks[j]})
		}
	}

	// One result slot per task; no shared mutable state between workers.
	maxima := make([]Pair, len(tasks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for idx, tk := range tasks {
		idx, tk := idx, tk
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			maxima[idx] = blockMax(x, dim, norms, tk.a, tk.b)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Pair{}, err
	}

	best := maxima[0]
	for _, p := range maxima[1:] {
		if p.Dist > best.Dist || (p.Dist == best.Dist && (p.I < best.I || (p.I == best.I && p.J < best.J))) {
			best = p
		}
	}

	best.Dist = math.Sqrt(best.Dist)
	return best, nil
}

// blockMax computes the squared-distance sub-block for one batch pair
// and returns its argmax translated back to global indices. The Dist of
// the returned pair is still squared; the caller takes the root once
// after the reduction.
func blockMax(x []float64, dim int, norms []float64, a, b block) Pair {
	na := a.end - a.start
	nb := b.end - b.start

	out := make([]float64, na*nb)
	kernel.CrossSquaredL2(
		x[a.start*dim:a.end*dim], na,
		x[b.start*dim:b.end*dim], nb,
		dim,
		norms[a.start:a.end], norms[b.start:b.end],
		out,
	)

	if a.start == b.start {
		// Self pair: clip the diagonal so rounding noise on zero
		// self-distances cannot win the argmax.
		for i := 0; i < na; i++ {
			out[i*nb+i] = 0
		}
	}

	self := a.start == b.start

	p := Pair{I: -1, J: -1, Dist: math.Inf(-1)}
	for i := 0; i < na; i++ {
		row := out[i*nb : (i+1)*nb]
		for j, v := range row {
			if self && i == j {
				continue
			}
			if v > p.Dist {
				p = Pair{I: a.start + i, J: b.start + j, Dist: v}
			}
		}
	}

	return p
}
