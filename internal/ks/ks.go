package ks

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// ErrSeedRequired is returned when no seed index is supplied. Seed
// discovery happens a layer above; the selectors only run the greedy
// loop.
var ErrSeedRequired = errors.New("ks: selection requires a non-empty seed")

// Select runs greedy max-min dispersion selection over a precomputed
// distance matrix.
//
// dist is a row-major n*n buffer, symmetric with zero diagonal. It
// returns the selected sample indices in selection order together with
// the dispersion distance trace: trace entry k holds the running
// minimum distance that justified selecting index k+1, the final entry
// is always zero, and with exactly two seeds entry 0 is the direct
// seed-to-seed distance.
//
// Selection state is kept only for the still-unselected indices: a
// remains list (sorted ascending) and a minVals slice aligned with it.
// No sentinel values are needed to keep selected points out of the
// argmax.
func Select(ctx context.Context, dist []float64, n int, seed []int, nResult int) ([]int, []float64, error) {
	if n < 0 || len(dist) != n*n {
		return nil, nil, fmt.Errorf("ks: distance matrix is not square: len %d, want %d", len(dist), n*n)
	}

	nSeed := len(seed)
	if nSeed == 0 {
		return nil, nil, ErrSeedRequired
	}

	if nSeed > nResult || nResult > n {
		return nil, nil, fmt.Errorf("ks: invalid result count %d (seeds %d, samples %d)", nResult, nSeed, n)
	}

	result := make([]int, nResult)
	vdist := make([]float64, nResult)

	copy(result, seed)
	if nSeed == 2 {
		vdist[0] = dist[seed[0]*n+seed[1]]
	}

	inSeed := make([]bool, n)
	for _, s := range seed {
		inSeed[s] = true
	}

	remains := make([]int, 0, n-nSeed)
	for i := 0; i < n; i++ {
		if !inSeed[i] {
			remains = append(remains, i)
		}
	}

	minVals := make([]float64, len(remains))
	for k, r := range remains {
		minVals[k] = dist[seed[0]*n+r]
	}

	for _, s := range seed[1:] {
		row := dist[s*n : s*n+n]
		for k, r := range remains {
			if row[r] < minVals[k] {
				minVals[k] = row[r]
			}
		}
	}

	for step := nSeed; step < nResult; step++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		// remains is sorted ascending, so the first occurrence of the
		// maximum is also the smallest tied sample index.
		sup := 0
		for k, v := range minVals {
			if v > minVals[sup] {
				sup = k
			}
		}

		result[step] = remains[sup]
		vdist[step-1] = minVals[sup]

		row := dist[remains[sup]*n : remains[sup]*n+n]

		copy(remains[sup:], remains[sup+1:])
		remains = remains[:len(remains)-1]
		copy(minVals[sup:], minVals[sup+1:])
		minVals = minVals[:len(minVals)-1]

		for k, r := range remains {
			if row[r] < minVals[k] {
				minVals[k] = row[r]
			}
		}
	}

	return result, vdist, nil
}

// SelectBounded runs the same greedy selection from raw feature rows,
// recomputing distances on demand instead of holding an n*n matrix.
// x is a row-major n*dim feature buffer.
//
// Removal from the remaining-candidate state is a swap against the live
// boundary, so argmax ties are broken explicitly towards the smaller
// sample index to stay order-independent of the candidate layout.
func SelectBounded(ctx context.Context, x []float64, n, dim int, seed []int, nResult int) ([]int, []float64, error) {
	if n < 0 || dim <= 0 || len(x) != n*dim {
		return nil, nil, fmt.Errorf("ks: feature buffer is not n*dim: len %d, want %d", len(x), n*dim)
	}

	nSeed := len(seed)
	if nSeed == 0 {
		return nil, nil, ErrSeedRequired
	}

	if nSeed > nResult || nResult > n {
		return nil, nil, fmt.Errorf("ks: invalid result count %d (seeds %d, samples %d)", nResult, nSeed, n)
	}

	row := func(i int) []float64 { return x[i*dim : (i+1)*dim] }

	result := make([]int, nResult)
	vdist := make([]float64, nResult)

	copy(result, seed)
	if nSeed == 2 {
		vdist[0] = euclidean(row(seed[0]), row(seed[1]))
	}

	inSeed := make([]bool, n)
	for _, s := range seed {
		inSeed[s] = true
	}

	remains := make([]int, 0, n-nSeed)
	for i := 0; i < n; i++ {
		if !inSeed[i] {
			remains = append(remains, i)
		}
	}

	minVals := make([]float64, len(remains))
	for k, r := range remains {
		minVals[k] = euclidean(row(r), row(seed[0]))
	}

	for _, s := range seed[1:] {
		for k, r := range remains {
			if d := euclidean(row(r), row(s)); d < minVals[k] {
				minVals[k] = d
			}
		}
	}

	for step := nSeed; step < nResult; step++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		sup := 0
		for k, v := range minVals {
			if v > minVals[sup] || (v == minVals[sup] && remains[k] < remains[sup]) {
				sup = k
			}
		}

		selected := remains[sup]
		result[step] = selected
		vdist[step-1] = minVals[sup]

		last := len(remains) - 1
		remains[sup] = remains[last]
		minVals[sup] = minVals[last]
		remains = remains[:last]
		minVals = minVals[:last]

		for k, r := range remains {
			if d := euclidean(row(r), row(selected)); d < minVals[k] {
				minVals[k] = d
			}
		}
	}

	return result, vdist, nil
}

func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}

	return math.Sqrt(sum)
}
