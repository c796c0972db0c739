package kernel

import (
	"errors"
	"fmt"
	"math"

	"github.com/bits-and-blooms/bitset"
)

var (
	// ErrSeedRequired is returned by KennardStoneBounded when no seed is
	// supplied. Unlike the full-matrix kernel, the bounded kernel has no
	// internal seed search; callers must resolve a seed first.
	ErrSeedRequired = errors.New("kernel: bounded selection requires a non-empty seed")

	// ErrBufferLayout is returned when an input or output buffer does not
	// match its documented fixed layout.
	ErrBufferLayout = errors.New("kernel: buffer layout mismatch")
)

// KennardStone runs greedy max-min dispersion selection over a
// precomputed distance matrix.
//
// dist is a row-major n*n buffer, symmetric with zero diagonal.
// result and vdist are caller-allocated outputs of equal length
// nResult; result receives the selected sample indices in selection
// order and vdist the dispersion distance trace, offset one ahead of
// the index it justified (vdist[k] belongs to result[k+1], the final
// entry stays zero). When exactly two seeds are in play, vdist[0] is
// the direct seed-to-seed distance.
//
// When seed is empty the kernel seeds itself with the farthest pair
// found by a flat argmax over the matrix.
func KennardStone(dist []float64, seed []int, result []int, vdist []float64, n int) error {
	if n < 0 || len(dist) != n*n {
		return fmt.Errorf("%w: len(dist)=%d, want %d", ErrBufferLayout, len(dist), n*n)
	}

	nResult := len(result)
	if len(vdist) != nResult {
		return fmt.Errorf("%w: len(vdist)=%d, want %d", ErrBufferLayout, len(vdist), nResult)
	}

	if nResult == 0 {
		return nil
	}

	if nResult > n {
		return fmt.Errorf("%w: nResult=%d exceeds n=%d", ErrBufferLayout, nResult, n)
	}

	if len(seed) == 0 {
		// Internal farthest-pair search, operating directly on the matrix.
		i, j := matrixArgmax(dist, n)
		seed = []int{i, j}
	}

	nSeed := len(seed)
	if nSeed > nResult {
		return fmt.Errorf("%w: nSeed=%d exceeds nResult=%d", ErrBufferLayout, nSeed, nResult)
	}

	selected := bitset.New(uint(n))
	for k, s := range seed {
		result[k] = s
		selected.Set(uint(s))
	}

	if nSeed == 2 {
		vdist[0] = dist[seed[0]*n+seed[1]]
	}

	minVals := make([]float64, n)
	copy(minVals, dist[seed[0]*n:seed[0]*n+n])

	for _, s := range seed[1:] {
		row := dist[s*n : s*n+n]
		for i := 0; i < n; i++ {
			if !selected.Test(uint(i)) && row[i] < minVals[i] {
				minVals[i] = row[i]
			}
		}
	}

	for step := nSeed; step < nResult; step++ {
		sup := -1
		best := math.Inf(-1)

		for i := 0; i < n; i++ {
			if selected.Test(uint(i)) {
				continue
			}
			if v := minVals[i]; v > best {
				best = v
				sup = i
			}
		}

		result[step] = sup
		vdist[step-1] = best
		selected.Set(uint(sup))

		row := dist[sup*n : sup*n+n]
		for i := 0; i < n; i++ {
			if !selected.Test(uint(i)) && row[i] < minVals[i] {
				minVals[i] = row[i]
			}
		}
	}

	return nil
}

// KennardStoneBounded runs the same greedy selection without ever
// materializing a distance matrix. x is a row-major n*dim feature
// buffer; distances to the newly selected point are recomputed per
// step, so total memory stays O(n*dim).
//
// State is kept in a shrinking arena of remaining candidates: the
// sample index, its feature row and its running minimum squared
// distance live at the same arena slot and are evicted by swap-remove.
// Argmax ties resolve to the smaller sample index, which keeps the
// selection order independent of arena layout.
//
// seed must be non-empty; see ErrSeedRequired.
func KennardStoneBounded(x []float64, seed []int, result []int, vdist []float64, n, dim int) error {
	if n < 0 || dim <= 0 || len(x) != n*dim {
		return fmt.Errorf("%w: len(x)=%d, want %d", ErrBufferLayout, len(x), n*dim)
	}

	nResult := len(result)
	if len(vdist) != nResult {
		return fmt.Errorf("%w: len(vdist)=%d, want %d", ErrBufferLayout, len(vdist), nResult)
	}

	if nResult == 0 {
		return nil
	}

	if nResult > n {
		return fmt.Errorf("%w: nResult=%d exceeds n=%d", ErrBufferLayout, nResult, n)
	}

	nSeed := len(seed)
	if nSeed == 0 {
		return ErrSeedRequired
	}

	if nSeed > nResult {
		return fmt.Errorf("%w: nSeed=%d exceeds nResult=%d", ErrBufferLayout, nSeed, nResult)
	}

	selected := bitset.New(uint(n))
	for k, s := range seed {
		result[k] = s
		selected.Set(uint(s))
	}

	if nSeed == 2 {
		a := x[seed[0]*dim : (seed[0]+1)*dim]
		b := x[seed[1]*dim : (seed[1]+1)*dim]
		vdist[0] = math.Sqrt(SquaredL2(a, b))
	}

	// Candidate arena: remains[k], pts[k*dim:(k+1)*dim] and minSq[k]
	// describe the same live candidate.
	live := n - nSeed
	remains := make([]int, 0, live)
	pts := make([]float64, 0, live*dim)

	for i := 0; i < n; i++ {
		if !selected.Test(uint(i)) {
			remains = append(remains, i)
			pts = append(pts, x[i*dim:(i+1)*dim]...)
		}
	}

	minSq := make([]float64, live)
	buf := make([]float64, live)

	SquaredL2Batch(x[seed[0]*dim:(seed[0]+1)*dim], pts, dim, minSq)

	for _, s := range seed[1:] {
		SquaredL2Batch(x[s*dim:(s+1)*dim], pts, dim, buf)
		for k := 0; k < live; k++ {
			if buf[k] < minSq[k] {
				minSq[k] = buf[k]
			}
		}
	}

	for step := nSeed; step < nResult; step++ {
		best := -1
		bestVal := math.Inf(-1)

		for k := 0; k < live; k++ {
			v := minSq[k]
			if v > bestVal || (v == bestVal && best >= 0 && remains[k] < remains[best]) {
				best = k
				bestVal = v
			}
		}

		sup := remains[best]
		result[step] = sup
		vdist[step-1] = math.Sqrt(bestVal)

		// Swap-remove the winner from the arena.
		last := live - 1
		remains[best] = remains[last]
		minSq[best] = minSq[last]
		copy(pts[best*dim:(best+1)*dim], pts[last*dim:(last+1)*dim])
		live = last
		remains = remains[:live]
		minSq = minSq[:live]
		pts = pts[:live*dim]

		SquaredL2Batch(x[sup*dim:(sup+1)*dim], pts, dim, buf[:live])
		for k := 0; k < live; k++ {
			if buf[k] < minSq[k] {
				minSq[k] = buf[k]
			}
		}
	}

	return nil
}

// matrixArgmax returns the row-major first occurrence of the maximum
// off-diagonal entry. The diagonal is skipped so that an all-zero
// matrix (all points identical) still yields a usable pair.
func matrixArgmax(dist []float64, n int) (int, int) {
	bi, bj := 0, 1
	best := math.Inf(-1)

	for i := 0; i < n; i++ {
		row := dist[i*n : i*n+n]
		for j, v := range row {
			if i == j {
				continue
			}
			if v > best {
				best = v
				bi, bj = i, j
			}
		}
	}

	return bi, bj
}
