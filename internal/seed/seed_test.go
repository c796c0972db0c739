package seed

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bruteForce(x []float64, n, dim int) Pair {
	best := Pair{I: 0, J: 1, Dist: math.Inf(-1)}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			var sum float64
			for d := 0; d < dim; d++ {
				diff := x[i*dim+d] - x[j*dim+d]
				sum += diff * diff
			}
			dist := math.Sqrt(sum)
			if dist > best.Dist {
				best = Pair{I: i, J: j, Dist: dist}
			}
		}
	}
	return best
}

func euclideanMatrix(x []float64, n, dim int) []float64 {
	dist := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var sum float64
			for d := 0; d < dim; d++ {
				diff := x[i*dim+d] - x[j*dim+d]
				sum += diff * diff
			}
			dist[i*n+j] = math.Sqrt(sum)
		}
	}
	return dist
}

func TestFromMatrix(t *testing.T) {
	x := []float64{5, 0, 9, 4}
	dist := euclideanMatrix(x, 4, 1)

	p := FromMatrix(dist, 4)

	assert.Equal(t, 1, p.I)
	assert.Equal(t, 2, p.J)
	assert.Equal(t, 9.0, p.Dist)
}

func TestFromMatrix_AllIdentical(t *testing.T) {
	// Zero matrix: the pair must still consist of two distinct indices.
	dist := make([]float64, 9)

	p := FromMatrix(dist, 3)

	assert.NotEqual(t, p.I, p.J)
	assert.Zero(t, p.Dist)
}

func TestFromVectors_MatchesBruteForce(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(21))

	const (
		n   = 73
		dim = 5
	)

	x := make([]float64, n*dim)
	for i := range x {
		x[i] = rng.NormFloat64() * 10
	}

	want := bruteForce(x, n, dim)

	// Batch sizes around, below and above the sample count, including
	// degenerate single-row batches.
	for _, batchSize := range []int{1, 7, 32, n, 1000} {
		p, err := FromVectors(ctx, x, n, dim, 4, batchSize)
		require.NoError(t, err)

		assert.InDelta(t, want.Dist, p.Dist, 1e-9, "batchSize=%d", batchSize)

		// The returned pair must achieve the maximum; with ties any
		// maximal pair is acceptable.
		var sum float64
		for d := 0; d < dim; d++ {
			diff := x[p.I*dim+d] - x[p.J*dim+d]
			sum += diff * diff
		}
		assert.InDelta(t, want.Dist, math.Sqrt(sum), 1e-9, "batchSize=%d", batchSize)
	}
}

func TestFromVectors_MatchesFromMatrix(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(33))

	const (
		n   = 40
		dim = 3
	)

	x := make([]float64, n*dim)
	for i := range x {
		x[i] = rng.NormFloat64()
	}

	fromMatrix := FromMatrix(euclideanMatrix(x, n, dim), n)

	fromVectors, err := FromVectors(ctx, x, n, dim, 2, 9)
	require.NoError(t, err)

	assert.InDelta(t, fromMatrix.Dist, fromVectors.Dist, 1e-9)
}

func TestFromVectors_DuplicatePoints(t *testing.T) {
	ctx := context.Background()

	x := []float64{1, 1, 2, 2, 2, 3, 3}

	p, err := FromVectors(ctx, x, 7, 1, 4, 2)
	require.NoError(t, err)

	assert.InDelta(t, 2.0, p.Dist, 1e-12)
	assert.NotEqual(t, p.I, p.J)
	// Any pair drawn from {0,1} x {5,6} achieves the maximum.
	assert.Contains(t, []int{0, 1}, p.I)
	assert.Contains(t, []int{5, 6}, p.J)
}

func TestFromVectors_TooFewSamples(t *testing.T) {
	ctx := context.Background()

	_, err := FromVectors(ctx, []float64{1, 2}, 1, 2, 4, 10)
	assert.Error(t, err)
}

func TestFromVectors_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	x := make([]float64, 1000)
	for i := range x {
		x[i] = float64(i)
	}

	_, err := FromVectors(ctx, x, 1000, 1, 2, 10)
	assert.ErrorIs(t, err, context.Canceled)
}
