package kernel

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// euclideanMatrix builds a flat pairwise distance matrix for tests.
func euclideanMatrix(x []float64, n, dim int) []float64 {
	dist := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			dist[i*n+j] = math.Sqrt(SquaredL2(x[i*dim:(i+1)*dim], x[j*dim:(j+1)*dim]))
		}
	}
	return dist
}

func TestKennardStone(t *testing.T) {
	// 1-D points 0, 10, 4, 6 with seed {0, 1}: index 2 wins the tie at
	// distance 4, then index 3 follows at distance 2.
	x := []float64{0, 10, 4, 6}
	dist := euclideanMatrix(x, 4, 1)

	result := make([]int, 4)
	vdist := make([]float64, 4)
	require.NoError(t, KennardStone(dist, []int{0, 1}, result, vdist, 4))

	assert.Equal(t, []int{0, 1, 2, 3}, result)
	assert.InDeltaSlice(t, []float64{10, 4, 2, 0}, vdist, 1e-12)
}

func TestKennardStone_SelfSeeding(t *testing.T) {
	// Duplicate-heavy input: the internal seed search must land on a
	// true farthest pair and the loop must still visit every index once.
	x := []float64{1, 1, 2, 2, 2, 3, 3}
	dist := euclideanMatrix(x, 7, 1)

	result := make([]int, 7)
	vdist := make([]float64, 7)
	require.NoError(t, KennardStone(dist, nil, result, vdist, 7))

	assert.Equal(t, []int{0, 5, 2, 1, 3, 4, 6}, result)
	assert.InDeltaSlice(t, []float64{2, 1, 0, 0, 0, 0, 0}, vdist, 1e-12)
}

func TestKennardStone_SingleSeed(t *testing.T) {
	x := []float64{0, 10, 4}
	dist := euclideanMatrix(x, 3, 1)

	result := make([]int, 3)
	vdist := make([]float64, 3)
	require.NoError(t, KennardStone(dist, []int{2}, result, vdist, 3))

	// From 4: farthest is 10 (idx 1, distance 6), then 0 (idx 0, distance 4).
	assert.Equal(t, []int{2, 1, 0}, result)
	assert.InDeltaSlice(t, []float64{6, 4, 0}, vdist, 1e-12)
}

func TestKennardStone_BufferErrors(t *testing.T) {
	err := KennardStone(make([]float64, 3), nil, make([]int, 1), make([]float64, 1), 2)
	assert.ErrorIs(t, err, ErrBufferLayout)

	err = KennardStone(make([]float64, 4), nil, make([]int, 1), make([]float64, 2), 2)
	assert.ErrorIs(t, err, ErrBufferLayout)

	// nResult > n
	err = KennardStone(make([]float64, 4), nil, make([]int, 3), make([]float64, 3), 2)
	assert.ErrorIs(t, err, ErrBufferLayout)

	// nSeed > nResult
	err = KennardStone(make([]float64, 9), []int{0, 1, 2}, make([]int, 2), make([]float64, 2), 3)
	assert.ErrorIs(t, err, ErrBufferLayout)
}

func TestKennardStoneBounded(t *testing.T) {
	x := []float64{0, 10, 4, 6}

	result := make([]int, 4)
	vdist := make([]float64, 4)
	require.NoError(t, KennardStoneBounded(x, []int{0, 1}, result, vdist, 4, 1))

	assert.Equal(t, []int{0, 1, 2, 3}, result)
	assert.InDeltaSlice(t, []float64{10, 4, 2, 0}, vdist, 1e-12)
}

func TestKennardStoneBounded_SeedRequired(t *testing.T) {
	err := KennardStoneBounded(make([]float64, 4), nil, make([]int, 2), make([]float64, 2), 4, 1)
	assert.ErrorIs(t, err, ErrSeedRequired)
}

func TestKennardStoneBounded_MatchesFullMatrix(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	const (
		n   = 60
		dim = 8
	)

	x := make([]float64, n*dim)
	for i := range x {
		x[i] = rng.NormFloat64()
	}
	dist := euclideanMatrix(x, n, dim)

	for _, nResult := range []int{2, 10, n} {
		full := make([]int, nResult)
		fullDist := make([]float64, nResult)
		require.NoError(t, KennardStone(dist, []int{3, 17}, full, fullDist, n))

		bounded := make([]int, nResult)
		boundedDist := make([]float64, nResult)
		require.NoError(t, KennardStoneBounded(x, []int{3, 17}, bounded, boundedDist, n, dim))

		assert.Equal(t, full, bounded, "nResult=%d", nResult)
		for k := range fullDist {
			assert.InDelta(t, fullDist[k], boundedDist[k], 1e-9, "nResult=%d k=%d", nResult, k)
		}
	}
}

func TestKennardStone_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	const (
		n   = 40
		dim = 3
	)

	x := make([]float64, n*dim)
	for i := range x {
		x[i] = rng.NormFloat64()
	}
	dist := euclideanMatrix(x, n, dim)

	result := make([]int, n)
	vdist := make([]float64, n)
	require.NoError(t, KennardStone(dist, nil, result, vdist, n))

	// Result is a permutation of [0, n).
	seen := make([]bool, n)
	for _, i := range result {
		require.GreaterOrEqual(t, i, 0)
		require.Less(t, i, n)
		require.False(t, seen[i], "index %d selected twice", i)
		seen[i] = true
	}

	// Dispersion trace is non-increasing with a trailing zero.
	for k := 0; k+2 < n; k++ {
		assert.GreaterOrEqual(t, vdist[k], vdist[k+1], "k=%d", k)
	}
	assert.Zero(t, vdist[n-1])
}
