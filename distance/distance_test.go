package distance

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEuclidean(t *testing.T) {
	// 2-D points (0,0), (3,4), (0,8).
	x := []float64{
		0, 0,
		3, 4,
		0, 8,
	}

	dist, err := Euclidean(x, 3, 2)
	require.NoError(t, err)
	require.Len(t, dist, 9)

	assert.Equal(t, 5.0, dist[0*3+1])
	assert.Equal(t, 8.0, dist[0*3+2])
	assert.Equal(t, 5.0, dist[1*3+2])

	for i := 0; i < 3; i++ {
		assert.Zero(t, dist[i*3+i], "diagonal i=%d", i)
		for j := 0; j < 3; j++ {
			assert.Equal(t, dist[i*3+j], dist[j*3+i], "symmetry %d,%d", i, j)
		}
	}
}

func TestEuclidean_BadShape(t *testing.T) {
	_, err := Euclidean(make([]float64, 5), 2, 2)
	assert.Error(t, err)

	_, err = Euclidean(make([]float64, 4), 2, 0)
	assert.Error(t, err)
}

func TestEuclideanGram_MatchesEuclidean(t *testing.T) {
	rng := rand.New(rand.NewSource(17))

	const (
		n   = 25
		dim = 12
	)

	x := make([]float64, n*dim)
	for i := range x {
		x[i] = rng.NormFloat64() * 50
	}

	direct, err := Euclidean(x, n, dim)
	require.NoError(t, err)

	gram, err := EuclideanGram(x, n, dim)
	require.NoError(t, err)

	for i := range direct {
		assert.InDelta(t, direct[i], gram[i], 1e-7, "entry %d", i)
	}
}

func TestEuclideanGram_DuplicateRows(t *testing.T) {
	// Identical rows must come out at exactly zero, not NaN from a
	// negative value under the square root.
	x := []float64{
		0.1, 0.2, 0.3,
		0.1, 0.2, 0.3,
	}

	dist, err := EuclideanGram(x, 2, 3)
	require.NoError(t, err)

	assert.False(t, math.IsNaN(dist[1]))
	assert.InDelta(t, 0.0, dist[1], 1e-9)
	assert.InDelta(t, 0.0, dist[2], 1e-9)
}

func TestProvider(t *testing.T) {
	fn, err := Provider(MetricEuclidean)
	require.NoError(t, err)
	assert.NotNil(t, fn)

	fn, err = Provider(MetricEuclideanGram)
	require.NoError(t, err)
	assert.NotNil(t, fn)

	_, err = Provider(Metric(999))
	assert.Error(t, err)
}

func TestMetricString(t *testing.T) {
	assert.Equal(t, "Euclidean", MetricEuclidean.String())
	assert.Equal(t, "EuclideanGram", MetricEuclideanGram.String())
	assert.Equal(t, "Unknown(999)", Metric(999).String())
}
