package ksample

import (
	"github.com/hupe1980/ksample/distance"
)

const (
	// DefaultWorkers is the default worker count for the parallel
	// farthest-pair seed search in SampleBounded.
	DefaultWorkers = 4

	// DefaultBatchSize is the default batch size for the parallel
	// farthest-pair seed search. Memory per worker grows with the
	// square of this value; set it to roughly sqrt(n) to minimize the
	// footprint, or leave it large for throughput.
	DefaultBatchSize = 1000
)

// Backend selects which selector implementation runs the greedy loop.
type Backend int

const (
	// BackendKernel is the performance implementation on flat buffers
	// (internal/kernel). Default.
	BackendKernel Backend = iota

	// BackendReference is the straightforward reference implementation
	// (internal/ks). Primarily useful for cross-validation and for
	// auditing results.
	BackendReference
)

func (b Backend) String() string {
	switch b {
	case BackendKernel:
		return "Kernel"
	case BackendReference:
		return "Reference"
	default:
		return "Unknown"
	}
}

type options struct {
	seed      []int
	nResult   int // 0 means all samples
	backend   Backend
	metric    distance.Metric
	matrixFn  distance.MatrixFunc
	workers   int
	batchSize int
	logger    *Logger
}

func defaultOptions() options {
	return options{
		backend:   BackendKernel,
		metric:    distance.MetricEuclidean,
		workers:   DefaultWorkers,
		batchSize: DefaultBatchSize,
		logger:    NoopLogger(),
	}
}

// Option configures a sampling call.
type Option func(*options)

// WithSeed sets the initially selected sample indices. The result is
// guaranteed to start with the seed in the given order. Indices must be
// distinct and within [0, n). If no seed is given, the farthest pair of
// samples is discovered and used.
func WithSeed(seed ...int) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithResultCount sets how many samples to select. Defaults to the
// full sample count, i.e. a complete max-min ordering of the input.
func WithResultCount(n int) Option {
	return func(o *options) {
		o.nResult = n
	}
}

// WithBackend selects the selector implementation. An unrecognized
// value fails the call with ErrInvalidBackend; there is no silent
// fallback.
func WithBackend(b Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithMetric selects a built-in distance matrix provider for Sample.
// Ignored by SampleBounded, which never builds a matrix and always
// measures Euclidean distance.
func WithMetric(m distance.Metric) Option {
	return func(o *options) {
		o.metric = m
	}
}

// WithDistanceFunc sets a custom distance matrix provider for Sample,
// overriding WithMetric. The provider must return a symmetric matrix of
// non-negative values with zero diagonal.
func WithDistanceFunc(fn distance.MatrixFunc) Option {
	return func(o *options) {
		o.matrixFn = fn
	}
}

// WithWorkers sets the worker count for the parallel seed search in
// SampleBounded. Values below 1 are treated as 1.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithBatchSize sets the batch size for the parallel seed search in
// SampleBounded.
func WithBatchSize(n int) Option {
	return func(o *options) {
		o.batchSize = n
	}
}

// WithLogger sets the logger. Defaults to a noop logger.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}
