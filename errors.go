package ksample

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when no feature vectors are supplied.
	ErrEmptyInput = errors.New("ksample: empty input")

	// ErrDuplicateSeed is returned when the same index appears twice in
	// the supplied seed.
	ErrDuplicateSeed = errors.New("ksample: duplicate seed index")
)

// ErrInvalidBackend indicates an unrecognized backend identifier.
// Backend selection never falls back silently.
type ErrInvalidBackend struct {
	Backend Backend
}

func (e *ErrInvalidBackend) Error() string {
	return fmt.Sprintf("invalid backend: %d", int(e.Backend))
}

// ErrRaggedInput indicates feature vectors of inconsistent length.
type ErrRaggedInput struct {
	Row      int
	Expected int
	Actual   int
}

func (e *ErrRaggedInput) Error() string {
	return fmt.Sprintf("ragged input: row %d has %d features, want %d", e.Row, e.Actual, e.Expected)
}

// ErrSeedOutOfRange indicates a seed index outside [0, NumSamples).
type ErrSeedOutOfRange struct {
	Index      int
	NumSamples int
}

func (e *ErrSeedOutOfRange) Error() string {
	return fmt.Sprintf("seed index %d out of range [0, %d)", e.Index, e.NumSamples)
}

// ErrInvalidResultCount indicates a result count that cannot be
// satisfied: larger than the sample count, smaller than the seed, or
// not positive.
type ErrInvalidResultCount struct {
	NumResults int
	NumSeeds   int
	NumSamples int
}

func (e *ErrInvalidResultCount) Error() string {
	return fmt.Sprintf("invalid result count %d (seeds %d, samples %d)", e.NumResults, e.NumSeeds, e.NumSamples)
}
