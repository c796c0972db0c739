// Package ks implements the reference Kennard-Stone selectors.
//
// These are the straightforward, readable implementations of the greedy
// max-min dispersion rule, one per memory regime: Select consumes a
// precomputed distance matrix, SelectBounded recomputes distances from
// the raw feature rows and never holds more than O(n) selection state.
//
// The code here intentionally shares nothing with internal/kernel.
// Keeping the two implementations independent is what makes their
// cross-validation meaningful.
package ks
