// Package dataset holds feature matrices and a compact on-disk format
// for them, so sampling runs over large datasets are reproducible
// without regenerating features.
//
// The file layout is a small header (magic, version, compression
// algorithm, row and dimension counts) followed by the row-major
// float64 payload in independently compressed blocks. LZ4 (fast) and
// ZSTD (better ratio) block compression are supported; incompressible
// blocks are stored raw.
package dataset
