package dataset

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CompressionType defines the compression algorithm used for payload blocks.
type CompressionType uint8

const (
	// CompressionNone stores payload blocks raw.
	CompressionNone CompressionType = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 CompressionType = 1
	// CompressionZSTD uses ZSTD block compression (better ratio).
	CompressionZSTD CompressionType = 2
)

var (
	// ErrBadMagic is returned when a stream does not start with the
	// dataset magic bytes.
	ErrBadMagic = errors.New("dataset: bad magic")

	// ErrUnsupportedVersion is returned for format versions this build
	// cannot read.
	ErrUnsupportedVersion = errors.New("dataset: unsupported format version")

	// ErrUnsupportedCompression is returned for unknown compression ids.
	ErrUnsupportedCompression = errors.New("dataset: unsupported compression")

	// ErrCorrupted is returned when block or header structure is
	// inconsistent with the declared sizes.
	ErrCorrupted = errors.New("dataset: corrupted stream")
)

var magic = [4]byte{'K', 'S', 'M', 'X'}

const (
	formatVersion = 1
	headerSize    = 4 + 1 + 1 + 2 + 8 + 8 // magic, version, compression, reserved, rows, dim

	blockHeaderSize  = 8
	defaultBlockSize = 1 << 20

	// maxElements bounds rows*dim against nonsense headers.
	maxElements = 1 << 37
)

// WriteOptions configures Write.
type WriteOptions struct {
	// Compression selects the payload block codec. Default: ZSTD.
	Compression CompressionType

	// BlockSize is the uncompressed payload block size in bytes.
	// Default: 1 MiB.
	BlockSize int
}

// ZSTD encoder/decoder pools for efficiency.
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// Write serializes m to w.
func Write(w io.Writer, m *Matrix, optFns ...func(*WriteOptions)) error {
	opts := WriteOptions{
		Compression: CompressionZSTD,
		BlockSize:   defaultBlockSize,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.BlockSize <= 0 {
		opts.BlockSize = defaultBlockSize
	}

	switch opts.Compression {
	case CompressionNone, CompressionLZ4, CompressionZSTD:
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedCompression, opts.Compression)
	}

	if m.Rows <= 0 || m.Dim <= 0 || len(m.Data) != m.Rows*m.Dim {
		return ErrEmpty
	}

	header := make([]byte, headerSize)
	copy(header, magic[:])
	header[4] = formatVersion
	header[5] = byte(opts.Compression)
	binary.LittleEndian.PutUint64(header[8:], uint64(m.Rows))
	binary.LittleEndian.PutUint64(header[16:], uint64(m.Dim))

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("dataset: write header: %w", err)
	}

	payload := make([]byte, len(m.Data)*8)
	for i, v := range m.Data {
		binary.LittleEndian.PutUint64(payload[i*8:], math.Float64bits(v))
	}

	for start := 0; start < len(payload); start += opts.BlockSize {
		end := start + opts.BlockSize
		if end > len(payload) {
			end = len(payload)
		}

		block, err := compressBlock(payload[start:end], opts.Compression)
		if err != nil {
			return fmt.Errorf("dataset: compress block: %w", err)
		}

		if _, err := w.Write(block); err != nil {
			return fmt.Errorf("dataset: write block: %w", err)
		}
	}

	return nil
}

// Read deserializes a Matrix from r.
func Read(r io.Reader) (*Matrix, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("dataset: read header: %w", err)
	}

	if [4]byte(header[:4]) != magic {
		return nil, ErrBadMagic
	}

	if header[4] != formatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, header[4])
	}

	compression := CompressionType(header[5])
	switch compression {
	case CompressionNone, CompressionLZ4, CompressionZSTD:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedCompression, compression)
	}

	rows := binary.LittleEndian.Uint64(header[8:])
	dim := binary.LittleEndian.Uint64(header[16:])
	if rows == 0 || dim == 0 || rows*dim > maxElements {
		return nil, fmt.Errorf("%w: %d x %d matrix", ErrCorrupted, rows, dim)
	}

	total := int(rows * dim * 8)
	payload := make([]byte, 0, total)
	blockHeader := make([]byte, blockHeaderSize)

	for len(payload) < total {
		if _, err := io.ReadFull(r, blockHeader); err != nil {
			return nil, fmt.Errorf("dataset: read block header: %w", err)
		}

		uncompressedSize := int(binary.LittleEndian.Uint32(blockHeader[0:]))
		compressedSize := int(binary.LittleEndian.Uint32(blockHeader[4:]))

		if uncompressedSize == 0 || len(payload)+uncompressedSize > total {
			return nil, fmt.Errorf("%w: block exceeds payload", ErrCorrupted)
		}

		stored := compressedSize
		if stored == 0 {
			stored = uncompressedSize
		}

		raw := make([]byte, stored)
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, fmt.Errorf("dataset: read block: %w", err)
		}

		block, err := decompressBlock(raw, uncompressedSize, compressedSize != 0, compression)
		if err != nil {
			return nil, err
		}

		payload = append(payload, block...)
	}

	data := make([]float64, rows*dim)
	for i := range data {
		data[i] = math.Float64frombits(binary.LittleEndian.Uint64(payload[i*8:]))
	}

	return &Matrix{Data: data, Rows: int(rows), Dim: int(dim)}, nil
}

// compressBlock compresses one payload block and prepends the block
// header: [UncompressedSize uint32][CompressedSize uint32][Data...].
// CompressedSize 0 means the block is stored raw, which also happens
// when compression does not pay (ratio above 0.9).
func compressBlock(data []byte, compression CompressionType) ([]byte, error) {
	var compressed []byte

	switch compression {
	case CompressionLZ4:
		bound := lz4.CompressBlockBound(len(data))
		buf := make([]byte, bound)
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		compressed = buf[:n] // n == 0 means incompressible

	case CompressionZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	}

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		result := make([]byte, blockHeaderSize+len(data))
		binary.LittleEndian.PutUint32(result[0:], uint32(len(data)))
		binary.LittleEndian.PutUint32(result[4:], 0)
		copy(result[blockHeaderSize:], data)
		return result, nil
	}

	result := make([]byte, blockHeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(result[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(result[4:], uint32(len(compressed)))
	copy(result[blockHeaderSize:], compressed)
	return result, nil
}

func decompressBlock(raw []byte, uncompressedSize int, compressed bool, compression CompressionType) ([]byte, error) {
	if !compressed {
		return raw, nil
	}

	switch compression {
	case CompressionLZ4:
		out := make([]byte, uncompressedSize)
		n, err := lz4.UncompressBlock(raw, out)
		if err != nil || n != uncompressedSize {
			return nil, fmt.Errorf("%w: lz4 block", ErrCorrupted)
		}
		return out, nil

	case CompressionZSTD:
		dec := getZstdDecoder()
		out, err := dec.DecodeAll(raw, make([]byte, 0, uncompressedSize))
		zstdDecoderPool.Put(dec)
		if err != nil || len(out) != uncompressedSize {
			return nil, fmt.Errorf("%w: zstd block", ErrCorrupted)
		}
		return out, nil

	default:
		// A compressed block cannot appear in an uncompressed stream.
		return nil, fmt.Errorf("%w: compressed block in raw stream", ErrCorrupted)
	}
}
