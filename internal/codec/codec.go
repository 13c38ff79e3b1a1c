// Package codec implements the block compression algorithms used by CLDB and
// TPK files.
//
// Callers always know the uncompressed size up front (both formats record it),
// so the API is whole-buffer rather than streaming.
package codec

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz/lzma"

	"github.com/meigma/classdata/internal/sizing"
)

// Algorithm identifies a compression algorithm. The numeric values are part
// of both file formats.
type Algorithm uint8

const (
	None Algorithm = iota
	LZ4
	LZMA
)

var (
	// ErrUnknownAlgorithm is returned for an algorithm value outside the known set.
	ErrUnknownAlgorithm = errors.New("codec: unknown compression algorithm")

	// ErrDecompression is returned when compressed data cannot be decoded
	// to the recorded size.
	ErrDecompression = errors.New("codec: decompression failed")
)

// String returns the human-readable name of the algorithm.
func (a Algorithm) String() string {
	switch a {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case LZMA:
		return "lzma"
	default:
		return "unknown"
	}
}

// Valid reports whether a is a known algorithm.
func (a Algorithm) Valid() bool {
	return a <= LZMA
}

// Parse maps a name (none, lz4, lzma) to an Algorithm.
func Parse(name string) (Algorithm, error) {
	switch name {
	case "none":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "lzma":
		return LZMA, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}

// Compress returns data compressed with a. None returns data unchanged.
func Compress(a Algorithm, data []byte) ([]byte, error) {
	switch a {
	case None:
		return data, nil
	case LZ4:
		return compressLZ4(data)
	case LZMA:
		return compressLZMA(data)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, a)
	}
}

// Decompress decodes data compressed with a into exactly size bytes.
func Decompress(a Algorithm, data []byte, size int) ([]byte, error) {
	switch a {
	case None:
		return data, nil
	case LZ4:
		return decompressLZ4(data, size)
	case LZMA:
		return decompressLZMA(data, size)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, a)
	}
}

func compressLZ4(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	var c lz4.Compressor
	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := c.CompressBlock(data, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	return dst[:n], nil
}

func decompressLZ4(data []byte, size int) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}
	dst := make([]byte, size)
	n, err := lz4.UncompressBlock(data, dst)
	if err != nil {
		return nil, fmt.Errorf("%w: lz4: %v", ErrDecompression, err)
	}
	if n != size {
		return nil, fmt.Errorf("%w: lz4: got %d bytes, want %d", ErrDecompression, n, size)
	}
	return dst, nil
}

func compressLZMA(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := lzma.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("lzma writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("lzma compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("lzma compress: %w", err)
	}
	return buf.Bytes(), nil
}

func decompressLZMA(data []byte, size int) ([]byte, error) {
	r, err := lzma.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: lzma: %v", ErrDecompression, err)
	}
	out, err := sizing.ReadAllWithLimit(r, uint64(size), ErrDecompression) //nolint:gosec // size is non-negative
	if err != nil {
		return nil, fmt.Errorf("%w: lzma: %v", ErrDecompression, err)
	}
	if len(out) != size {
		return nil, fmt.Errorf("%w: lzma: got %d bytes, want %d", ErrDecompression, len(out), size)
	}
	return out, nil
}
