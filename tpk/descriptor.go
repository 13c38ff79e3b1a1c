package tpk

import (
	"fmt"

	"github.com/meigma/classdata/internal/codec"
)

// Descriptor is the package compression descriptor byte.
type Descriptor uint8

const (
	descMarker               Descriptor = 0x80
	descAlgorithmMask        Descriptor = 0x03
	descDatabaseUncompressed Descriptor = 0x20
	descBlobsUncompressed    Descriptor = 0x40
)

// NewDescriptor returns the descriptor for alg. With codec.None both
// uncompressed overrides are set.
func NewDescriptor(alg codec.Algorithm) Descriptor {
	d := descMarker | Descriptor(alg)&descAlgorithmMask
	if alg == codec.None {
		d |= descDatabaseUncompressed | descBlobsUncompressed
	}
	return d
}

// Algorithm returns the compression algorithm in bits 0-1.
func (d Descriptor) Algorithm() codec.Algorithm {
	return codec.Algorithm(d & descAlgorithmMask)
}

// IsCompressed reports whether an algorithm other than none is selected.
func (d Descriptor) IsCompressed() bool {
	return d.Algorithm() != codec.None
}

// DatabaseSectionCompressed reports whether the package name table is stored
// compressed.
func (d Descriptor) DatabaseSectionCompressed() bool {
	return d.IsCompressed() && d&descDatabaseUncompressed == 0
}

// CldbBlobsCompressed reports whether the embedded class databases carry
// compressed bodies.
func (d Descriptor) CldbBlobsCompressed() bool {
	return d.IsCompressed() && d&descBlobsUncompressed == 0
}

// Valid reports whether the marker bit is set and the algorithm is known.
func (d Descriptor) Valid() bool {
	return d&descMarker != 0 && d.Algorithm().Valid()
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%#02x(%s)", uint8(d), d.Algorithm())
}
