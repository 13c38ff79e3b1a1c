package classdata

import (
	"github.com/meigma/classdata/dump"
	"github.com/meigma/classdata/internal/codec"
)

// Compression identifies the block compression used in databases and packages.
type Compression = codec.Algorithm

// Compression constants.
const (
	CompressionNone = codec.None
	CompressionLZ4  = codec.LZ4
	CompressionLZMA = codec.LZMA
)

// ParseCompression maps "none", "lz4" or "lzma" to a Compression.
var ParseCompression = codec.Parse

// Build flavor sets.
const (
	BuildRelease = dump.BuildRelease
	BuildEditor  = dump.BuildEditor
	BuildBoth    = dump.BuildBoth
)
