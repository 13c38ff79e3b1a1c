package tpk

import (
	"fmt"
	"os"

	"github.com/meigma/classdata/cldb"
	"github.com/meigma/classdata/internal/binio"
	"github.com/meigma/classdata/internal/codec"
	"github.com/meigma/classdata/internal/fsutil"
	"github.com/meigma/classdata/internal/sizing"
)

const (
	headerSize = 4 + 1 + 1 + 5*4
	refSize    = 3 * 4
)

// MarshalBinary encodes p in the package layout.
func (p *Package) MarshalBinary() ([]byte, error) {
	if !p.Descriptor.Valid() {
		return nil, fmt.Errorf("%w: descriptor %s", ErrInvalidHeader, p.Descriptor)
	}

	set := make(cldb.StringSet, len(p.Files))
	blockSize := 0
	for i := range p.Files {
		set.Add(p.Files[i].Name)
		blockSize += len(p.Files[i].Data)
	}
	names, err := cldb.NewStringTable(set)
	if err != nil {
		return nil, err
	}
	rawNames := names.Bytes()
	storedNames := rawNames
	if p.Descriptor.DatabaseSectionCompressed() {
		if storedNames, err = codec.Compress(p.Descriptor.Algorithm(), rawNames); err != nil {
			return nil, err
		}
	}

	count, err := sizing.ToUint32(len(p.Files), ErrTooLarge)
	if err != nil {
		return nil, err
	}
	block, err := sizing.ToUint32(blockSize, ErrTooLarge)
	if err != nil {
		return nil, err
	}
	nameOffset, err := sizing.ToUint32(headerSize+refSize*len(p.Files)+blockSize, ErrTooLarge)
	if err != nil {
		return nil, err
	}
	rawLen, err := sizing.ToUint32(len(rawNames), ErrTooLarge)
	if err != nil {
		return nil, err
	}
	storedLen, err := sizing.ToUint32(len(storedNames), ErrTooLarge)
	if err != nil {
		return nil, err
	}

	w := binio.NewWriter(int(nameOffset) + len(storedNames))
	w.Tag(Magic)
	w.U8(FormatVersion)
	w.U8(uint8(p.Descriptor))
	w.U32(nameOffset)
	w.U32(rawLen)
	w.U32(storedLen)
	w.U32(block)
	w.U32(count)

	var off uint32
	for i := range p.Files {
		f := &p.Files[i]
		nameOff, err := names.Offset(f.Name)
		if err != nil {
			return nil, err
		}
		w.U32(off)
		w.U32(uint32(len(f.Data))) //nolint:gosec // bounded by the block size check above
		w.U32(nameOff)
		off += uint32(len(f.Data)) //nolint:gosec // bounded by the block size check above
	}
	for i := range p.Files {
		w.Raw(p.Files[i].Data)
	}
	w.Raw(storedNames)
	return w.Bytes(), nil
}

// WriteFile encodes p and writes it to path atomically.
func (p *Package) WriteFile(path string) error {
	data, err := p.MarshalBinary()
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0o644)
}

// ReadFile decodes the package file at path.
func ReadFile(path string) (*Package, error) {
	data, err := os.ReadFile(path) //nolint:gosec // caller-provided package path
	if err != nil {
		return nil, err
	}
	p, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
