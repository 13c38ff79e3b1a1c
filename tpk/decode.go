package tpk

import (
	"fmt"

	"github.com/meigma/classdata/cldb"
	"github.com/meigma/classdata/internal/binio"
	"github.com/meigma/classdata/internal/codec"
	"github.com/meigma/classdata/internal/sizing"
)

// Decode parses a package file. Embedded records are copied out of data but
// not decoded; use File.Database for that.
func Decode(data []byte) (*Package, error) {
	r := binio.NewReader(data)
	if tag := r.Tag(len(Magic)); tag != Magic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrInvalidHeader, tag)
	}
	if v := r.U8(); r.Err() == nil && v != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported format version %d", ErrInvalidHeader, v)
	}
	desc := Descriptor(r.U8())
	nameOffset := r.U32()
	rawLen := r.U32()
	storedLen := r.U32()
	blockSize := r.U32()
	count := r.U32()
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	if !desc.Valid() {
		return nil, fmt.Errorf("%w: descriptor %s", ErrInvalidHeader, desc)
	}
	if uint64(count)*refSize > uint64(r.Remaining()) {
		return nil, fmt.Errorf("%w: %d file refs in %d bytes", ErrTruncated, count, r.Remaining())
	}

	type ref struct{ off, length, name uint32 }
	refs := make([]ref, count)
	for i := range refs {
		refs[i] = ref{off: r.U32(), length: r.U32(), name: r.U32()}
	}
	blockStart := r.Pos()
	block := r.Raw(int(blockSize))
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("%w: file block: %v", ErrTruncated, err)
	}

	end, ok := sizing.AddUint32(nameOffset, storedLen)
	if !ok || uint64(end) > uint64(len(data)) || int(nameOffset) < blockStart+len(block) {
		return nil, fmt.Errorf("%w: name table [%d, +%d) outside package of %d bytes", ErrTruncated, nameOffset, storedLen, len(data))
	}
	names := data[nameOffset:end]
	if desc.DatabaseSectionCompressed() {
		size, err := sizing.ToInt(rawLen, ErrTooLarge)
		if err != nil {
			return nil, err
		}
		if names, err = codec.Decompress(desc.Algorithm(), names, size); err != nil {
			return nil, err
		}
	}

	p := &Package{Descriptor: desc, Files: make([]File, count)}
	for i, rf := range refs {
		fend, ok := sizing.AddUint32(rf.off, rf.length)
		if !ok || uint64(fend) > uint64(len(block)) {
			return nil, fmt.Errorf("%w: file %d [%d, +%d) outside block of %d bytes", ErrTruncated, i, rf.off, rf.length, len(block))
		}
		name, err := cldb.ReadTableString(names, rf.name)
		if err != nil {
			return nil, fmt.Errorf("file %d name: %w", i, err)
		}
		p.Files[i] = File{
			Name: name,
			Data: append([]byte(nil), block[rf.off:fend]...),
		}
	}
	return p, nil
}
