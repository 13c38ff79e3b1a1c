package cldb

import (
	"fmt"

	"github.com/meigma/classdata/internal/binio"
	"github.com/meigma/classdata/internal/codec"
	"github.com/meigma/classdata/internal/sizing"
)

// Minimum encoded sizes, used to bound allocations from untrusted counts.
const (
	minClassSize = 4 + 4 + 5 + 4
	minFieldSize = 5 + 5 + 1 + 1 + 4 + 2 + 4
)

// Decode parses a CLDB record. Compressed bodies are decompressed.
func Decode(data []byte) (*Database, error) {
	r := binio.NewReader(data)
	if tag := r.Tag(len(Magic)); tag != Magic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrInvalidHeader, tag)
	}
	db := &Database{FormatVersion: r.U8()}
	if r.Err() == nil && db.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported format version %d", ErrInvalidHeader, db.FormatVersion)
	}
	db.Flags = r.U8()
	db.Compression = codec.Algorithm(r.U8())
	compressedSize := r.U32()
	uncompressedSize := r.U32()
	versionCount := int(r.U8())
	for range versionCount {
		db.Versions = append(db.Versions, r.CountString())
	}
	strLen := r.U32()
	strPos := r.U32()
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	if !db.Compression.Valid() {
		return nil, fmt.Errorf("%w: compression %d", ErrInvalidHeader, db.Compression)
	}

	body := data[r.Pos():]
	if db.Compression != codec.None {
		n, err := sizing.ToInt(compressedSize, ErrTooLarge)
		if err != nil {
			return nil, err
		}
		if n > len(body) {
			return nil, fmt.Errorf("%w: compressed body of %d bytes, have %d", ErrTruncated, n, len(body))
		}
		size, err := sizing.ToInt(uncompressedSize, ErrTooLarge)
		if err != nil {
			return nil, err
		}
		if body, err = codec.Decompress(db.Compression, body[:n], size); err != nil {
			return nil, err
		}
	}

	end, ok := sizing.AddUint32(strPos, strLen)
	if !ok || uint64(end) > uint64(len(body)) {
		return nil, fmt.Errorf("%w: string table [%d, +%d) outside body of %d bytes", ErrTruncated, strPos, strLen, len(body))
	}
	db.StringTable = append([]byte(nil), body[strPos:end]...)

	if err := decodeClasses(binio.NewReader(body[:strPos]), db); err != nil {
		return nil, err
	}
	return db, nil
}

func decodeClasses(r *binio.Reader, db *Database) error {
	count := r.U32()
	if r.Err() == nil && uint64(count)*minClassSize > uint64(r.Remaining()) {
		return fmt.Errorf("%w: %d classes in %d bytes", ErrTruncated, count, r.Remaining())
	}
	db.Classes = make([]ClassRecord, 0, count)
	for range count {
		c := ClassRecord{
			ClassID:   r.I32(),
			BaseClass: r.I32(),
			Name:      readStringRef(r),
		}
		fieldCount := r.U32()
		if r.Err() != nil {
			break
		}
		if uint64(fieldCount)*minFieldSize > uint64(r.Remaining()) {
			return fmt.Errorf("%w: %d fields in %d bytes", ErrTruncated, fieldCount, r.Remaining())
		}
		if fieldCount > 0 {
			c.Fields = make([]FieldRecord, fieldCount)
		}
		for i := range c.Fields {
			c.Fields[i] = FieldRecord{
				TypeName:  readStringRef(r),
				FieldName: readStringRef(r),
				Depth:     r.U8(),
				TypeFlags: r.U8(),
				Size:      r.I32(),
				Version:   r.U16(),
				MetaFlags: r.U32(),
			}
		}
		db.Classes = append(db.Classes, c)
	}
	if err := r.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	return nil
}

func readStringRef(r *binio.Reader) StringRef {
	if r.Bool() {
		return TableString(r.U32())
	}
	return InlineString(decodeLatin1([]byte(r.LenString())))
}
