package cldb

import (
	"fmt"
	"os"

	"github.com/meigma/classdata/internal/binio"
	"github.com/meigma/classdata/internal/codec"
	"github.com/meigma/classdata/internal/fsutil"
	"github.com/meigma/classdata/internal/sizing"
)

// MarshalBinary encodes db with the compression recorded in db.Compression.
func (db *Database) MarshalBinary() ([]byte, error) {
	return db.Encode(db.Compression)
}

// Encode returns the CLDB encoding of db with its body compressed by alg.
//
// The body holds the class list followed by the string table; the header
// records the string table's position relative to the body start. The size
// fields are zero for an uncompressed body.
func (db *Database) Encode(alg codec.Algorithm) ([]byte, error) {
	body, strPos, err := db.encodeBody()
	if err != nil {
		return nil, err
	}
	strLen, err := sizing.ToUint32(len(db.StringTable), ErrTooLarge)
	if err != nil {
		return nil, err
	}

	var compressedSize, uncompressedSize uint32
	payload := body
	if alg != codec.None {
		if uncompressedSize, err = sizing.ToUint32(len(body), ErrTooLarge); err != nil {
			return nil, err
		}
		if payload, err = codec.Compress(alg, body); err != nil {
			return nil, err
		}
		if compressedSize, err = sizing.ToUint32(len(payload), ErrTooLarge); err != nil {
			return nil, err
		}
	}

	if len(db.Versions) > 0xff {
		return nil, fmt.Errorf("%w: %d version strings", ErrTooLarge, len(db.Versions))
	}
	w := binio.NewWriter(64 + len(payload))
	w.Tag(Magic)
	w.U8(db.FormatVersion)
	w.U8(db.Flags)
	w.U8(uint8(alg))
	w.U32(compressedSize)
	w.U32(uncompressedSize)
	w.U8(uint8(len(db.Versions)))
	for _, v := range db.Versions {
		if err := w.CountString(v); err != nil {
			return nil, fmt.Errorf("version string: %w", err)
		}
	}
	w.U32(strLen)
	w.U32(strPos)
	w.Raw(payload)
	return w.Bytes(), nil
}

func (db *Database) encodeBody() ([]byte, uint32, error) {
	classCount, err := sizing.ToUint32(len(db.Classes), ErrTooLarge)
	if err != nil {
		return nil, 0, err
	}
	w := binio.NewWriter(len(db.StringTable) + 64*len(db.Classes))
	w.U32(classCount)
	for i := range db.Classes {
		if err := writeClass(w, &db.Classes[i]); err != nil {
			return nil, 0, err
		}
	}
	strPos, err := sizing.ToUint32(w.Len(), ErrTooLarge)
	if err != nil {
		return nil, 0, err
	}
	w.Raw(db.StringTable)
	return w.Bytes(), strPos, nil
}

func writeClass(w *binio.Writer, c *ClassRecord) error {
	fieldCount, err := sizing.ToUint32(len(c.Fields), ErrTooLarge)
	if err != nil {
		return err
	}
	w.I32(c.ClassID)
	w.I32(c.BaseClass)
	if err := writeStringRef(w, c.Name); err != nil {
		return err
	}
	w.U32(fieldCount)
	for i := range c.Fields {
		f := &c.Fields[i]
		if err := writeStringRef(w, f.TypeName); err != nil {
			return err
		}
		if err := writeStringRef(w, f.FieldName); err != nil {
			return err
		}
		w.U8(f.Depth)
		w.U8(f.TypeFlags)
		w.I32(f.Size)
		w.U16(f.Version)
		w.U32(f.MetaFlags)
	}
	return nil
}

func writeStringRef(w *binio.Writer, r StringRef) error {
	w.Bool(r.FromTable)
	if r.FromTable {
		w.U32(r.Offset)
		return nil
	}
	enc, err := encodeLatin1(r.Inline)
	if err != nil {
		return err
	}
	return w.LenString(string(enc))
}

// WriteFile encodes db and writes it to path atomically.
func (db *Database) WriteFile(path string) error {
	data, err := db.MarshalBinary()
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0o644)
}

// ReadFile decodes the CLDB file at path.
func ReadFile(path string) (*Database, error) {
	data, err := os.ReadFile(path) //nolint:gosec // caller-provided database path
	if err != nil {
		return nil, err
	}
	db, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return db, nil
}
