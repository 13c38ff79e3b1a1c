package cldb

import (
	"fmt"
	"slices"
	"strings"
)

// String resolves r against the database's string table.
func (db *Database) String(r StringRef) (string, error) {
	return r.Resolve(db.StringTable)
}

// Strings returns the entries of the string table in table order.
func (db *Database) Strings() ([]string, error) {
	strs, _, err := Entries(db.StringTable)
	return strs, err
}

// ClassName returns the resolved name of c, or "" if it cannot be resolved.
func (db *Database) ClassName(c *ClassRecord) string {
	name, err := db.String(c.Name)
	if err != nil {
		return ""
	}
	return name
}

// FindClass returns the class named name. Classes are sorted by name, so the
// lookup is a binary search.
func (db *Database) FindClass(name string) (*ClassRecord, error) {
	i, found := slices.BinarySearchFunc(db.Classes, name, func(c ClassRecord, target string) int {
		return strings.Compare(db.ClassName(&c), target)
	})
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrClassNotFound, name)
	}
	return &db.Classes[i], nil
}

// ClassByID returns the class with the given type id.
func (db *Database) ClassByID(id int32) (*ClassRecord, error) {
	for i := range db.Classes {
		if db.Classes[i].ClassID == id {
			return &db.Classes[i], nil
		}
	}
	return nil, fmt.Errorf("%w: id %d", ErrClassNotFound, id)
}

// Validate checks the string table and class ordering invariants: entries
// are NUL-terminated and strictly ascending, every table reference points at
// an entry start, and classes are sorted by resolved name.
func (db *Database) Validate() error {
	strs, offsets, err := Entries(db.StringTable)
	if err != nil {
		return err
	}
	for i := 1; i < len(strs); i++ {
		if strs[i-1] >= strs[i] {
			return fmt.Errorf("%w: string table not strictly ascending at %q", ErrBadStringRef, strs[i])
		}
	}
	starts := make(map[uint32]struct{}, len(offsets))
	for _, off := range offsets {
		starts[off] = struct{}{}
	}
	check := func(r StringRef) error {
		if !r.FromTable {
			return nil
		}
		if _, ok := starts[r.Offset]; !ok {
			return fmt.Errorf("%w: offset %d is not an entry start", ErrBadStringRef, r.Offset)
		}
		return nil
	}

	prev := ""
	for i := range db.Classes {
		c := &db.Classes[i]
		if err := check(c.Name); err != nil {
			return err
		}
		name, err := db.String(c.Name)
		if err != nil {
			return err
		}
		if i > 0 && name < prev {
			return fmt.Errorf("cldb: classes not sorted: %q after %q", name, prev)
		}
		prev = name
		for j := range c.Fields {
			if err := check(c.Fields[j].TypeName); err != nil {
				return err
			}
			if err := check(c.Fields[j].FieldName); err != nil {
				return err
			}
		}
	}
	return nil
}
