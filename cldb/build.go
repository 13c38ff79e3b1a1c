package cldb

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"

	"github.com/meigma/classdata/dump"
	"github.com/meigma/classdata/internal/codec"
	"github.com/meigma/classdata/version"
)

// Builder converts version dumps into class databases.
type Builder struct {
	skip   version.Skip
	logger *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithSkip sets the granularity of the wildcard version mask written to the
// header. Defaults to version.SkipMinor.
func WithSkip(s version.Skip) Option {
	return func(b *Builder) {
		b.skip = s
	}
}

// WithLogger sets the logger used for build diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = l
	}
}

// NewBuilder returns a Builder configured by opts.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{skip: version.SkipMinor}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) log() *slog.Logger {
	if b.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.logger
}

// Build converts d into the database for flavor.
//
// Classes without a root node for flavor keep their name but get no fields.
// A non-empty base class name that matches no class in d fails the build.
func (b *Builder) Build(d *dump.VersionDump, flavor dump.Flavor) (*Database, error) {
	v, err := version.Parse(d.Version)
	if err != nil {
		return nil, err
	}

	classIDs := make(map[string]int32, len(d.Classes))
	for i := range d.Classes {
		classIDs[d.Classes[i].Name] = d.Classes[i].TypeID
	}

	// Offsets must be final before the first field record is emitted.
	set := make(StringSet)
	for i := range d.Classes {
		c := &d.Classes[i]
		set.Add(c.Name)
		CollectStrings(c.RootNode(flavor), set)
	}
	tab, err := NewStringTable(set)
	if err != nil {
		return nil, err
	}

	type named struct {
		name string
		rec  ClassRecord
	}
	classes := make([]named, 0, len(d.Classes))
	for i := range d.Classes {
		c := &d.Classes[i]
		rec, err := b.buildClass(c, flavor, tab, classIDs)
		if err != nil {
			return nil, fmt.Errorf("class %s: %w", c.Name, err)
		}
		classes = append(classes, named{name: c.Name, rec: rec})
	}
	slices.SortStableFunc(classes, func(a, b named) int {
		return cmp.Compare(a.name, b.name)
	})

	db := &Database{
		FormatVersion: FormatVersion,
		Compression:   codec.None,
		Versions:      []string{version.Mask(v, b.skip, true), v.String()},
		StringTable:   tab.Bytes(),
		Classes:       make([]ClassRecord, len(classes)),
	}
	for i := range classes {
		db.Classes[i] = classes[i].rec
	}

	b.log().Debug("built class database",
		"version", v.String(),
		"flavor", flavor.String(),
		"class_count", len(db.Classes),
		"string_count", tab.Len(),
	)
	return db, nil
}

func (b *Builder) buildClass(c *dump.ClassInfo, flavor dump.Flavor, tab *StringTable, classIDs map[string]int32) (ClassRecord, error) {
	base := NoBaseClass
	if c.Base != "" {
		id, ok := classIDs[c.Base]
		if !ok {
			return ClassRecord{}, fmt.Errorf("%w: %q", ErrUnknownBaseClass, c.Base)
		}
		base = id
	}

	name, err := tab.Ref(c.Name)
	if err != nil {
		return ClassRecord{}, err
	}
	fields, err := Flatten(c.RootNode(flavor), tab)
	if err != nil {
		return ClassRecord{}, err
	}
	return ClassRecord{
		ClassID:   c.TypeID,
		BaseClass: base,
		Name:      name,
		Fields:    fields,
	}, nil
}
