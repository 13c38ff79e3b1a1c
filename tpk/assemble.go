package tpk

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/meigma/classdata/cldb"
	"github.com/meigma/classdata/dump"
	"github.com/meigma/classdata/internal/codec"
)

// Extension is the file extension of per-version database files.
const Extension = ".dat"

// Assembler builds packages from directories of class database files.
type Assembler struct {
	alg    codec.Algorithm
	sorted bool
	logger *slog.Logger
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithCompression sets the package compression algorithm. Defaults to
// codec.None.
func WithCompression(alg codec.Algorithm) Option {
	return func(a *Assembler) {
		a.alg = alg
	}
}

// WithSortedFiles imports files in name order instead of directory order.
func WithSortedFiles(sorted bool) Option {
	return func(a *Assembler) {
		a.sorted = sorted
	}
}

// WithLogger sets the logger used for per-file diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(a *Assembler) {
		a.logger = l
	}
}

// NewAssembler returns an Assembler configured by opts.
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{alg: codec.None}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Assembler) log() *slog.Logger {
	if a.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.logger
}

// Assemble reads every "<version><suffix>.dat" file in dir for flavor and
// returns the package holding them.
//
// Files are imported in directory order unless WithSortedFiles is set. Each
// database is re-encoded so its body compression follows the descriptor.
func (a *Assembler) Assemble(dir string, flavor dump.Flavor) (*Package, error) {
	if !a.alg.Valid() {
		return nil, fmt.Errorf("%w: %d", codec.ErrUnknownAlgorithm, a.alg)
	}
	names, err := a.listFiles(dir, flavor.Suffix()+Extension)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		a.log().Warn("no class databases to package", "flavor", flavor.String(), "dir", dir)
	}

	desc := NewDescriptor(a.alg)
	blobAlg := codec.None
	if desc.CldbBlobsCompressed() {
		blobAlg = desc.Algorithm()
	}

	pkg := &Package{Descriptor: desc, Files: make([]File, 0, len(names))}
	for _, name := range names {
		db, err := cldb.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		data, err := db.Encode(blobAlg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		f := File{
			Name: NamePrefix + strings.TrimSuffix(name, flavor.Suffix()+Extension),
			Data: data,
		}
		a.log().Debug("added class database", "file", name, "name", f.Name, "size", len(data))
		pkg.Files = append(pkg.Files, f)
	}
	return pkg, nil
}

func (a *Assembler) listFiles(dir, suffix string) ([]string, error) {
	d, err := os.Open(dir) //nolint:gosec // caller-provided directory
	if err != nil {
		return nil, err
	}
	defer d.Close()

	// (*os.File).ReadDir keeps the order the filesystem returns.
	entries, err := d.ReadDir(-1)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || strings.HasPrefix(name, ".") {
			continue
		}
		if !strings.HasSuffix(name, suffix) || name == suffix {
			continue
		}
		names = append(names, name)
	}
	if a.sorted {
		slices.Sort(names)
	}
	return names, nil
}
