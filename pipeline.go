package classdata

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"golang.org/x/sync/errgroup"

	"github.com/meigma/classdata/cldb"
	"github.com/meigma/classdata/dump"
	"github.com/meigma/classdata/internal/codec"
	"github.com/meigma/classdata/internal/fsutil"
	"github.com/meigma/classdata/registry"
	"github.com/meigma/classdata/source"
	"github.com/meigma/classdata/tpk"
	"github.com/meigma/classdata/version"
)

// Publisher pushes an encoded package to a registry reference.
type Publisher interface {
	Publish(ctx context.Context, ref string, flavor dump.Flavor, data []byte, opts ...registry.PushOption) (ocispec.Descriptor, error)
}

// Pipeline converts a dump repository into class databases and packages.
type Pipeline struct {
	source      source.Fetcher
	cldbDir     string
	outDir      string
	exist       ExistBehavior
	selector    version.Selector
	flavors     dump.FlavorSet
	compression codec.Algorithm
	skipRule    SkipRule
	workers     int
	sortedFiles bool
	logger      *slog.Logger
	progress    ProgressFunc
	publisher   Publisher
	publishRef  string
}

// New returns a Pipeline reading dumps from src.
func New(src source.Fetcher, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:      src,
		cldbDir:     "CldbDumps",
		outDir:      ".",
		flavors:     dump.BuildBoth,
		compression: codec.LZMA,
		selector:    version.Selector{Types: version.DefaultTypes, Skip: version.SkipMinor},
		workers:     1,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.workers < 1 {
		p.workers = 1
	}
	return p
}

func (p *Pipeline) log() *slog.Logger {
	if p.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.logger
}

func (p *Pipeline) emit(ev ProgressEvent) {
	if p.progress != nil {
		p.progress(ev)
	}
}

// Result summarizes a run.
type Result struct {
	// Selected lists the versions chosen for conversion, ascending.
	Selected []version.Selection

	// Converted lists the database files written.
	Converted []string

	// Skipped lists the database files reused from a previous run.
	Skipped []string

	// Failed lists the dumps that could not be converted.
	Failed []*ConversionError

	// Packages lists the package builds, one per flavor.
	Packages []PackageResult
}

// PackageResult is the outcome of building one flavor's package.
type PackageResult struct {
	Flavor dump.Flavor

	// Path is the written package file. Empty when the build failed.
	Path string

	Files int
	Size  int

	// Published is the manifest descriptor when the package was published.
	Published *ocispec.Descriptor

	Err error
}

// Run converts the selected versions and builds the packages.
//
// It fails before any conversion when the database directory is not empty
// under ExistQuit or when the repository cannot be fetched. Per-version
// failures are collected in Result.Failed. Each flavor's package is built
// even when the other fails; package failures are joined into the returned
// error.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	if err := p.prepareCldbDir(); err != nil {
		return nil, err
	}

	p.emit(ProgressEvent{Stage: StageFetching})
	repo, err := p.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch dump repository: %w", err)
	}
	dumpDir := source.DumpDir(repo)

	p.emit(ProgressEvent{Stage: StageSelecting, Path: dumpDir})
	names, err := listDumps(dumpDir)
	if err != nil {
		return nil, fmt.Errorf("list dumps: %w", err)
	}
	sel := p.selector
	if sel.Logger == nil {
		sel.Logger = p.logger
	}
	selected, selectErrs := sel.Select(names)

	res := &Result{Selected: selected}
	for _, err := range selectErrs {
		file := dumpDir
		var nameErr *version.NameError
		if errors.As(err, &nameErr) {
			file, err = filepath.Join(dumpDir, nameErr.Name+".json"), nameErr.Err
		}
		res.Failed = append(res.Failed, &ConversionError{File: file, Err: err})
	}
	p.log().Info("selected versions", "count", len(selected), "dumps", len(names))

	if err := p.convertAll(ctx, dumpDir, selected, res); err != nil {
		return res, err
	}
	for _, f := range res.Failed {
		p.log().Error("conversion failed", "file", f.File, "error", f.Err)
	}

	pkgs, err := p.Package(ctx)
	res.Packages = pkgs
	return res, err
}

func (p *Pipeline) prepareCldbDir() error {
	empty, err := fsutil.IsDirEmpty(p.cldbDir)
	if err != nil {
		return err
	}
	if !empty {
		switch p.exist {
		case ExistQuit:
			return fmt.Errorf("%w: %s", ErrDestinationNotEmpty, p.cldbDir)
		case ExistDelete:
			p.log().Info("removing existing databases", "path", p.cldbDir)
			if err := os.RemoveAll(p.cldbDir); err != nil {
				return err
			}
		case ExistAppend:
		}
	}
	return os.MkdirAll(p.cldbDir, 0o750)
}

// listDumps returns the base names of the .json files in dir.
func listDumps(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name, ok := strings.CutSuffix(e.Name(), ".json"); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// conversion is the outcome of converting one version.
type conversion struct {
	converted []string
	skipped   []string
	err       *ConversionError
}

// convertAll converts every selection. Conversions are independent, so up to
// p.workers run at once; results are recorded in selection order.
func (p *Pipeline) convertAll(ctx context.Context, dumpDir string, selected []version.Selection, res *Result) error {
	results := make([]conversion, len(selected))
	builder := cldb.NewBuilder(cldb.WithSkip(p.selector.Skip), cldb.WithLogger(p.logger))

	var (
		mu   sync.Mutex
		done int
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, s := range selected {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(dumpDir, s.Name+".json")
			results[i] = p.convert(builder, path, s.Version)

			mu.Lock()
			done++
			p.emit(ProgressEvent{Stage: StageConverting, Path: path, FilesDone: done, FilesTotal: len(selected)})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, r := range results {
		res.Converted = append(res.Converted, r.converted...)
		res.Skipped = append(res.Skipped, r.skipped...)
		if r.err != nil {
			res.Failed = append(res.Failed, r.err)
		}
	}
	return nil
}

// convert builds the databases of every requested flavor for one dump. Any
// failure is scoped to this dump.
func (p *Pipeline) convert(builder *cldb.Builder, path string, v version.Version) conversion {
	var out conversion
	fail := func(err error) conversion {
		out.err = &ConversionError{File: path, Err: err}
		return out
	}

	raw, err := os.ReadFile(path) //nolint:gosec // path built from the dump directory listing
	if err != nil {
		return fail(err)
	}
	src := digest.FromBytes(raw)

	var d *dump.VersionDump
	for _, flavor := range dump.Flavors {
		if !p.flavors.Has(flavor) {
			continue
		}
		dbPath := filepath.Join(p.cldbDir, v.String()+flavor.Suffix()+tpk.Extension)
		ok, err := p.upToDate(dbPath, src, flavor)
		if err != nil {
			return fail(err)
		}
		if ok {
			p.log().Debug("database up to date", "file", dbPath)
			out.skipped = append(out.skipped, dbPath)
			continue
		}

		if d == nil {
			p.log().Info("converting", "version", v.String(), "file", path)
			if d, err = dump.Decode(bytes.NewReader(raw)); err != nil {
				return fail(err)
			}
		}
		db, err := builder.Build(d, flavor)
		if err != nil {
			return fail(fmt.Errorf("%s: %w", flavor, err))
		}
		if err := db.WriteFile(dbPath); err != nil {
			return fail(err)
		}
		if err := p.writeSidecar(dbPath, src, flavor); err != nil {
			return fail(err)
		}
		out.converted = append(out.converted, dbPath)
	}
	return out
}

// Package assembles and writes the package of every requested flavor from
// the database directory, publishing each when a publisher is configured.
// Flavors are built independently; their errors are joined.
func (p *Pipeline) Package(ctx context.Context) ([]PackageResult, error) {
	asm := tpk.NewAssembler(
		tpk.WithCompression(p.compression),
		tpk.WithSortedFiles(p.sortedFiles),
		tpk.WithLogger(p.logger),
	)

	var (
		results []PackageResult
		errs    []error
	)
	for _, flavor := range dump.Flavors {
		if !p.flavors.Has(flavor) {
			continue
		}
		r := p.buildPackage(ctx, asm, flavor)
		if r.Err != nil {
			p.log().Error("package failed", "flavor", flavor.String(), "error", r.Err)
			errs = append(errs, fmt.Errorf("%s package: %w", flavor, r.Err))
		}
		results = append(results, r)
	}
	return results, errors.Join(errs...)
}

// PackageFileName returns the package file name for flavor.
func PackageFileName(flavor dump.Flavor) string {
	return "classdata" + flavor.Suffix() + ".tpk"
}

func (p *Pipeline) buildPackage(ctx context.Context, asm *tpk.Assembler, flavor dump.Flavor) PackageResult {
	r := PackageResult{Flavor: flavor}
	path := filepath.Join(p.outDir, PackageFileName(flavor))
	p.emit(ProgressEvent{Stage: StagePackaging, Path: path})
	p.log().Info("building package", "flavor", flavor.String(), "compression", p.compression.String())

	pkg, err := asm.Assemble(p.cldbDir, flavor)
	if err != nil {
		r.Err = err
		return r
	}
	data, err := pkg.MarshalBinary()
	if err != nil {
		r.Err = err
		return r
	}
	if err := fsutil.WriteFileAtomic(path, data, 0o644); err != nil {
		r.Err = err
		return r
	}
	r.Path, r.Files, r.Size = path, len(pkg.Files), len(data)
	p.emit(ProgressEvent{Stage: StagePackaging, Path: path, BytesDone: uint64(len(data)), FilesDone: len(pkg.Files), FilesTotal: len(pkg.Files)})
	p.log().Info("wrote package",
		"path", path,
		"files", len(pkg.Files),
		"size", humanize.Bytes(uint64(len(data))),
	)

	if p.publisher == nil {
		return r
	}
	p.emit(ProgressEvent{Stage: StagePublishing, Path: path})
	desc, err := p.publisher.Publish(ctx, p.publishRef, flavor, data)
	if err != nil {
		r.Err = fmt.Errorf("publish: %w", err)
		return r
	}
	r.Published = &desc
	return r
}
