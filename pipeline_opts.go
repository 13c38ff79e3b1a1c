package classdata

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/meigma/classdata/dump"
	"github.com/meigma/classdata/internal/codec"
	"github.com/meigma/classdata/version"
)

// ExistBehavior decides what Run does when the database directory already
// has entries.
type ExistBehavior uint8

const (
	// ExistQuit stops the run with ErrDestinationNotEmpty.
	ExistQuit ExistBehavior = iota
	// ExistDelete removes the directory and starts fresh.
	ExistDelete
	// ExistAppend keeps existing files; the skip rule decides what is rebuilt.
	ExistAppend
)

// String returns the flag spelling of b.
func (b ExistBehavior) String() string {
	switch b {
	case ExistQuit:
		return "quit"
	case ExistDelete:
		return "delete"
	case ExistAppend:
		return "append"
	default:
		return "unknown"
	}
}

// ParseExistBehavior maps "quit", "delete" or "append" to an ExistBehavior.
func ParseExistBehavior(s string) (ExistBehavior, error) {
	switch strings.ToLower(s) {
	case "quit":
		return ExistQuit, nil
	case "delete":
		return ExistDelete, nil
	case "append":
		return ExistAppend, nil
	default:
		return 0, fmt.Errorf("invalid exist behavior %q", s)
	}
}

// SkipRule decides whether an existing database file is reused.
type SkipRule uint8

const (
	// SkipExists reuses any database file that exists.
	SkipExists SkipRule = iota
	// SkipDigest reuses a database file only when its digest sidecar matches
	// the source dump and build settings.
	SkipDigest
)

// String returns the flag spelling of r.
func (r SkipRule) String() string {
	switch r {
	case SkipExists:
		return "exists"
	case SkipDigest:
		return "digest"
	default:
		return "unknown"
	}
}

// ParseSkipRule maps "exists" or "digest" to a SkipRule.
func ParseSkipRule(s string) (SkipRule, error) {
	switch strings.ToLower(s) {
	case "exists":
		return SkipExists, nil
	case "digest":
		return SkipDigest, nil
	default:
		return 0, fmt.Errorf("invalid skip rule %q", s)
	}
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithCldbDir sets the directory database files are written to.
// Defaults to "CldbDumps".
func WithCldbDir(dir string) Option {
	return func(p *Pipeline) {
		p.cldbDir = dir
	}
}

// WithOutputDir sets the directory package files are written to.
// Defaults to the working directory.
func WithOutputDir(dir string) Option {
	return func(p *Pipeline) {
		p.outDir = dir
	}
}

// WithExistBehavior sets the handling of a non-empty database directory.
// Defaults to ExistQuit.
func WithExistBehavior(b ExistBehavior) Option {
	return func(p *Pipeline) {
		p.exist = b
	}
}

// WithSelector sets the version selection. The selector's Skip also sets the
// wildcard mask written into each database.
func WithSelector(s version.Selector) Option {
	return func(p *Pipeline) {
		p.selector = s
	}
}

// WithFlavors sets which build flavors are converted and packaged.
// Defaults to dump.BuildBoth.
func WithFlavors(f dump.FlavorSet) Option {
	return func(p *Pipeline) {
		p.flavors = f
	}
}

// WithCompression sets the package compression algorithm.
// Defaults to CompressionLZMA.
func WithCompression(alg codec.Algorithm) Option {
	return func(p *Pipeline) {
		p.compression = alg
	}
}

// WithSkipRule sets how existing database files are trusted.
// Defaults to SkipExists.
func WithSkipRule(r SkipRule) Option {
	return func(p *Pipeline) {
		p.skipRule = r
	}
}

// WithWorkers sets how many versions are converted concurrently.
// Values below 1 are treated as 1.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		p.workers = n
	}
}

// WithSortedFiles packages database files in name order instead of directory
// order.
func WithSortedFiles(sorted bool) Option {
	return func(p *Pipeline) {
		p.sortedFiles = sorted
	}
}

// WithLogger sets the logger for the run.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// WithProgress sets a callback to receive progress updates.
// The callback may be invoked concurrently and must be safe for concurrent use.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Pipeline) {
		p.progress = fn
	}
}

// WithPublisher pushes each built package through pub to ref.
func WithPublisher(pub Publisher, ref string) Option {
	return func(p *Pipeline) {
		p.publisher = pub
		p.publishRef = ref
	}
}
