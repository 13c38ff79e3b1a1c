// Command ttdtotpk converts a type tree dump repository into class database
// packages.
//
//	ttdtotpk ttdtotpk --repodownloadtype local --repopath ./TypeTreeDumps --tpkcompressiontype lz4
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/felixge/fgprof"
	kingpin "gopkg.in/alecthomas/kingpin.v2"

	"github.com/meigma/classdata"
	"github.com/meigma/classdata/config"
	"github.com/meigma/classdata/dump"
	"github.com/meigma/classdata/internal/codec"
	"github.com/meigma/classdata/registry"
	"github.com/meigma/classdata/source"
	"github.com/meigma/classdata/version"
)

const commandName = "ttdtotpk"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// flags holds the parsed command line.
type flags struct {
	version            *string
	repoDownloadType   *string
	repoPath           *string
	tpkCompressionType *string
	tpkBuildType       *string
	cldbVerType        *string
	cldbSkip           *string
	cldbExistBehavior  *string
	cldbPath           *string
	outDir             *string
	workers            *int
	skipRule           *string
	sortFiles          *bool
	publish            *string
	plainHTTP          *bool
	logLevel           *string
	fgProfile          *string
}

// settings are the validated flag values.
type settings struct {
	low, high   version.Version
	types       version.TypeSet
	skip        version.Skip
	compression codec.Algorithm
	flavors     dump.FlavorSet
	exist       classdata.ExistBehavior
	skipRule    classdata.SkipRule
	logLevel    slog.Level
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(configPath(args), ".env")
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", commandName, err)
		return 1
	}

	terminated := -1
	app := kingpin.New("typetreedumptotpk", "Converts type tree dumps to class database packages.")
	app.UsageWriter(stdout)
	app.ErrorWriter(stderr)
	app.Terminate(func(code int) {
		if terminated < 0 {
			terminated = code
		}
	})
	app.HelpFlag.Short('h')

	cmd := app.Command(commandName, "Convert the entire dump repository to tpk files.")
	cmd.Flag("config", "Config file (yaml, json or toml).").String()
	f := flags{
		version: cmd.Flag("version", "Version or low-high range to convert; either side may be none.").
			Default(cfg.Version).String(),
		repoDownloadType: cmd.Flag("repodownloadtype", "Repository download type: git or local.").
			Default(cfg.RepoDownloadType).String(),
		repoPath: cmd.Flag("repopath", "Repository URL (git) or directory (local).").
			Default(cfg.RepoPath).String(),
		tpkCompressionType: cmd.Flag("tpkcompressiontype", "Package compression: none, lz4 or lzma.").
			Default(cfg.TpkCompressionType).String(),
		tpkBuildType: cmd.Flag("tpkbuildtype", "Build flavors: release, editor or both.").
			Default(cfg.TpkBuildType).String(),
		cldbVerType: cmd.Flag("cldbvertype", "Version types to convert, letters from a, b, c, f, p, x.").
			Default(cfg.CldbVerType).String(),
		cldbSkip: cmd.Flag("cldbskip", "Keep the latest version per minor, type or none.").
			Default(cfg.CldbSkip).String(),
		cldbExistBehavior: cmd.Flag("cldbexistbehavior", "When the cldb directory is not empty: quit, delete or append.").
			Default(cfg.CldbExistBehavior).String(),
		cldbPath: cmd.Flag("cldbpath", "Directory for the per-version cldb files.").
			Default(cfg.CldbPath).String(),
		outDir: cmd.Flag("outdir", "Directory for the tpk files.").
			Default(cfg.OutDir).String(),
		workers: cmd.Flag("workers", "Versions converted concurrently.").
			Default(strconv.Itoa(cfg.Workers)).Int(),
		skipRule: cmd.Flag("skiprule", "Reuse existing cldb files when they exist or when their digest matches.").
			Default(cfg.SkipRule).String(),
		sortFiles: cmd.Flag("sortfiles", "Package cldb files in name order instead of directory order.").
			Bool(),
		publish: cmd.Flag("publish", "OCI reference to push the packages to.").
			Default(cfg.Publish).String(),
		plainHTTP: cmd.Flag("plainhttp", "Use plain HTTP for the registry.").
			Default(strconv.FormatBool(cfg.PlainHTTP)).Bool(),
		logLevel: cmd.Flag("loglevel", "Log level: debug, info, warn or error.").
			Default(cfg.LogLevel).String(),
		fgProfile: cmd.Flag("fgprofile", "Write a wall-clock profile of the run to this file.").
			String(),
	}

	if len(args) == 0 {
		app.Usage(nil)
		return 0
	}
	if !strings.HasPrefix(args[0], "-") {
		args = append([]string{strings.ToLower(args[0])}, args[1:]...)
	}
	command, err := app.Parse(args)
	if terminated >= 0 {
		return terminated
	}
	if err != nil {
		app.Errorf("%v", err)
		return 1
	}
	if command != cmd.FullCommand() {
		return 0
	}

	s, err := validate(&f)
	if err != nil {
		app.Errorf("%v", err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: s.logLevel}))
	if *f.fgProfile != "" {
		stopProfile, err := startProfile(*f.fgProfile)
		if err != nil {
			logger.Error("start profile", "error", err)
			return 1
		}
		defer stopProfile(logger)
	}

	if err := convert(ctx, &f, s, logger); err != nil {
		if errors.Is(err, classdata.ErrDestinationNotEmpty) {
			logger.Error("cldb dir is not empty, exiting now; set --cldbexistbehavior to override", "path", *f.cldbPath)
			return 0
		}
		logger.Error("run failed", "error", err)
		return 1
	}
	return 0
}

// configPath finds --config in args before the parser is built, so the
// config file can supply flag defaults.
func configPath(args []string) string {
	for i, a := range args {
		if v, ok := strings.CutPrefix(a, "--config="); ok {
			return v
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// validate checks every enum flag before any work starts.
func validate(f *flags) (settings, error) {
	var (
		s   settings
		err error
	)
	switch strings.ToLower(*f.repoDownloadType) {
	case "git", "local":
	default:
		return s, fmt.Errorf("invalid repo download type %q", *f.repoDownloadType)
	}
	if s.low, s.high, err = version.ParseRange(*f.version); err != nil {
		return s, err
	}
	if s.types, err = version.ParseTypes(*f.cldbVerType); err != nil {
		return s, err
	}
	if s.skip, err = version.ParseSkip(*f.cldbSkip); err != nil {
		return s, err
	}
	if s.compression, err = codec.Parse(strings.ToLower(*f.tpkCompressionType)); err != nil {
		return s, err
	}
	if s.flavors, err = dump.ParseFlavorSet(*f.tpkBuildType); err != nil {
		return s, err
	}
	if s.exist, err = classdata.ParseExistBehavior(*f.cldbExistBehavior); err != nil {
		return s, err
	}
	if s.skipRule, err = classdata.ParseSkipRule(*f.skipRule); err != nil {
		return s, err
	}
	if err = s.logLevel.UnmarshalText([]byte(*f.logLevel)); err != nil {
		return s, fmt.Errorf("invalid log level %q", *f.logLevel)
	}
	if *f.workers < 1 {
		return s, fmt.Errorf("invalid worker count %d", *f.workers)
	}
	return s, nil
}

func convert(ctx context.Context, f *flags, s settings, logger *slog.Logger) error {
	var src source.Fetcher
	if strings.EqualFold(*f.repoDownloadType, "git") {
		src = &source.Git{URL: *f.repoPath, Logger: logger}
	} else {
		src = source.Local{Path: *f.repoPath}
	}

	opts := []classdata.Option{
		classdata.WithCldbDir(*f.cldbPath),
		classdata.WithOutputDir(*f.outDir),
		classdata.WithExistBehavior(s.exist),
		classdata.WithSelector(version.Selector{
			Low:   s.low,
			High:  s.high,
			Types: s.types,
			Skip:  s.skip,
		}),
		classdata.WithFlavors(s.flavors),
		classdata.WithCompression(s.compression),
		classdata.WithSkipRule(s.skipRule),
		classdata.WithWorkers(*f.workers),
		classdata.WithSortedFiles(*f.sortFiles),
		classdata.WithLogger(logger),
	}
	if *f.publish != "" {
		client := registry.New(
			registry.WithPlainHTTP(*f.plainHTTP),
			registry.WithDockerConfig(),
			registry.WithLogger(logger),
		)
		opts = append(opts, classdata.WithPublisher(client, *f.publish))
	}

	res, err := classdata.New(src, opts...).Run(ctx)
	if res != nil {
		var size int
		for _, p := range res.Packages {
			size += p.Size
		}
		logger.Info("done",
			"selected", len(res.Selected),
			"converted", len(res.Converted),
			"skipped", len(res.Skipped),
			"failed", len(res.Failed),
			"package_size", humanize.Bytes(uint64(size)), //nolint:gosec // sum of slice lengths
		)
	}
	return err
}

func startProfile(path string) (func(*slog.Logger), error) {
	file, err := os.Create(path) //nolint:gosec // user-provided profile path
	if err != nil {
		return nil, err
	}
	stop := fgprof.Start(file, fgprof.FormatPprof)
	return func(logger *slog.Logger) {
		if err := stop(); err != nil {
			logger.Warn("stop profile", "error", err)
		}
		_ = file.Close()
	}, nil
}
