// Package classdata converts engine type tree dumps into class databases and
// packages them for distribution.
//
// A [Pipeline] runs the whole conversion: it locates the dump repository,
// selects one dump per version bucket, converts each selected version into a
// CLDB file per build flavor, and assembles the files of each flavor into a
// TPK package.
//
// # Quick Start
//
// Convert a local dump checkout into LZMA-compressed packages:
//
//	types, _ := version.ParseTypes("fp")
//	p := classdata.New(source.Local{Path: "./TypeTreeDumps"},
//	    classdata.WithCldbDir("CldbDumps"),
//	    classdata.WithExistBehavior(classdata.ExistAppend),
//	    classdata.WithSelector(version.Selector{Types: types, Skip: version.SkipMinor}),
//	    classdata.WithCompression(classdata.CompressionLZMA),
//	)
//	res, err := p.Run(ctx)
//	if err != nil {
//	    return err
//	}
//	for _, f := range res.Failed {
//	    log.Println(f)
//	}
//
// Per-version conversion failures never abort a run; they are collected in
// [Result.Failed]. Database files that already exist are skipped, so an
// interrupted run can be resumed with [ExistAppend].
//
// # Publishing
//
// Built packages can be pushed to an OCI registry:
//
//	p := classdata.New(src,
//	    classdata.WithPublisher(registry.New(registry.WithDockerConfig()), "ghcr.io/org/classdata:2024"),
//	)
//
// The editor and release packages are tagged "<tag>-editor" and
// "<tag>-release".
package classdata
