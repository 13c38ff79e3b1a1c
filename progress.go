package classdata

// ProgressEvent represents a progress update during a run.
type ProgressEvent struct {
	// Stage identifies the current phase of the run.
	Stage ProgressStage

	// Path is the file currently being processed, if applicable.
	Path string

	// BytesDone is the number of bytes written for the current file.
	BytesDone uint64

	// FilesDone is the number of files completed in this stage.
	FilesDone int

	// FilesTotal is the total number of files in this stage.
	// Zero indicates the total is unknown.
	FilesTotal int
}

// ProgressStage identifies the current phase of a run.
type ProgressStage uint8

// Progress stages, in run order.
const (
	// StageFetching indicates the dump repository is being located or downloaded.
	StageFetching ProgressStage = iota

	// StageSelecting indicates dump files are being listed and filtered.
	StageSelecting

	// StageConverting indicates versions are being converted to databases.
	StageConverting

	// StagePackaging indicates a package is being assembled and written.
	StagePackaging

	// StagePublishing indicates a package is being pushed to a registry.
	StagePublishing
)

// String returns the string representation of the stage.
func (s ProgressStage) String() string {
	switch s {
	case StageFetching:
		return "fetching"
	case StageSelecting:
		return "selecting"
	case StageConverting:
		return "converting"
	case StagePackaging:
		return "packaging"
	case StagePublishing:
		return "publishing"
	default:
		return "unknown"
	}
}

// ProgressFunc receives progress updates during a run.
// Implementations must be safe for concurrent calls.
type ProgressFunc func(ProgressEvent)
