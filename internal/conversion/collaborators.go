package conversion

import (
	"context"

	"bookbinder/internal/audiobook"
	"bookbinder/internal/transcoder"
)

// UserInterface receives the human-readable conversion narrative.
type UserInterface interface {
	Info(msg string)
	Success(msg string)
	Warning(msg string)
	Error(msg string)
	ProcessingStatus(msg string)
}

// ProgressReporter presents a long-running step. run receives a callback
// taking percentages in [0, 100]; Track returns run's error.
type ProgressReporter interface {
	Track(ctx context.Context, label string, run func(report func(percent float64)) error) error
}

// Recorder persists finished results, for example to the history store.
type Recorder interface {
	Record(ctx context.Context, runID string, result Result) error
}

// Discoverer builds a job from a source directory; (nil, nil) means the
// directory holds nothing to convert.
type Discoverer interface {
	Discover(ctx context.Context, dir string) (*audiobook.Job, error)
}

// Transcoder is the subset of the ffmpeg gateway the orchestrator drives.
type Transcoder interface {
	DetectBestEncoder(ctx context.Context) string
	RenderConcatList(tracks []audiobook.Track, workDir string) (string, error)
	RenderChapterMetadata(chapters []audiobook.Chapter, title, author, workDir string) (string, error)
	Transcode(ctx context.Context, req transcoder.Request, onProgress func(float64)) error
	VerifyCompatibility(ctx context.Context, output string) bool
}

// silentUI discards every message.
type silentUI struct{}

func (silentUI) Info(string)             {}
func (silentUI) Success(string)          {}
func (silentUI) Warning(string)          {}
func (silentUI) Error(string)            {}
func (silentUI) ProcessingStatus(string) {}

// directProgress runs the step without rendering anything.
type directProgress struct{}

func (directProgress) Track(_ context.Context, _ string, run func(func(float64)) error) error {
	return run(func(float64) {})
}
