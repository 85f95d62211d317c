package audiobook

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"
)

// Track references one source audio file.
type Track struct {
	Path string `json:"path"`
}

// Name returns the file name including extension.
func (t Track) Name() string {
	return filepath.Base(t.Path)
}

// Stem returns the file name without its extension.
func (t Track) Stem() string {
	name := t.Name()
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Chapter is a titled time range in seconds.
type Chapter struct {
	Title string  `json:"title"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// StartInt returns the start truncated to whole seconds.
func (c Chapter) StartInt() int64 {
	return int64(math.Floor(c.Start))
}

// EndInt returns the end truncated to whole seconds.
func (c Chapter) EndInt() int64 {
	return int64(math.Floor(c.End))
}

// Duration returns the chapter length in seconds.
func (c Chapter) Duration() float64 {
	return c.End - c.Start
}

// ChapterSource identifies which algorithm produced a job's chapters.
type ChapterSource int

const (
	ChapterSourceFiles ChapterSource = iota
	ChapterSourceMetadata
)

func (s ChapterSource) String() string {
	switch s {
	case ChapterSourceMetadata:
		return "metadata"
	default:
		return "files"
	}
}

// MarshalText renders the source name in JSON output.
func (s ChapterSource) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (s *ChapterSource) UnmarshalText(text []byte) error {
	switch string(text) {
	case "metadata":
		*s = ChapterSourceMetadata
	case "files", "":
		*s = ChapterSourceFiles
	default:
		return fmt.Errorf("unknown chapter source %q", text)
	}
	return nil
}

// Job is everything needed to build one M4B file.
type Job struct {
	SourceDir     string        `json:"source_dir"`
	Title         string        `json:"title"`
	Author        string        `json:"author,omitempty"`
	Tracks        []Track       `json:"tracks"`
	Durations     []float64     `json:"durations"`
	Chapters      []Chapter     `json:"chapters"`
	ChapterSource ChapterSource `json:"chapter_source"`
	TotalDuration float64       `json:"total_duration"`
	BitrateKbps   int           `json:"bitrate_kbps"`
	Channels      int           `json:"channels"`
}

// DirName returns the base name of the source directory.
func (j *Job) DirName() string {
	if j == nil {
		return ""
	}
	return filepath.Base(j.SourceDir)
}

// StreamInfo carries the probed properties of one audio file.
type StreamInfo struct {
	BitrateKbps     int
	Channels        int
	DurationSeconds float64
}

// Prober extracts stream properties from an audio file.
type Prober interface {
	Probe(ctx context.Context, path string) (StreamInfo, error)
}
