package conversion

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// Options are the per-batch conversion settings.
type Options struct {
	OutputDir    string
	TelegramMode bool
}

// Result describes the outcome of one job.
type Result struct {
	Success         bool          `json:"success"`
	Title           string        `json:"title"`
	SourceDir       string        `json:"source_dir"`
	OutputPath      string        `json:"output_path,omitempty"`
	DurationSeconds float64       `json:"duration_seconds,omitempty"`
	SizeBytes       int64         `json:"size_bytes,omitempty"`
	Encoder         string        `json:"encoder,omitempty"`
	Chapters        int           `json:"chapters,omitempty"`
	Compatible      *bool         `json:"telegram_compatible,omitempty"`
	Warning         string        `json:"warning,omitempty"`
	Error           string        `json:"error,omitempty"`
	Elapsed         time.Duration `json:"elapsed"`
}

// SizeFormatted renders SizeBytes with FormatFileSize.
func (r Result) SizeFormatted() string {
	return FormatFileSize(r.SizeBytes)
}

// DurationFormatted renders DurationSeconds with FormatDuration.
func (r Result) DurationFormatted() string {
	return FormatDuration(r.DurationSeconds)
}

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatFileSize renders bytes in 1024-based units with up to two decimals:
// 1536 is "1.5 KB", 1024 is "1 KB".
func FormatFileSize(bytes int64) string {
	size := float64(bytes)
	unit := 0
	for size >= 1024 && unit < len(sizeUnits)-1 {
		size /= 1024
		unit++
	}
	rounded := math.Round(size*100) / 100
	return humanize.FtoaWithDigits(rounded, 2) + " " + sizeUnits[unit]
}

// FormatDuration renders seconds as HH:MM:SS. Hours are not wrapped at 24.
func FormatDuration(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	total := int64(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total/60%60, total%60)
}

// Succeeded counts successful results.
func Succeeded(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Success {
			n++
		}
	}
	return n
}
