package transcoder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"bookbinder/internal/audiobook"
	"bookbinder/internal/deps"
	"bookbinder/internal/logging"
	"bookbinder/internal/media/ffprobe"
)

const (
	fallbackBitrateKbps = 128
	fallbackChannels    = 2
	telegramExtradata   = 2
)

// Option configures the gateway.
type Option func(*Gateway)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(g *Gateway) {
		if exec != nil {
			g.exec = exec
		}
	}
}

// WithClock replaces the clock used for the chapter file's date field.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) {
		if now != nil {
			g.now = now
		}
	}
}

// Gateway wraps the ffmpeg and ffprobe command lines.
type Gateway struct {
	ffmpeg  string
	ffprobe string
	logger  *slog.Logger
	exec    Executor
	now     func() time.Time

	encoderMu sync.Mutex
	encoder   string
}

// New constructs a gateway. Empty binary names default to "ffmpeg" and
// "ffprobe" on PATH.
func New(ffmpegBinary, ffprobeBinary string, logger *slog.Logger, opts ...Option) *Gateway {
	g := &Gateway{
		ffmpeg:  defaultString(ffmpegBinary, "ffmpeg"),
		ffprobe: defaultString(ffprobeBinary, "ffprobe"),
		logger:  logging.NewComponentLogger(logger, "transcoder"),
		exec:    commandExecutor{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CheckDependencies reports whether both tools resolve. On failure the
// message names the missing tool.
func (g *Gateway) CheckDependencies() (bool, string) {
	if _, err := deps.ResolveBinary(g.ffmpeg); err != nil {
		return false, "FFmpeg not found. Please install FFmpeg and ensure it's in your PATH."
	}
	if _, err := deps.ResolveBinary(g.ffprobe); err != nil {
		return false, "FFprobe not found. Please install FFprobe and ensure it's in your PATH."
	}
	return true, ""
}

// Probe reads bitrate, channel count, and duration from one audio file.
func (g *Gateway) Probe(ctx context.Context, path string) (audiobook.StreamInfo, error) {
	result, err := g.inspect(ctx, path, "")
	if err != nil {
		return audiobook.StreamInfo{}, err
	}
	// Without an audio stream the container values and defaults still apply.
	audio, _ := result.FirstAudioStream()

	info := audiobook.StreamInfo{
		BitrateKbps: int(audio.BitRateBps() / 1000),
		Channels:    audio.Channels,
	}
	if info.BitrateKbps <= 0 {
		info.BitrateKbps = int(result.BitRateBps() / 1000)
	}
	if info.BitrateKbps <= 0 {
		info.BitrateKbps = fallbackBitrateKbps
	}
	if info.Channels <= 0 {
		info.Channels = fallbackChannels
	}

	duration := result.DurationSeconds()
	if !usableDuration(duration) {
		duration = audio.DurationSeconds()
	}
	if !usableDuration(duration) {
		return audiobook.StreamInfo{}, fmt.Errorf("probe %s: duration unavailable", path)
	}
	info.DurationSeconds = duration

	g.logger.Debug("track probed",
		logging.String("path", path),
		logging.Int("bitrate_kbps", info.BitrateKbps),
		logging.Int("channels", info.Channels),
		logging.Float64("duration_seconds", info.DurationSeconds),
	)
	return info, nil
}

// VerifyCompatibility reports whether the first audio stream of output
// carries exactly two bytes of extradata, the AAC-LC AudioSpecificConfig
// Telegram expects. Any probe failure reports false.
func (g *Gateway) VerifyCompatibility(ctx context.Context, output string) bool {
	result, err := g.inspect(ctx, output, "a:0")
	if err != nil {
		g.logger.Debug("compatibility probe failed", logging.String("path", output), logging.Error(err))
		return false
	}
	audio, ok := result.FirstAudioStream()
	if !ok {
		return false
	}
	return audio.ExtradataSize == telegramExtradata
}

func (g *Gateway) inspect(ctx context.Context, path, selector string) (ffprobe.Result, error) {
	if strings.TrimSpace(path) == "" {
		return ffprobe.Result{}, errors.New("ffprobe: empty path")
	}
	out, err := g.exec.Output(ctx, g.ffprobe, ffprobe.Args(path, selector))
	if err != nil {
		return ffprobe.Result{}, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	return ffprobe.Parse(out)
}

func usableDuration(seconds float64) bool {
	return !math.IsNaN(seconds) && !math.IsInf(seconds, 0) && seconds > 0
}

func defaultString(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
