package conversion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"bookbinder/internal/audiobook"
	"bookbinder/internal/logging"
	"bookbinder/internal/textutil"
	"bookbinder/internal/transcoder"
)

const (
	msgTranscodeFailed = "FFmpeg conversion failed. Check the console output for details."
	msgTelegramInvalid = "Telegram extradata verification failed (extradata_size != 2). The file may not be fully compatible with Telegram."
	outputExtension    = ".m4b"
	fallbackStem       = "audiobook"
)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithUI routes the conversion narrative to ui.
func WithUI(ui UserInterface) Option {
	return func(o *Orchestrator) {
		if ui != nil {
			o.ui = ui
		}
	}
}

// WithProgress sets how the encode step is presented.
func WithProgress(progress ProgressReporter) Option {
	return func(o *Orchestrator) {
		if progress != nil {
			o.progress = progress
		}
	}
}

// WithRecorder persists every batch result through r.
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) {
		o.recorder = r
	}
}

// WithTempRoot sets the directory scratch workspaces are created under.
func WithTempRoot(dir string) Option {
	return func(o *Orchestrator) {
		o.tempRoot = strings.TrimSpace(dir)
	}
}

// WithClock overrides the time source used for elapsed times.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// Orchestrator drives discovery, encoding and cleanup for each job.
type Orchestrator struct {
	discoverer Discoverer
	transcoder Transcoder
	logger     *slog.Logger
	ui         UserInterface
	progress   ProgressReporter
	recorder   Recorder
	tempRoot   string
	now        func() time.Time
}

// New constructs an Orchestrator. UI and progress default to silent
// implementations.
func New(discoverer Discoverer, tc Transcoder, logger *slog.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	o := &Orchestrator{
		discoverer: discoverer,
		transcoder: tc,
		logger:     logging.NewComponentLogger(logger, "conversion"),
		ui:         silentUI{},
		progress:   directProgress{},
		tempRoot:   os.TempDir(),
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// ConvertBatch converts dirs one at a time. Cancellation is checked before
// each job; results gathered so far are returned when it fires.
func (o *Orchestrator) ConvertBatch(ctx context.Context, dirs []string, opts Options) []Result {
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, o.logger)
	logger.Info("batch started",
		logging.Int("jobs", len(dirs)),
		logging.String("output_dir", opts.OutputDir),
		logging.Bool("telegram_mode", opts.TelegramMode),
	)

	results := make([]Result, 0, len(dirs))
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			logger.Info("batch stopped before next job",
				logging.String(logging.FieldSourceDir, dir),
				logging.Error(err),
			)
			break
		}

		o.ui.ProcessingStatus("\nProcessing: " + filepath.Base(dir))
		result := o.Convert(ctx, dir, opts)
		logger.Debug("job finished",
			logging.String(logging.FieldSourceDir, dir),
			logging.Bool("success", result.Success),
			logging.Duration("elapsed", result.Elapsed),
		)
		o.report(result)
		if o.recorder != nil {
			if err := o.recorder.Record(ctx, runID, result); err != nil {
				logging.WarnWithContext(logger, "history record failed", "history_write_failed",
					logging.String(logging.FieldSourceDir, dir),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check the state directory is writable"),
					logging.String(logging.FieldImpact, "result missing from history"),
				)
			}
		}
		results = append(results, result)
	}

	logger.Info("batch finished",
		logging.Int("completed", len(results)),
		logging.Int("succeeded", Succeeded(results)),
	)
	return results
}

// Convert turns one source directory into one M4B file. It never returns an
// error; every failure is described by the Result.
func (o *Orchestrator) Convert(ctx context.Context, dir string, opts Options) (result Result) {
	started := o.now()
	fallbackTitle := filepath.Base(dir)
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("conversion panicked",
				logging.String(logging.FieldSourceDir, dir),
				logging.Any("panic", r),
			)
			result = failure(dir, fallbackTitle, fmt.Sprintf("Conversion failed: %v", r))
		}
		result.Elapsed = o.now().Sub(started)
	}()

	result, err := o.convert(ctx, dir, opts)
	if err != nil {
		logging.ErrorWithContext(logging.WithContext(ctx, o.logger), "conversion failed", "conversion_failed",
			logging.String(logging.FieldSourceDir, dir),
			logging.Error(err),
		)
		return failure(dir, fallbackTitle, "Conversion failed: "+err.Error())
	}
	return result
}

func (o *Orchestrator) convert(ctx context.Context, dir string, opts Options) (Result, error) {
	if o.discoverer == nil || o.transcoder == nil {
		return Result{}, errors.New("orchestrator is missing a discoverer or transcoder")
	}

	job, err := o.discoverer.Discover(ctx, dir)
	if err != nil {
		return Result{}, err
	}
	if job == nil {
		return failure(dir, filepath.Base(dir), fmt.Sprintf("No MP3 files found in '%s'", dir)), nil
	}

	ctx = logging.WithBook(ctx, job.Title)
	logger := logging.WithContext(ctx, o.logger).With(logging.String(logging.FieldSourceDir, dir))

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create output directory: %w", err)
	}

	ws, err := newWorkspace(o.tempRoot, logger)
	if err != nil {
		return Result{}, err
	}
	defer ws.Remove()

	concatList, err := o.transcoder.RenderConcatList(job.Tracks, ws.Dir)
	if err != nil {
		return Result{}, err
	}
	chapterFile, err := o.transcoder.RenderChapterMetadata(job.Chapters, job.Title, job.Author, ws.Dir)
	if err != nil {
		return Result{}, err
	}

	output := filepath.Join(opts.OutputDir, outputStem(job)+outputExtension)
	encoder := o.transcoder.DetectBestEncoder(ctx)

	o.ui.Info("Using encoder: " + encoder)
	o.ui.Info(fmt.Sprintf("Source: %d kbps, %d channel(s)", job.BitrateKbps, job.Channels))
	o.ui.Info(fmt.Sprintf("Chapters: %d", len(job.Chapters)))
	logger.Info("transcode starting",
		logging.String("encoder", encoder),
		logging.Int("bitrate_kbps", job.BitrateKbps),
		logging.Int("channels", job.Channels),
		logging.Int("chapters", len(job.Chapters)),
		logging.String("chapter_source", job.ChapterSource.String()),
		logging.Float64("duration_seconds", job.TotalDuration),
		logging.String("output", output),
	)

	req := transcoder.Request{
		ConcatList:    concatList,
		ChapterFile:   chapterFile,
		Output:        output,
		Encoder:       encoder,
		BitrateKbps:   job.BitrateKbps,
		Channels:      job.Channels,
		TotalDuration: job.TotalDuration,
		TelegramMode:  opts.TelegramMode,
	}
	sampler := logging.NewProgressSampler(10)
	err = o.progress.Track(ctx, "Converting "+job.Title, func(report func(float64)) error {
		return o.transcoder.Transcode(ctx, req, func(percent float64) {
			report(percent)
			if sampler.ShouldLog(percent, "encode") {
				logger.Debug("transcode progress", logging.Float64("percent", percent))
			}
		})
	})
	ws.Remove()
	if err != nil {
		logging.WarnWithContext(logger, "transcode failed", "transcode_failed",
			logging.Error(err),
			logging.Bool("canceled", errors.Is(err, transcoder.ErrCanceled)),
			logging.String(logging.FieldErrorHint, "rerun with --log-level debug to see ffmpeg output"),
			logging.String(logging.FieldImpact, "no output written for this book"),
		)
		return failure(dir, job.Title, msgTranscodeFailed), nil
	}

	if err := stripQuarantine(output); err != nil {
		logger.Debug("quarantine removal failed", logging.Error(err))
	}

	result := Result{
		Success:         true,
		Title:           job.Title,
		SourceDir:       dir,
		OutputPath:      output,
		DurationSeconds: job.TotalDuration,
		Encoder:         encoder,
		Chapters:        len(job.Chapters),
	}
	if info, err := os.Stat(output); err == nil {
		result.SizeBytes = info.Size()
	} else {
		logger.Debug("stat output failed", logging.Error(err))
	}

	if opts.TelegramMode {
		valid := o.transcoder.VerifyCompatibility(ctx, output)
		result.Compatible = &valid
		if !valid {
			result.Warning = msgTelegramInvalid
		}
	}

	logger.Info("conversion completed",
		logging.String("output", output),
		logging.Int64("size_bytes", result.SizeBytes),
	)
	return result, nil
}

// report shows the per-job summary immediately after the job ends.
func (o *Orchestrator) report(r Result) {
	if !r.Success {
		o.ui.Error("✗ Failed: " + r.Title)
		o.ui.Error("  " + r.Error)
		return
	}
	o.ui.Success("✓ Completed: " + r.Title)
	o.ui.Info("  Duration: " + r.DurationFormatted())
	o.ui.Info("  Size: " + r.SizeFormatted())
	o.ui.Info("  Output: " + r.OutputPath)
	if r.Compatible != nil {
		if *r.Compatible {
			o.ui.Success("  Telegram extradata: Valid")
		} else {
			o.ui.Warning("  ⚠ " + r.Warning)
		}
	}
}

func failure(dir, title, msg string) Result {
	return Result{Title: title, SourceDir: dir, Error: msg}
}

// outputStem sanitizes the job title, falling back to the directory name.
func outputStem(job *audiobook.Job) string {
	if stem := textutil.SanitizeFileName(job.Title); stem != "" {
		return stem
	}
	if stem := textutil.SanitizeFileName(job.DirName()); stem != "" && stem != "." {
		return stem
	}
	return fallbackStem
}
