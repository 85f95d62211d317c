package audiobook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"bookbinder/internal/logging"
)

const (
	// AudioExtension is the only source format the discoverer collects.
	AudioExtension = ".mp3"

	defaultProbeConcurrency = 4
)

// Option configures a Discoverer.
type Option func(*Discoverer)

// WithProbeConcurrency bounds how many tracks are probed at once.
func WithProbeConcurrency(n int) Option {
	return func(d *Discoverer) {
		if n > 0 {
			d.concurrency = n
		}
	}
}

// Discoverer turns a source directory into a Job.
type Discoverer struct {
	prober      Prober
	logger      *slog.Logger
	concurrency int
}

// NewDiscoverer constructs a Discoverer backed by prober.
func NewDiscoverer(prober Prober, logger *slog.Logger, opts ...Option) *Discoverer {
	d := &Discoverer{
		prober:      prober,
		logger:      logging.NewComponentLogger(logger, "discovery"),
		concurrency: defaultProbeConcurrency,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Discover scans dir and builds its Job. It returns (nil, nil) when the
// directory does not exist or holds no MP3 files. A probe failure on any
// track fails the whole discovery.
func (d *Discoverer) Discover(ctx context.Context, dir string) (*Job, error) {
	if d == nil || d.prober == nil {
		return nil, errors.New("discoverer requires a prober")
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve directory: %w", err)
	}

	tracks, err := ListTracks(absDir)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, nil
	}

	infos, err := d.probeAll(ctx, tracks)
	if err != nil {
		return nil, err
	}

	meta, err := LoadMetadata(absDir)
	if err != nil {
		d.logger.Debug("ignoring unreadable metadata",
			logging.String("dir", absDir),
			logging.Error(err),
		)
		meta = nil
	}

	durations := make([]float64, len(infos))
	total := 0.0
	for i, info := range infos {
		durations[i] = info.DurationSeconds
		total += info.DurationSeconds
	}

	plan := resolvePlan(meta, tracks, durations)
	dirName := filepath.Base(absDir)
	job := &Job{
		SourceDir:     absDir,
		Title:         plan.title(dirName),
		Author:        plan.author(),
		Tracks:        tracks,
		Durations:     durations,
		Chapters:      plan.chapters(total),
		ChapterSource: plan.source(),
		TotalDuration: total,
		BitrateKbps:   infos[0].BitrateKbps,
		Channels:      infos[0].Channels,
	}

	d.logger.Info("audiobook discovered",
		logging.String(logging.FieldBook, job.Title),
		logging.Int("tracks", len(tracks)),
		logging.Int("chapters", len(job.Chapters)),
		logging.String("chapter_source", job.ChapterSource.String()),
		logging.Float64("duration_seconds", total),
	)
	return job, nil
}

func (d *Discoverer) probeAll(ctx context.Context, tracks []Track) ([]StreamInfo, error) {
	infos := make([]StreamInfo, len(tracks))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(d.concurrency)
	for i, track := range tracks {
		group.Go(func() error {
			info, err := d.prober.Probe(groupCtx, track.Path)
			if err != nil {
				return fmt.Errorf("probe %s: %w", track.Name(), err)
			}
			infos[i] = info
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return infos, nil
}

// ListTracks returns the naturally ordered MP3 files directly inside dir.
// A missing directory yields no tracks and no error.
func ListTracks(dir string) ([]Track, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list directory: %w", err)
	}
	tracks := make([]Track, 0, len(entries))
	for _, entry := range entries {
		if !strings.EqualFold(filepath.Ext(entry.Name()), AudioExtension) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if !entry.Type().IsRegular() {
			info, statErr := os.Stat(path)
			if statErr != nil || !info.Mode().IsRegular() {
				continue
			}
		}
		tracks = append(tracks, Track{Path: path})
	}
	SortNatural(tracks)
	return tracks, nil
}
