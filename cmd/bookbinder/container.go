package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/samber/do/v2"

	"bookbinder/internal/audiobook"
	"bookbinder/internal/config"
	"bookbinder/internal/conversion"
	"bookbinder/internal/history"
	"bookbinder/internal/logging"
	"bookbinder/internal/transcoder"
)

// historyHandle wraps the history store with shutdown capability.
type historyHandle struct {
	*history.Store
}

// Shutdown implements do.ShutdownerWithError.
func (h *historyHandle) Shutdown() error {
	return h.Close()
}

// newContainer registers every service a command may need. Providers run
// lazily, so commands only pay for what they invoke.
func newContainer(cfg *config.Config, stdout, stderr io.Writer) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.ProvideValue(injector, cfg)
	do.Provide(injector, provideLogger)

	// Presentation
	do.ProvideValue[conversion.UserInterface](injector, newConsoleUI(stdout, shouldColorize(stdout)))
	do.ProvideValue[conversion.ProgressReporter](injector, newBarProgress(stderr, shouldColorize(stderr)))

	// Conversion services
	do.Provide(injector, provideGateway)
	do.Provide(injector, provideDiscoverer)
	do.Provide(injector, provideHistory)
	do.Provide(injector, provideOrchestrator)

	return injector
}

func provideLogger(i do.Injector) (*slog.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}

func provideGateway(i do.Injector) (*transcoder.Gateway, error) {
	cfg := do.MustInvoke[*config.Config](i)
	logger := do.MustInvoke[*slog.Logger](i)
	return transcoder.New(cfg.FFmpeg.FFmpegBinary, cfg.FFmpeg.FFprobeBinary, logger), nil
}

func provideDiscoverer(i do.Injector) (*audiobook.Discoverer, error) {
	cfg := do.MustInvoke[*config.Config](i)
	logger := do.MustInvoke[*slog.Logger](i)
	gateway := do.MustInvoke[*transcoder.Gateway](i)
	return audiobook.NewDiscoverer(gateway, logger,
		audiobook.WithProbeConcurrency(cfg.FFmpeg.ProbeConcurrency),
	), nil
}

func provideHistory(i do.Injector) (*historyHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return &historyHandle{Store: store}, nil
}

func provideOrchestrator(i do.Injector) (*conversion.Orchestrator, error) {
	cfg := do.MustInvoke[*config.Config](i)
	logger := do.MustInvoke[*slog.Logger](i)
	discoverer := do.MustInvoke[*audiobook.Discoverer](i)
	gateway := do.MustInvoke[*transcoder.Gateway](i)

	opts := []conversion.Option{
		conversion.WithUI(do.MustInvoke[conversion.UserInterface](i)),
		conversion.WithProgress(do.MustInvoke[conversion.ProgressReporter](i)),
		conversion.WithTempRoot(cfg.Paths.TempDir),
	}
	if cfg.History.Enabled {
		handle, err := do.Invoke[*historyHandle](i)
		if err != nil {
			logging.WarnWithContext(logger, "history unavailable", "history_open_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check state_dir permissions or disable [history]"),
				logging.String(logging.FieldImpact, "results of this run will not be recorded"),
			)
		} else {
			opts = append(opts, conversion.WithRecorder(handle.Store))
		}
	}
	return conversion.New(discoverer, gateway, logger, opts...), nil
}
