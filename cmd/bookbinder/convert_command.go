package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"bookbinder/internal/config"
	"bookbinder/internal/conversion"
	"bookbinder/internal/logging"
	"bookbinder/internal/preflight"
	"bookbinder/internal/textutil"
	"bookbinder/internal/transcoder"
)

// errJobsFailed makes the process exit non-zero after the summary already
// explained which books failed.
var errJobsFailed = errors.New("one or more conversions failed")

const staleWorkspaceAge = 24 * time.Hour

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var outputDir string
	var telegram bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "convert DIR...",
		Short: "Convert MP3 directories into M4B audiobooks",
		Long: "Convert each directory of MP3 files into one chaptered M4B file.\n" +
			"Chapters come from metadata/metadata.json when present, otherwise one per file.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			injector, err := ctx.container(cmd)
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			logger = componentLogger(logger, "cli")
			ui := do.MustInvoke[conversion.UserInterface](injector)

			opts, err := conversionOptions(cfg, outputDir, telegram || cfg.Conversion.TelegramMode)
			if err != nil {
				return err
			}

			gateway := do.MustInvoke[*transcoder.Gateway](injector)
			if ok, msg := gateway.CheckDependencies(); !ok {
				return errors.New(msg)
			}

			dirs := validSourceDirs(args, ui)
			if len(dirs) == 0 {
				return errors.New("no valid source directories")
			}

			lock, err := conversion.LockOutputDir(opts.OutputDir)
			if err != nil {
				return err
			}
			defer func() {
				if err := lock.Release(); err != nil {
					logger.Debug("release output lock failed", logging.Error(err))
				}
			}()

			conversion.CleanStaleWorkspaces(cmd.Context(), cfg.Paths.TempDir, staleWorkspaceAge, logger)

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			orchestrator := do.MustInvoke[*conversion.Orchestrator](injector)
			results := orchestrator.ConvertBatch(runCtx, dirs, opts)

			out := cmd.OutOrStdout()
			if jsonOutput {
				if err := writeJSON(out, results); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(out)
				fmt.Fprintln(out, renderSummaryTable(results))
			}

			if runCtx.Err() != nil && len(results) < len(dirs) {
				ui.Warning(fmt.Sprintf("Canceled: %d of %d audiobook(s) were not started", len(dirs)-len(results), len(dirs)))
				return runCtx.Err()
			}
			if conversion.Succeeded(results) < len(results) {
				return errJobsFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (defaults to paths.output_dir)")
	cmd.Flags().BoolVar(&telegram, "telegram", false, "Produce files compatible with Telegram playback")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
	return cmd
}

func conversionOptions(cfg *config.Config, outputFlag string, telegram bool) (conversion.Options, error) {
	output := cfg.Paths.OutputDir
	if flag := strings.TrimSpace(outputFlag); flag != "" {
		expanded, err := config.ExpandPath(flag)
		if err != nil {
			return conversion.Options{}, fmt.Errorf("resolve output directory: %w", err)
		}
		output = expanded
	}
	return conversion.Options{OutputDir: output, TelegramMode: telegram}, nil
}

// validSourceDirs keeps readable directories, warning about the rest.
// Duplicates are dropped so a book is never converted twice in one batch.
func validSourceDirs(args []string, ui conversion.UserInterface) []string {
	seen := make(map[string]struct{}, len(args))
	dirs := make([]string, 0, len(args))
	for _, arg := range args {
		path, err := config.ExpandPath(arg)
		if err != nil {
			ui.Warning(fmt.Sprintf("Skipping '%s': %v", arg, err))
			continue
		}
		path = filepath.Clean(path)
		if check := preflight.CheckSourceDirectory(path); !check.Passed {
			ui.Warning(fmt.Sprintf("Skipping '%s': %s", arg, check.Detail))
			continue
		}
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}
		dirs = append(dirs, path)
	}
	return dirs
}

func renderSummaryTable(results []conversion.Result) string {
	rows := make([][]string, 0, len(results))
	var totalSeconds float64
	var totalBytes int64
	for _, r := range results {
		detail := r.OutputPath
		if !r.Success {
			detail = r.Error
		} else if r.Warning != "" {
			detail = r.OutputPath + " (" + r.Warning + ")"
		}
		rows = append(rows, []string{
			r.Title,
			textutil.Ternary(r.Success, "ok", "failed"),
			textutil.Ternary(r.Success, r.DurationFormatted(), "-"),
			textutil.Ternary(r.Success, r.SizeFormatted(), "-"),
			detail,
		})
		if r.Success {
			totalSeconds += r.DurationSeconds
			totalBytes += r.SizeBytes
		}
	}
	return tableSpec{
		headers: []string{"Title", "Status", "Duration", "Size", "Output"},
		rows:    rows,
		aligns:  []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
		footer: []string{
			fmt.Sprintf("%d/%d converted", conversion.Succeeded(results), len(results)),
			"",
			conversion.FormatDuration(totalSeconds),
			conversion.FormatFileSize(totalBytes),
			"",
		},
		maxWidths: []int{40, 0, 0, 0, 80},
	}.render()
}
