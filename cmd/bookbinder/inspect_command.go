package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"bookbinder/internal/audiobook"
	"bookbinder/internal/config"
	"bookbinder/internal/conversion"
	"bookbinder/internal/transcoder"
)

type inspectReport struct {
	Job  *audiobook.Job        `json:"job"`
	Tags []audiobook.TrackTags `json:"tags"`
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "inspect DIR",
		Short: "Show the tracks and chapters a directory would produce",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			injector, err := ctx.container(cmd)
			if err != nil {
				return err
			}
			gateway := do.MustInvoke[*transcoder.Gateway](injector)
			if ok, msg := gateway.CheckDependencies(); !ok {
				return errors.New(msg)
			}

			dir, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve directory: %w", err)
			}
			discoverer := do.MustInvoke[*audiobook.Discoverer](injector)
			job, err := discoverer.Discover(cmd.Context(), dir)
			if err != nil {
				return err
			}
			if job == nil {
				return fmt.Errorf("no MP3 files found in '%s'", dir)
			}

			tags := make([]audiobook.TrackTags, len(job.Tracks))
			for i, track := range job.Tracks {
				if t, err := audiobook.ReadTags(track); err == nil {
					tags[i] = t
				}
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return writeJSON(out, inspectReport{Job: job, Tags: tags})
			}

			report := newStatusPrinter(out)
			report.section(job.Title)
			author := job.Author
			if author == "" {
				author = "-"
			}
			report.field("Author", statusInfo, author)
			report.field("Source", statusInfo, job.SourceDir)
			report.field("Duration", statusInfo, conversion.FormatDuration(job.TotalDuration))
			report.field("Audio", statusInfo, fmt.Sprintf("%d kbps, %d channel(s)", job.BitrateKbps, job.Channels))
			report.field("Chapters", statusInfo, fmt.Sprintf("%d (from %s)", len(job.Chapters), job.ChapterSource))
			report.blank()
			fmt.Fprintln(out, renderChapterTable(job.Chapters))
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderTrackTable(job, tags))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the discovered job as JSON")
	return cmd
}

func renderChapterTable(chapters []audiobook.Chapter) string {
	rows := make([][]string, 0, len(chapters))
	for i, ch := range chapters {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			ch.Title,
			conversion.FormatDuration(ch.Start),
			conversion.FormatDuration(ch.End),
			conversion.FormatDuration(ch.Duration()),
		})
	}
	return renderTable(
		[]string{"#", "Chapter", "Start", "End", "Length"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight},
	)
}

func renderTrackTable(job *audiobook.Job, tags []audiobook.TrackTags) string {
	rows := make([][]string, 0, len(job.Tracks))
	for i, track := range job.Tracks {
		duration := "-"
		if i < len(job.Durations) {
			duration = conversion.FormatDuration(job.Durations[i])
		}
		title, artist := "-", "-"
		if i < len(tags) {
			if tags[i].Title != "" {
				title = tags[i].Title
			}
			if tags[i].Artist != "" {
				artist = tags[i].Artist
			}
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			filepath.Base(track.Path),
			duration,
			title,
			artist,
		})
	}
	return renderTable(
		[]string{"#", "File", "Duration", "Tag title", "Tag artist"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft},
	)
}
