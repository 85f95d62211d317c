package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bookbinder/internal/audiobook"
	"bookbinder/internal/config"
	"bookbinder/internal/conversion"
	"bookbinder/internal/history"
	"bookbinder/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	baseDir    string
	configPath string
	outputDir  string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	testsupport.IsolateEnv(t)
	opts = append([]testsupport.ConfigOption{testsupport.WithStubbedFFmpeg(60)}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	return &cliTestEnv{
		cfg:        cfg,
		baseDir:    testsupport.BaseDir(cfg),
		configPath: testsupport.WriteConfigFile(t, cfg),
		outputDir:  cfg.Paths.OutputDir,
	}
}

func (e *cliTestEnv) makeBook(t *testing.T, name string, files ...string) string {
	t.Helper()
	return testsupport.WriteTracks(t, filepath.Join(e.baseDir, "books", name), files...)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestConvertProducesM4BAndRecordsHistory(t *testing.T) {
	env := setupCLITestEnv(t)
	book := env.makeBook(t, "Moby Dick", "part10.mp3", "part2.mp3", "part1.mp3")

	out, _, err := runCLI(t, []string{"convert", book}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v\n%s", err, out)
	}
	requireContains(t, out, "Processing: Moby Dick")
	requireContains(t, out, "Using encoder: aac")
	requireContains(t, out, "Source: 64 kbps, 1 channel(s)")
	requireContains(t, out, "Chapters: 3")
	requireContains(t, out, "✓ Completed: Moby Dick")
	requireContains(t, out, "Duration: 00:03:00")
	requireContains(t, out, "1/1 converted")

	output := filepath.Join(env.outputDir, "Moby Dick.m4b")
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("expected output %s: %v", output, err)
	}

	histOut, _, err := runCLI(t, []string{"history", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var entries []history.Entry
	if err := json.Unmarshal([]byte(histOut), &entries); err != nil {
		t.Fatalf("decode history: %v\n%s", err, histOut)
	}
	if len(entries) != 1 || !entries[0].Result.Success || entries[0].Result.OutputPath != output {
		t.Fatalf("unexpected history: %+v", entries)
	}
}

func TestConvertTelegramFlagVerifiesOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	book := env.makeBook(t, "Short", "01.mp3")

	out, _, err := runCLI(t, []string{"convert", "--telegram", "--json", book}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, out, "Telegram extradata: Valid")
	start := strings.Index(out, "[")
	if start < 0 {
		t.Fatalf("expected JSON array in output: %s", out)
	}
	var results []conversion.Result
	if err := json.Unmarshal([]byte(out[start:]), &results); err != nil {
		t.Fatalf("decode results: %v", err)
	}
	if len(results) != 1 || results[0].Compatible == nil || !*results[0].Compatible {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestConvertTelegramFromConfig(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithTelegramMode())
	book := env.makeBook(t, "Configured", "01.mp3")

	out, _, err := runCLI(t, []string{"convert", book}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v\n%s", err, out)
	}
	requireContains(t, out, "Telegram extradata: Valid")
}

func TestConvertReportsFailedJobs(t *testing.T) {
	env := setupCLITestEnv(t)
	good := env.makeBook(t, "Good", "01.mp3")
	empty := env.makeBook(t, "Empty")

	out, _, err := runCLI(t, []string{"convert", good, empty}, env.configPath)
	if !errors.Is(err, errJobsFailed) {
		t.Fatalf("expected errJobsFailed, got %v", err)
	}
	requireContains(t, out, "✓ Completed: Good")
	requireContains(t, out, "✗ Failed: Empty")
	requireContains(t, out, "No MP3 files found in '"+empty+"'")
	requireContains(t, out, "1/2 converted")
}

func TestConvertSkipsInvalidDirectories(t *testing.T) {
	env := setupCLITestEnv(t)
	missing := filepath.Join(env.baseDir, "nope")

	out, _, err := runCLI(t, []string{"convert", missing}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "no valid source directories") {
		t.Fatalf("expected no valid directories error, got %v", err)
	}
	requireContains(t, out, "Skipping '"+missing+"'")
}

func TestConvertHaltsWhenFFmpegMissing(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.Remove(env.cfg.FFmpeg.FFmpegBinary); err != nil {
		t.Fatalf("remove stub: %v", err)
	}
	book := env.makeBook(t, "Book", "01.mp3")

	_, _, err := runCLI(t, []string{"convert", book}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "FFmpeg not found") {
		t.Fatalf("expected ffmpeg error, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(env.outputDir, "Book.m4b")); !os.IsNotExist(statErr) {
		t.Fatalf("expected no output, stat err=%v", statErr)
	}
}

func TestInspectJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	book := env.makeBook(t, "Inspect Me", "b.mp3", "a.mp3")

	out, _, err := runCLI(t, []string{"inspect", "--json", book}, env.configPath)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	var report struct {
		Job *audiobook.Job `json:"job"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode inspect: %v\n%s", err, out)
	}
	if report.Job == nil || report.Job.Title != "Inspect Me" || len(report.Job.Chapters) != 2 {
		t.Fatalf("unexpected job: %+v", report.Job)
	}
	if report.Job.Chapters[0].Title != "a" || report.Job.Chapters[1].End != 120 {
		t.Fatalf("unexpected chapters: %+v", report.Job.Chapters)
	}
}

func TestInspectTable(t *testing.T) {
	env := setupCLITestEnv(t)
	book := env.makeBook(t, "Tabled", "01.mp3")

	out, _, err := runCLI(t, []string{"inspect", book}, env.configPath)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	requireContains(t, out, "== Tabled ==")
	requireContains(t, out, "1 (from files)")
	requireContains(t, out, "01.mp3")
}

func TestCheckCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "FFmpeg:")
	requireContains(t, out, "[OK]")
	requireContains(t, out, "AAC encoder:")
	requireContains(t, out, "Output directory:")
}

func TestHistoryDisabled(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithHistoryDisabled())

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "History is disabled")
}

func TestHistoryEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No conversions recorded yet")
}
