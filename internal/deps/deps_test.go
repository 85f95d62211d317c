package deps

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeStub(t *testing.T, dir, name string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), mode); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := writeStub(t, binDir, "present", 0o755)
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
		{Name: "Optional", Command: "also-not-present", Optional: true},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Resolved != present || results[0].Detail != "" {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[2].Detail)
	}

	if got := Missing(results); !slices.Equal(got, []string{"Missing", "Blank"}) {
		t.Fatalf("Missing = %v", got)
	}
}

func TestResolveBinaryFromPath(t *testing.T) {
	binDir := t.TempDir()
	writeStub(t, binDir, "ffprobe-stub", 0o755)
	t.Setenv("PATH", binDir)

	resolved, err := ResolveBinary("ffprobe-stub")
	if err != nil {
		t.Fatalf("ResolveBinary returned error: %v", err)
	}
	if resolved != filepath.Join(binDir, "ffprobe-stub") {
		t.Fatalf("unexpected resolution %q", resolved)
	}
}

func TestResolveBinaryRejectsNonExecutableFile(t *testing.T) {
	path := writeStub(t, t.TempDir(), "ffmpeg", 0o644)
	t.Setenv("PATH", t.TempDir())

	_, err := ResolveBinary(path)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFFmpegRequirements(t *testing.T) {
	reqs := FFmpegRequirements("/opt/ffmpeg", "ffprobe")
	if len(reqs) != 2 || reqs[0].Name != "FFmpeg" || reqs[1].Command != "ffprobe" {
		t.Fatalf("unexpected requirements %#v", reqs)
	}
}
