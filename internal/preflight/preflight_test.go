package preflight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bookbinder/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckSourceDirectory(t *testing.T) {
	if result := CheckSourceDirectory(t.TempDir()); !result.Passed {
		t.Fatalf("expected pass, got %s", result.Detail)
	}
	if result := CheckSourceDirectory(filepath.Join(t.TempDir(), "missing")); result.Passed {
		t.Fatal("expected failure for missing source")
	}
}

func TestCheckCreatableDirectory(t *testing.T) {
	root := t.TempDir()

	existing := CheckCreatableDirectory("out", root)
	if !existing.Passed || !strings.Contains(existing.Detail, "read/write ok") {
		t.Fatalf("unexpected result for existing dir: %+v", existing)
	}

	missing := CheckCreatableDirectory("out", filepath.Join(root, "a", "b"))
	if !missing.Passed || !strings.Contains(missing.Detail, "will be created") {
		t.Fatalf("unexpected result for creatable dir: %+v", missing)
	}

	if result := CheckCreatableDirectory("out", " "); result.Passed {
		t.Fatal("expected failure for empty path")
	}

	file := filepath.Join(root, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckCreatableDirectory("out", file); result.Passed {
		t.Fatal("expected failure when path is a file")
	}
}

func TestRunAllSkipsStateWhenHistoryDisabled(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	results := RunAll(cfg)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}

	cfg = testsupport.NewConfig(t, testsupport.WithHistoryDisabled())
	if results := RunAll(cfg); len(results) != 2 {
		t.Fatalf("expected 2 results without history, got %d", len(results))
	}
}

func TestCheckSystemDeps(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedFFmpeg(1))
	ffmpeg := cfg.FFmpeg.FFmpegBinary
	cfg.FFmpeg.FFprobeBinary = filepath.Join(testsupport.BaseDir(cfg), "missing-ffprobe")

	statuses := CheckSystemDeps(cfg)
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if !statuses[0].Available || statuses[0].Resolved != ffmpeg {
		t.Fatalf("expected ffmpeg available, got %+v", statuses[0])
	}
	if statuses[1].Available {
		t.Fatalf("expected ffprobe missing, got %+v", statuses[1])
	}
}
