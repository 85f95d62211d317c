package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestTeeHandlerCollapses(t *testing.T) {
	if _, ok := TeeHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler when every handler is nil")
	}
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)
	if got := TeeHandler(nil, inner); got != inner {
		t.Fatalf("expected the single handler unwrapped, got %T", got)
	}
}

func TestTeeHandlerRespectsEachLevel(t *testing.T) {
	var console, file bytes.Buffer
	lvlInfo := new(slog.LevelVar)
	lvlDebug := new(slog.LevelVar)
	lvlDebug.Set(slog.LevelDebug)

	logger := slog.New(TeeHandler(
		newPrettyHandler(&console, lvlInfo, false),
		newJSONHandler(&file, lvlDebug, false),
	))

	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected debug enabled through the file handler")
	}
	logger.Debug("probe finished", String("track", "01.mp3"))
	logger.Info("audiobook discovered", String(FieldBook, "Dune"))

	if strings.Contains(console.String(), "probe finished") {
		t.Fatalf("console should drop debug records, got %q", console.String())
	}
	if !strings.Contains(console.String(), "audiobook discovered book=Dune") {
		t.Fatalf("console missing info record: %q", console.String())
	}

	lines := strings.Split(strings.TrimSpace(file.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 JSON lines, got %d: %q", len(lines), file.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &entry); err != nil {
		t.Fatalf("decode json line: %v", err)
	}
	if entry["book"] != "Dune" || entry["level"] != "info" {
		t.Fatalf("unexpected json entry: %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key in %v", entry)
	}
}

func TestTeeHandlerWithAttrsReachesAllHandlers(t *testing.T) {
	var a, b bytes.Buffer
	logger := slog.New(TeeHandler(
		slog.NewTextHandler(&a, nil),
		slog.NewTextHandler(&b, nil),
	)).With(String(FieldRunID, "run-1")).WithGroup("job")

	logger.Info("done", Int("tracks", 3))

	for name, buf := range map[string]*bytes.Buffer{"first": &a, "second": &b} {
		out := buf.String()
		if !strings.Contains(out, "run_id=run-1") || !strings.Contains(out, "job.tracks=3") {
			t.Fatalf("%s handler missing attrs: %q", name, out)
		}
	}
}
