package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"bookbinder/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Output, temp, and state directories live under one base directory.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")
	cfgVal.Paths.TempDir = filepath.Join(base, "tmp")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Logging.Level = "error"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithTelegramMode enables Telegram compatibility on the test config.
func WithTelegramMode() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Conversion.TelegramMode = true
	}
}

// WithHistoryDisabled turns the history store off.
func WithHistoryDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

// WithStubbedFFmpeg writes ffmpeg and ffprobe stub scripts under the base
// directory and points the config at them. Every probed file reports
// trackSeconds of 64 kbps mono audio.
func WithStubbedFFmpeg(trackSeconds float64) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		ffmpeg := filepath.Join(binDir, "ffmpeg")
		ffprobe := filepath.Join(binDir, "ffprobe")
		writeScript(b.t, ffmpeg, FFmpegStub(trackSeconds))
		writeScript(b.t, ffprobe, FFprobeStub(trackSeconds))
		b.cfg.FFmpeg.FFmpegBinary = ffmpeg
		b.cfg.FFmpeg.FFprobeBinary = ffprobe
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.OutputDir)
}

// WriteConfigFile encodes cfg as TOML next to its directories and returns
// the file path.
func WriteConfigFile(t testing.TB, cfg *config.Config) string {
	t.Helper()

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	path := filepath.Join(BaseDir(cfg), "config.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// IsolateEnv points HOME at a temp directory and clears every BOOKBINDER_*
// override so host settings cannot leak into a test.
func IsolateEnv(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{
		"BOOKBINDER_OUTPUT_DIR",
		"BOOKBINDER_TEMP_DIR",
		"BOOKBINDER_STATE_DIR",
		"BOOKBINDER_FFMPEG",
		"BOOKBINDER_FFPROBE",
		"BOOKBINDER_TELEGRAM",
		"BOOKBINDER_LOG_FORMAT",
		"BOOKBINDER_LOG_LEVEL",
	} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
	return home
}
