package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/sethvargo/go-envconfig"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir string `toml:"output_dir" json:"output_dir" env:"BOOKBINDER_OUTPUT_DIR, overwrite" validate:"required"`
	TempDir   string `toml:"temp_dir" json:"temp_dir" env:"BOOKBINDER_TEMP_DIR, overwrite" validate:"required"`
	StateDir  string `toml:"state_dir" json:"state_dir" env:"BOOKBINDER_STATE_DIR, overwrite" validate:"required"`
}

// FFmpeg contains the external tool locations and probing limits.
type FFmpeg struct {
	FFmpegBinary     string `toml:"ffmpeg_binary" json:"ffmpeg_binary" env:"BOOKBINDER_FFMPEG, overwrite" validate:"required"`
	FFprobeBinary    string `toml:"ffprobe_binary" json:"ffprobe_binary" env:"BOOKBINDER_FFPROBE, overwrite" validate:"required"`
	ProbeConcurrency int    `toml:"probe_concurrency" json:"probe_concurrency" validate:"min=1,max=64"`
}

// Conversion contains defaults applied to every conversion job.
type Conversion struct {
	TelegramMode bool `toml:"telegram_mode" json:"telegram_mode" env:"BOOKBINDER_TELEGRAM, overwrite"`
}

// History controls the conversion history store.
type History struct {
	Enabled bool `toml:"enabled" json:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format" json:"format" env:"BOOKBINDER_LOG_FORMAT, overwrite" validate:"oneof=console json"`
	Level  string `toml:"level" json:"level" env:"BOOKBINDER_LOG_LEVEL, overwrite" validate:"oneof=debug info warn error"`
}

// Config encapsulates all configuration values for bookbinder.
//
// Configuration sections:
//   - Paths: output, scratch, and state directories
//   - FFmpeg: ffmpeg/ffprobe locations and probe concurrency
//   - Conversion: telegram compatibility mode default
//   - History: conversion history store toggle
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths" json:"paths"`
	FFmpeg     FFmpeg     `toml:"ffmpeg" json:"ffmpeg"`
	Conversion Conversion `toml:"conversion" json:"conversion"`
	History    History    `toml:"history" json:"history"`
	Logging    Logging    `toml:"logging" json:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. Environment
// overrides are applied after the file is decoded. The returned config has
// all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(context.Background(), nil); err != nil {
		return nil, "", false, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// applyEnv overlays BOOKBINDER_* variables. A nil lookuper reads the process
// environment.
func (c *Config) applyEnv(ctx context.Context, lookuper envconfig.Lookuper) error {
	if lookuper == nil {
		lookuper = envconfig.OsLookuper()
	}
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   c,
		Lookuper: lookuper,
	}); err != nil {
		return fmt.Errorf("environment overrides: %w", err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the scratch and state directories. The output
// directory is created per job so a missing mount only fails the jobs.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.TempDir, c.Paths.StateDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// HistoryPath returns the SQLite history database location.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, historyFileName)
}

// LogPath returns the log file location inside the state directory.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.StateDir, logFileName)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
