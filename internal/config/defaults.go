package config

import "os"

const (
	defaultOutputDir        = "~/Audiobooks"
	defaultStateDir         = "~/.local/share/bookbinder"
	defaultFFmpegBinary     = "ffmpeg"
	defaultFFprobeBinary    = "ffprobe"
	defaultProbeConcurrency = 4
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultHistoryEnabled   = true
	defaultConfigPath       = "~/.config/bookbinder/config.toml"
	projectConfigName       = "bookbinder.toml"
	historyFileName         = "history.db"
	logFileName             = "bookbinder.log"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			TempDir:   os.TempDir(),
			StateDir:  defaultStateDir,
		},
		FFmpeg: FFmpeg{
			FFmpegBinary:     defaultFFmpegBinary,
			FFprobeBinary:    defaultFFprobeBinary,
			ProbeConcurrency: defaultProbeConcurrency,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
