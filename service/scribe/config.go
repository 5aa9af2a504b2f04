package scribe

import (
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

type WhisperConfig struct {
	URL        string `toml:"url"`
	Model      string `toml:"model"`
	TimeoutSec int    `toml:"timeout_sec"`
}

type Config struct {
	Listen          string        `toml:"listen"`
	DBPath          string        `toml:"db_path"`
	WorkDir         string        `toml:"work_dir"`
	Proxy           string        `toml:"proxy"`
	Verbose         bool          `toml:"verbose"`
	FetchTimeoutSec int           `toml:"fetch_timeout_sec"`
	FetchRetries    int           `toml:"fetch_retries"`
	PageSize        int64         `toml:"page_size"`
	Whisper         WhisperConfig `toml:"whisper"`
}

func DefaultConfig() Config {
	return Config{
		Listen:          ":8080",
		DBPath:          "radioscribe.sqlite3",
		WorkDir:         os.TempDir(),
		FetchTimeoutSec: 30,
		Whisper: WhisperConfig{
			URL:        "http://127.0.0.1:9000/v1/audio/transcriptions",
			Model:      "whisper-1",
			TimeoutSec: 600,
		},
	}
}

// LoadConfig reads a TOML config file, falling back to defaults for any
// field the file leaves out. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	by, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	if err := toml.Unmarshal(by, &cfg); err != nil {
		return cfg, errors.Wrap(err, "parse config")
	}
	return cfg, nil
}

func (c Config) fetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSec) * time.Second
}

func (c Config) whisperTimeout() time.Duration {
	return time.Duration(c.Whisper.TimeoutSec) * time.Second
}
