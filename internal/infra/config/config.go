package config

import (
	"github.com/caarlos0/env/v11"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Empty prefs path falls back to <user config dir>/framescout/prefs.json.
	PrefsPath string `env:"FRAMESCOUT_PREFS_PATH" envDefault:""`
	OutputDir string `env:"FRAMESCOUT_OUTPUT_DIR" envDefault:"."`

	// SeekTimeoutMs bounds a single decoder seek. Zero disables the timeout,
	// matching the original pipeline's unbounded suspension.
	SeekTimeoutMs int `env:"FRAMESCOUT_SEEK_TIMEOUT_MS" envDefault:"0"`

	JPEGQuality int `env:"FRAMESCOUT_JPEG_QUALITY" envDefault:"85"`

	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"false"`
	MetricsPort    int    `env:"METRICS_PORT"    envDefault:"8083"`
	OTLPEndpoint   string `env:"OTLP_ENDPOINT"   envDefault:""`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
