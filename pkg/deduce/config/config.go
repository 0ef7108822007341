package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/deduce/pkg/deduce/internalerr"
)

// Config is the top-level YAML configuration
type Config struct {
	Log             Log      `yaml:"log"`
	Sources         []string `yaml:"sources"`
	Catalog         string   `yaml:"catalog"`
	Trace           bool     `yaml:"trace"`
	JournalCapacity int      `yaml:"journal_capacity"`
}

// Log configures the zap logger
type Log struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json
}

var (
	validLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validFormats = map[string]bool{"console": true, "json": true}
)

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		Log: Log{
			Level:  "info",
			Format: "console",
		},
		JournalCapacity: 1024,
	}
}

// Load reads a YAML config file. Relative source and catalog paths are
// resolved against the directory of the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i, src := range cfg.Sources {
		cfg.Sources[i] = resolve(dir, src)
	}
	if cfg.Catalog != "" {
		cfg.Catalog = resolve(dir, cfg.Catalog)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field values
func (c *Config) Validate() error {
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("%w: unknown log level %q", internalerr.ErrInvalidConfig, c.Log.Level)
	}
	if !validFormats[c.Log.Format] {
		return fmt.Errorf("%w: unknown log format %q", internalerr.ErrInvalidConfig, c.Log.Format)
	}
	for i, src := range c.Sources {
		if strings.TrimSpace(src) == "" {
			return fmt.Errorf("%w: sources[%d] is empty", internalerr.ErrInvalidConfig, i)
		}
	}
	if c.JournalCapacity < 0 {
		return fmt.Errorf("%w: journal_capacity must not be negative", internalerr.ErrInvalidConfig)
	}
	return nil
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
