// Package config loads tutorialgen settings from YAML, JSON or TOML files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-tutorialgen/pkg/stash"
)

// Config is the complete tool configuration.
type Config struct {
	Render RenderConfig `json:"render" yaml:"render" toml:"render"`
	Log    LogConfig    `json:"log" yaml:"log" toml:"log"`
	Watch  WatchConfig  `json:"watch" yaml:"watch" toml:"watch"`
}

// RenderConfig mirrors the render flags.
type RenderConfig struct {
	OutDir         string `json:"outDir" yaml:"outDir" toml:"out_dir"`
	DocSite        bool   `json:"docsite" yaml:"docsite" toml:"docsite"`
	Solution       bool   `json:"solution" yaml:"solution" toml:"solution"`
	Task           string `json:"task" yaml:"task" toml:"task"`
	Output         string `json:"output" yaml:"output" toml:"output"`
	OutputFiles    string `json:"outputFiles" yaml:"outputFiles" toml:"output_files"`
	ManifestFormat string `json:"manifestFormat" yaml:"manifestFormat" toml:"manifest_format"`
	Sanitize       bool   `json:"sanitize" yaml:"sanitize" toml:"sanitize"`
	TrimBlocks     bool   `json:"trimBlocks" yaml:"trimBlocks" toml:"trim_blocks"`
}

// LogConfig selects the logger.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level" yaml:"level" toml:"level"`
	// Format is json or console.
	Format string `json:"format" yaml:"format" toml:"format"`
}

// WatchConfig tunes the template watcher.
type WatchConfig struct {
	// Debounce is a Go duration string, e.g. "200ms".
	Debounce string `json:"debounce" yaml:"debounce" toml:"debounce"`
}

// Interval parses Debounce.
func (w WatchConfig) Interval() (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(w.Debounce))
	if err != nil {
		return 0, fmt.Errorf("config: watch.debounce: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: watch.debounce must be positive, got %s", d)
	}
	return d, nil
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Render: RenderConfig{
			ManifestFormat: string(stash.FormatJSON),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Watch: WatchConfig{
			Debounce: "200ms",
		},
	}
}

// Load reads path over the defaults. The format follows the extension:
// .yaml/.yml, .json or .toml.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, errors.New("config: path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := decode(data, path, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func decode(data []byte, path string, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("config: parse yaml %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("config: parse json %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("config: parse toml %s: %w", path, err)
		}
	default:
		return fmt.Errorf("config: unsupported config file %q", path)
	}
	return nil
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	if _, err := stash.ParseFormat(c.Render.ManifestFormat); err != nil {
		return fmt.Errorf("config: render.manifestFormat: %w", err)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	if _, err := c.Watch.Interval(); err != nil {
		return err
	}
	return nil
}
