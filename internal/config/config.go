// Package config loads and validates the YAML configuration for the
// report rendering CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-agentreport/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
)

// Bounds for tunable values.
const (
	MaxWorkers      = 64
	MaxRenderWait   = 10 * time.Minute
	MinPollInterval = 10 * time.Millisecond
	MaxEndpointLen  = 2048 // Browser URL limit
)

// Config holds all configuration for report rendering.
type Config struct {
	Input       InputConfig       `yaml:"input"`
	Output      OutputConfig      `yaml:"output"`
	Render      RenderConfig      `yaml:"render"`
	Watch       WatchConfig       `yaml:"watch"`
	ImageSearch ImageSearchConfig `yaml:"imageSearch"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
}

// RenderConfig tunes the renderer pool.
type RenderConfig struct {
	Workers int           `yaml:"workers"` // 0 = derive from GOMAXPROCS
	Timeout time.Duration `yaml:"timeout"` // Per-document render timeout (0 = library default)
}

// WatchConfig tunes the transformation loop.
type WatchConfig struct {
	PollInterval time.Duration `yaml:"pollInterval"` // Fallback pass cadence (0 = library default)
}

// ImageSearchConfig points at the image-search collaborator. An empty
// endpoint disables resolution: placeholders stay pending.
type ImageSearchConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"` // Per-search timeout (0 = library default)
}

// Validate checks value ranges. Called automatically by LoadConfig, but
// available for consumers who construct Config manually.
func (c *Config) Validate() error {
	if c.Render.Workers < 0 || c.Render.Workers > MaxWorkers {
		return fmt.Errorf("render.workers: must be between 0 and %d, got %d", MaxWorkers, c.Render.Workers)
	}
	if c.Render.Timeout < 0 || c.Render.Timeout > MaxRenderWait {
		return fmt.Errorf("render.timeout: must be between 0 and %s, got %s", MaxRenderWait, c.Render.Timeout)
	}
	if c.Watch.PollInterval != 0 && c.Watch.PollInterval < MinPollInterval {
		return fmt.Errorf("watch.pollInterval: must be at least %s, got %s", MinPollInterval, c.Watch.PollInterval)
	}
	if len(c.ImageSearch.Endpoint) > MaxEndpointLen {
		return fmt.Errorf("imageSearch.endpoint: %d chars, max %d", len(c.ImageSearch.Endpoint), MaxEndpointLen)
	}
	if c.ImageSearch.Endpoint != "" &&
		!strings.HasPrefix(c.ImageSearch.Endpoint, "http://") &&
		!strings.HasPrefix(c.ImageSearch.Endpoint, "https://") {
		return fmt.Errorf("imageSearch.endpoint: must be an http(s) URL, got %q", c.ImageSearch.Endpoint)
	}
	if c.ImageSearch.Timeout < 0 || c.ImageSearch.Timeout > MaxRenderWait {
		return fmt.Errorf("imageSearch.timeout: must be between 0 and %s, got %s", MaxRenderWait, c.ImageSearch.Timeout)
	}
	return nil
}

// DefaultConfig returns a neutral configuration: auto-sized pool,
// library-default timeouts, image search disabled.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := yamlutil.DecodeFile(configPath, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-agentreport/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-agentreport", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
