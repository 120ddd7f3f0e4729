package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// tomlConfig mirrors Config with optional fields so absent keys fall
// back to defaults instead of zeroing them.
type tomlConfig struct {
	Version *int `toml:"version"`
	Sandbox struct {
		Root           *string `toml:"root"`
		MaxFileSize    *string `toml:"max_file_size"`
		FollowSymlinks *bool   `toml:"follow_symlinks"`
	} `toml:"sandbox"`
	Search struct {
		MaxResults  *int `toml:"max_results"`
		MaxDepth    *int `toml:"max_depth"`
		Concurrency *int `toml:"concurrency"`
	} `toml:"search"`
	Exclude []string `toml:"exclude"`
}

// LoadTOML attempts to load configuration from a .scopefs.toml file in
// dir. Returns (nil, nil) when the file does not exist.
func LoadTOML(dir string) (*Config, error) {
	tomlPath := filepath.Join(dir, ".scopefs.toml")

	if _, err := os.Stat(tomlPath); os.IsNotExist(err) {
		return nil, nil
	}

	content, err := os.ReadFile(tomlPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read .scopefs.toml: %v", err)
	}

	var raw tomlConfig
	if err := toml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse TOML config: %w", err)
	}

	cfg := DefaultConfig()
	if raw.Version != nil {
		cfg.Version = *raw.Version
	}
	if raw.Sandbox.Root != nil {
		cfg.Sandbox.Root = *raw.Sandbox.Root
	}
	if raw.Sandbox.MaxFileSize != nil {
		sz, err := ParseSize(*raw.Sandbox.MaxFileSize)
		if err != nil {
			return nil, fmt.Errorf("invalid max_file_size %q: %w", *raw.Sandbox.MaxFileSize, err)
		}
		cfg.Sandbox.MaxFileSize = sz
	}
	if raw.Sandbox.FollowSymlinks != nil {
		cfg.Sandbox.FollowSymlinks = *raw.Sandbox.FollowSymlinks
	}
	if raw.Search.MaxResults != nil {
		cfg.Search.MaxResults = *raw.Search.MaxResults
	}
	if raw.Search.MaxDepth != nil {
		cfg.Search.MaxDepth = *raw.Search.MaxDepth
	}
	if raw.Search.Concurrency != nil {
		cfg.Search.Concurrency = *raw.Search.Concurrency
	}
	if raw.Exclude != nil {
		cfg.Exclude = raw.Exclude
	}

	resolveConfigRoot(cfg, dir)
	return cfg, nil
}
