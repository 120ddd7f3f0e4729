package config

import (
	"os"
	"runtime"
)

// Default limits applied when no config file overrides them.
const (
	DefaultMaxFileSize = 10 * 1024 * 1024
	DefaultMaxResults  = 10000
	DefaultMaxDepth    = 0 // unlimited
	MaxAllowedFileSize = 100 * 1024 * 1024
	MaxAllowedResults  = 1000000
)

type Config struct {
	Version int
	Sandbox Sandbox
	Search  Search
	Exclude []string
}

type Sandbox struct {
	Root           string // directory all queries are confined to
	MaxFileSize    int64  // largest readable file in bytes
	FollowSymlinks bool   // follow symlinks that leave the root
}

type Search struct {
	MaxResults  int // cap on returned matches; results beyond it are dropped
	MaxDepth    int // 0 = unlimited recursion depth
	Concurrency int // goroutines for sibling stat calls; 0 = NumCPU
}

// Load reads configuration for the given project root. A global
// ~/.scopefs.kdl provides the base, a project-level .scopefs.kdl or
// .scopefs.toml overrides it, and built-in defaults cover the rest.
func Load(rootDir string) (*Config, error) {
	searchDir := "."
	if rootDir != "" {
		searchDir = rootDir
	}

	var baseConfig *Config
	if homeDir, err := os.UserHomeDir(); err == nil {
		if globalCfg, err := LoadKDL(homeDir); err == nil && globalCfg != nil {
			baseConfig = globalCfg
		}
	}

	projectConfig, err := loadProjectConfig(searchDir)
	if err != nil {
		return nil, err
	}

	switch {
	case baseConfig != nil && projectConfig != nil:
		return mergeConfigs(baseConfig, projectConfig), nil
	case projectConfig != nil:
		return projectConfig, nil
	case baseConfig != nil:
		baseConfig.Sandbox.Root = searchDir
		return baseConfig, nil
	}

	cfg := DefaultConfig()
	cfg.Sandbox.Root = searchDir
	return cfg, nil
}

// loadProjectConfig tries the KDL file first, then the TOML file. Only
// one project config file is honored; KDL wins when both exist.
func loadProjectConfig(dir string) (*Config, error) {
	if cfg, err := LoadKDL(dir); err != nil || cfg != nil {
		return cfg, err
	}
	return LoadTOML(dir)
}

// DefaultConfig returns the built-in configuration with no root set.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Sandbox: Sandbox{
			MaxFileSize:    DefaultMaxFileSize,
			FollowSymlinks: false,
		},
		Search: Search{
			MaxResults:  DefaultMaxResults,
			MaxDepth:    DefaultMaxDepth,
			Concurrency: runtime.NumCPU(),
		},
		Exclude: defaultExclusions(),
	}
}

// defaultExclusions lists directories no query should descend into.
// Kept short on purpose: this is a query layer, not an indexer, and the
// client is expected to ask for what it wants.
func defaultExclusions() []string {
	return []string{
		"**/.git/**",
	}
}

// mergeConfigs merges a base config with a project config. Project
// settings win, but exclusions from both are combined.
func mergeConfigs(base, project *Config) *Config {
	merged := *project

	if len(base.Exclude) > 0 {
		excludeMap := make(map[string]bool)
		for _, pattern := range base.Exclude {
			excludeMap[pattern] = true
		}
		for _, pattern := range project.Exclude {
			excludeMap[pattern] = true
		}
		merged.Exclude = make([]string, 0, len(excludeMap))
		for pattern := range excludeMap {
			merged.Exclude = append(merged.Exclude, pattern)
		}
	}

	return &merged
}

// DeduplicatePatterns removes duplicate patterns, keeping first occurrence
func DeduplicatePatterns(patterns []string) []string {
	seen := make(map[string]bool, len(patterns))
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
