package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Sandbox.Root = "/tmp/project"
	return cfg
}

func TestValidateAndSetDefaults_Valid(t *testing.T) {
	v := NewValidator()
	cfg := validConfig()

	require.NoError(t, v.ValidateAndSetDefaults(cfg))
	assert.Greater(t, cfg.Search.Concurrency, 0)
}

func TestValidateAndSetDefaults_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty root", func(c *Config) { c.Sandbox.Root = "" }},
		{"zero max file size", func(c *Config) { c.Sandbox.MaxFileSize = 0 }},
		{"oversized max file size", func(c *Config) { c.Sandbox.MaxFileSize = 200 * 1024 * 1024 }},
		{"zero max results", func(c *Config) { c.Search.MaxResults = 0 }},
		{"negative max depth", func(c *Config) { c.Search.MaxDepth = -1 }},
		{"negative concurrency", func(c *Config) { c.Search.Concurrency = -2 }},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, v.ValidateAndSetDefaults(cfg))
		})
	}
}

func TestValidateAndSetDefaults_ConcurrencyAutoDetect(t *testing.T) {
	v := NewValidator()
	cfg := validConfig()
	cfg.Search.Concurrency = 0

	require.NoError(t, v.ValidateAndSetDefaults(cfg))
	assert.GreaterOrEqual(t, cfg.Search.Concurrency, 1)
}

func TestMergeConfigsCombinesExclusions(t *testing.T) {
	base := DefaultConfig()
	base.Exclude = []string{"**/.git/**", "**/logs/**"}

	project := DefaultConfig()
	project.Sandbox.Root = "/srv/data"
	project.Exclude = []string{"**/logs/**", "**/tmp/**"}

	merged := mergeConfigs(base, project)
	assert.Equal(t, "/srv/data", merged.Sandbox.Root)
	assert.ElementsMatch(t, []string{"**/.git/**", "**/logs/**", "**/tmp/**"}, merged.Exclude)
}

func TestDeduplicatePatterns(t *testing.T) {
	got := DeduplicatePatterns([]string{"a", "b", "a", "c", "b"})
	assert.Equal(t, []string{"a", "b", "c"}, got)
}
