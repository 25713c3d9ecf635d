// ABOUTME: Tests for configuration loading
// ABOUTME: Verifies defaults, YAML file loading, env overrides, and validation
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/membank/membank/internal/models"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "membank.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.NotEmpty(t, cfg.DBPath)
	assert.True(t, cfg.Memory.Enabled)
	assert.Equal(t, models.DefaultScope, cfg.Memory.Scope)
	assert.Zero(t, cfg.Memory.MaxBlocks)
	require.NoError(t, cfg.Validate())

	// Built-in seeds carry the default limit
	require.NotEmpty(t, cfg.Blocks)
	seed := cfg.Blocks[0].ToCreate()
	assert.Equal(t, models.DefaultCharLimit, seed.EffectiveLimit())
}

func TestLoadFile(t *testing.T) {
	path := writeConfigFile(t, `
db_path: /tmp/membank-test.db
memory:
  enabled: true
  scope: workbench
  max_blocks: 16
  line_numbers: true
blocks:
  - label: persona
    value: concise
    description: Agent persona
    char_limit: 2000
  - label: audit
    read_only: true
    hidden: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/membank-test.db", cfg.DBPath)
	assert.Equal(t, "workbench", cfg.Memory.Scope)
	assert.Equal(t, 16, cfg.Memory.MaxBlocks)
	assert.True(t, cfg.Memory.LineNumbers)

	require.Len(t, cfg.Blocks, 2)
	assert.Equal(t, "persona", cfg.Blocks[0].Label)
	assert.Equal(t, 2000, cfg.Blocks[0].CharLimit)
	assert.True(t, cfg.Blocks[1].ReadOnly)
	assert.True(t, cfg.Blocks[1].Hidden)

	seeds := cfg.Seeds()
	require.Len(t, seeds, 2)
	assert.Equal(t, "concise", seeds[0].Value)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
memory:
  max_blocks: 16
`)
	t.Setenv("MEMBANK_MEMORY_MAX_BLOCKS", "64")
	t.Setenv("MEMBANK_DB_PATH", "/tmp/env-override.db")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 64, cfg.Memory.MaxBlocks, "env overrides file")
	assert.Equal(t, "/tmp/env-override.db", cfg.DBPath)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty db path", func(c *Config) { c.DBPath = "" }, "db_path"},
		{"empty scope", func(c *Config) { c.Memory.Scope = "" }, "scope"},
		{"negative max blocks", func(c *Config) { c.Memory.MaxBlocks = -1 }, "max_blocks"},
		{"empty seed label", func(c *Config) { c.Blocks = []BlockSeed{{Label: ""}} }, "label"},
		{"duplicate seed labels", func(c *Config) {
			c.Blocks = []BlockSeed{{Label: "a"}, {Label: "a"}}
		}, "duplicate"},
		{"negative seed limit", func(c *Config) {
			c.Blocks = []BlockSeed{{Label: "a", CharLimit: -1}}
		}, "char_limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
