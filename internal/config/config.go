// ABOUTME: Centralized configuration for the membank memory system
// ABOUTME: Loads defaults, YAML config file, and environment variables via koanf
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/membank/membank/internal/models"
	"github.com/membank/membank/internal/storage/sqlite"
)

const (
	// EnvPrefix is the prefix for environment variable overrides
	// (e.g. MEMBANK_MEMORY_MAX_BLOCKS=64).
	EnvPrefix = "MEMBANK_"
	// Delimiter is the key delimiter for nested config
	Delimiter = "."
)

// Config holds all configuration for the memory system
type Config struct {
	// DBPath is the SQLite database file location
	DBPath string `koanf:"db_path"`

	Memory MemoryConfig `koanf:"memory"`

	// Blocks are the default block specifications used to seed a fresh store
	Blocks []BlockSeed `koanf:"blocks"`
}

// MemoryConfig holds memory subsystem settings
type MemoryConfig struct {
	// Enabled gates the whole subsystem; when false no blocks are compiled
	// into the context.
	Enabled bool `koanf:"enabled"`

	// Scope is the logical scope blocks live in. Memory is shared across
	// sessions, so this is normally left at the default.
	Scope string `koanf:"scope"`

	// MaxBlocks caps how many blocks may exist. Zero means no cap.
	MaxBlocks int `koanf:"max_blocks"`

	// LineNumbers renders compiled values with per-line number prefixes, for
	// model families that edit by line reference.
	LineNumbers bool `koanf:"line_numbers"`
}

// BlockSeed is one default block specification
type BlockSeed struct {
	Label       string `koanf:"label"`
	Value       string `koanf:"value"`
	Description string `koanf:"description"`
	CharLimit   int    `koanf:"char_limit"`
	ReadOnly    bool   `koanf:"read_only"`
	Hidden      bool   `koanf:"hidden"`
}

// ToCreate converts a seed into a create request
func (s BlockSeed) ToCreate() models.BlockCreate {
	return models.BlockCreate{
		Label:       s.Label,
		Value:       s.Value,
		Description: s.Description,
		CharLimit:   s.CharLimit,
		ReadOnly:    s.ReadOnly,
		Hidden:      s.Hidden,
	}
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		DBPath: sqlite.DefaultDBPath(),
		Memory: MemoryConfig{
			Enabled:   true,
			Scope:     models.DefaultScope,
			MaxBlocks: 0,
		},
		Blocks: []BlockSeed{
			{Label: "persona", Description: "The agent's own persona and working style", CharLimit: models.DefaultCharLimit},
			{Label: "human", Description: "Durable facts about the human the agent works with", CharLimit: models.DefaultCharLimit},
		},
	}
}

// Load reads configuration with the following priority: environment
// variables, then the config file (explicit path or a default location), then
// built-in defaults.
func Load(configPath string) (*Config, error) {
	k := koanf.New(Delimiter)

	// Flat keys so file and env values merge per-field instead of replacing
	// whole sections.
	defaults := Default()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"db_path":             defaults.DBPath,
		"memory.enabled":      defaults.Memory.Enabled,
		"memory.scope":        defaults.Memory.Scope,
		"memory.max_blocks":   defaults.Memory.MaxBlocks,
		"memory.line_numbers": defaults.Memory.LineNumbers,
		"blocks":              defaults.Blocks,
	}, Delimiter), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath == "" {
		configPath = findDefaultFile()
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// MEMBANK_DB_PATH -> db_path, MEMBANK_MEMORY_MAX_BLOCKS -> memory.max_blocks
	if err := k.Load(env.Provider(EnvPrefix, Delimiter, func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		if rest, ok := strings.CutPrefix(key, "memory_"); ok {
			return "memory" + Delimiter + rest
		}
		return key
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, cfg.Validate()
}

// Validate checks configuration invariants
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path cannot be empty")
	}
	if c.Memory.Scope == "" {
		return fmt.Errorf("memory.scope cannot be empty")
	}
	if c.Memory.MaxBlocks < 0 {
		return fmt.Errorf("memory.max_blocks must be >= 0, got %d", c.Memory.MaxBlocks)
	}
	seen := make(map[string]bool, len(c.Blocks))
	for _, seed := range c.Blocks {
		if seed.Label == "" {
			return fmt.Errorf("seed block label cannot be empty")
		}
		if seen[seed.Label] {
			return fmt.Errorf("duplicate seed block label %q", seed.Label)
		}
		seen[seed.Label] = true
		if seed.CharLimit < 0 {
			return fmt.Errorf("seed block %q: char_limit must be >= 0, got %d", seed.Label, seed.CharLimit)
		}
	}
	return nil
}

// Seeds returns the seed list as create requests
func (c *Config) Seeds() []models.BlockCreate {
	seeds := make([]models.BlockCreate, len(c.Blocks))
	for i, seed := range c.Blocks {
		seeds[i] = seed.ToCreate()
	}
	return seeds
}

// findDefaultFile looks for a config file in standard locations
func findDefaultFile() string {
	candidates := []string{"membank.yaml", "membank.yml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(home, ".config", "membank", "membank.yaml"))
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
