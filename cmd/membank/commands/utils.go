// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Opens the configured store and formats values for display
package commands

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"

	"github.com/membank/membank/internal/config"
	"github.com/membank/membank/internal/memory"
	"github.com/membank/membank/internal/storage/sqlite"
)

// openManager loads config, opens the database, and returns a seeded manager
// plus a close function for the underlying database.
func openManager() (*memory.Manager, func(), error) {
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	store := sqlite.NewBlockStore(db, cfg.Memory.Scope)
	manager := memory.NewManager(store, memory.Options{MaxBlocks: cfg.Memory.MaxBlocks})

	if err := manager.Seed(cfg.Seeds()); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("seeding default blocks: %w", err)
	}

	return manager, func() { _ = db.Close() }, nil
}

// truncate shortens a string to maxLen runes, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatTime formats a time for display
func formatTime(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	if diff < time.Minute {
		return "just now"
	} else if diff < time.Hour {
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	} else if diff < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	} else if diff < 7*24*time.Hour {
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
	return t.Format("2006-01-02")
}
