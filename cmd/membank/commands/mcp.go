// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents to use memory blocks via stdio
package commands

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/membank/membank/internal/config"
	"github.com/membank/membank/internal/mcp"
	"github.com/membank/membank/internal/memory"
	"github.com/membank/membank/internal/storage/sqlite"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs membank as an MCP (Model Context Protocol) server, exposing the
memory_list, memory_append, and memory_replace tools over stdio.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by the agent harness)
  membank mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "membank": {
  #       "command": "membank",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !quiet {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.Memory.Enabled {
		return fmt.Errorf("memory is disabled in configuration")
	}

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	store := sqlite.NewBlockStore(db, cfg.Memory.Scope)
	manager := memory.NewManager(store, memory.Options{MaxBlocks: cfg.Memory.MaxBlocks})
	if err := manager.Seed(cfg.Seeds()); err != nil {
		return fmt.Errorf("failed to seed default blocks: %w", err)
	}

	server := mcpserver.NewMCPServer(
		"membank",
		versionInfo.Version,
	)
	mcp.RegisterTools(server, manager)

	if !quiet {
		log.Println("membank MCP server starting on stdio...")
	}
	if err := mcpserver.ServeStdio(server); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
