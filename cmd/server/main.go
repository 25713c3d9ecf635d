// ABOUTME: Main entry point for the membank MCP server with stdio transport
// ABOUTME: Initializes storage, manager, and MCP server with all tools
package main

import (
	"log"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/membank/membank/internal/config"
	"github.com/membank/membank/internal/mcp"
	"github.com/membank/membank/internal/memory"
	"github.com/membank/membank/internal/storage/sqlite"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if !cfg.Memory.Enabled {
		log.Fatal("Memory is disabled in configuration")
	}

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	store := sqlite.NewBlockStore(db, cfg.Memory.Scope)
	manager := memory.NewManager(store, memory.Options{MaxBlocks: cfg.Memory.MaxBlocks})
	if err := manager.Seed(cfg.Seeds()); err != nil {
		log.Fatalf("Failed to seed default blocks: %v", err)
	}

	server := mcpserver.NewMCPServer(
		"membank",
		"0.1.0",
	)
	mcp.RegisterTools(server, manager)

	log.Println("membank MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
