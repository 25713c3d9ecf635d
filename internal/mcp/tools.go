// ABOUTME: MCP tool definitions and registration for the membank server
// ABOUTME: Defines JSON schemas for the memory_list, memory_append, memory_replace tools
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/membank/membank/internal/memory"
)

// RegisterTools registers all memory tools with the server
func RegisterTools(server *mcpserver.MCPServer, manager *memory.Manager) *Handlers {
	handlers := &Handlers{manager: manager}

	// 1. memory_list - list all memory blocks with their metadata
	server.AddTool(mcp.Tool{
		Name:        "memory_list",
		Description: "List all memory blocks with their label, description, current size, size limit, and read-only status.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.MemoryList)

	// 2. memory_append - append content to a block
	server.AddTool(mcp.Tool{
		Name:        "memory_append",
		Description: "Append content to a memory block. A newline separates the new content from any existing content. Fails if the result would exceed the block's character limit.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"label": map[string]interface{}{
					"type":        "string",
					"description": "Label of the memory block to append to",
				},
				"content": map[string]interface{}{
					"type":        "string",
					"description": "Content to append",
				},
			},
			Required: []string{"label", "content"},
		},
	}, handlers.MemoryAppend)

	// 3. memory_replace - replace content in a block
	server.AddTool(mcp.Tool{
		Name:        "memory_replace",
		Description: "Replace the first occurrence of old_content in a memory block with new_content. Omit old_content to replace the entire value; an empty new_content then clears the block.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"label": map[string]interface{}{
					"type":        "string",
					"description": "Label of the memory block to modify",
				},
				"old_content": map[string]interface{}{
					"type":        "string",
					"description": "Exact text to replace. Omit to replace the whole value.",
				},
				"new_content": map[string]interface{}{
					"type":        "string",
					"description": "Replacement text",
				},
			},
			Required: []string{"label", "new_content"},
		},
	}, handlers.MemoryReplace)

	return handlers
}
