// ABOUTME: MCP tool handler implementations for the membank server
// ABOUTME: Converts every manager failure into a structured tool result, never a raised error
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/membank/membank/internal/memory"
	"github.com/membank/membank/internal/models"
)

// Handlers contains the handler functions for all memory tools
type Handlers struct {
	manager *memory.Manager
}

// NewHandlers creates handlers over the given manager
func NewHandlers(manager *memory.Manager) *Handlers {
	return &Handlers{manager: manager}
}

// MemoryList handles the memory_list tool. It cannot fail on user input; a
// storage failure still comes back as a tool result, not an error.
func (h *Handlers) MemoryList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	blocks, err := h.manager.CompiledBlocks()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list memory blocks: %v", err)), nil
	}

	if len(blocks) == 0 {
		return mcp.NewToolResultText("No memory blocks exist yet."), nil
	}

	var sb strings.Builder
	sb.WriteString("Memory blocks:\n")
	for _, block := range blocks {
		sb.WriteString(formatBlockLine(block))
		sb.WriteString("\n")
	}

	detail, err := json.Marshal(map[string]interface{}{"blocks": blocks})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	sb.WriteString("\n")
	sb.Write(detail)

	return mcp.NewToolResultText(sb.String()), nil
}

// MemoryAppend handles the memory_append tool
func (h *Handlers) MemoryAppend(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label, err := request.RequireString("label")
	if err != nil {
		return mcp.NewToolResultError("label argument is required and must be a string"), nil
	}
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("content argument is required and must be a string"), nil
	}

	block, err := h.manager.AppendBlock(label, content, models.ActorAgent)
	if err != nil {
		return toolError(label, err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Appended to memory block %q (now %d/%d chars).",
		block.Label, utf8.RuneCountInString(block.Value), block.CharLimit)), nil
}

// MemoryReplace handles the memory_replace tool
func (h *Handlers) MemoryReplace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label, err := request.RequireString("label")
	if err != nil {
		return mcp.NewToolResultError("label argument is required and must be a string"), nil
	}
	newContent, err := request.RequireString("new_content")
	if err != nil {
		return mcp.NewToolResultError("new_content argument is required and must be a string"), nil
	}
	oldContent := request.GetString("old_content", "")

	block, err := h.manager.ReplaceBlock(label, oldContent, newContent, models.ActorAgent)
	if err != nil {
		return toolError(label, err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Updated memory block %q (now %d/%d chars).",
		block.Label, utf8.RuneCountInString(block.Value), block.CharLimit)), nil
}

// toolError maps the manager's error taxonomy onto short, actionable tool
// results. Every branch returns a result payload; nothing propagates to the
// agent loop.
func toolError(label string, err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, memory.ErrNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("No memory block with label %q exists. Use memory_list to see available blocks.", label))
	case errors.Is(err, memory.ErrReadOnly):
		return mcp.NewToolResultError(fmt.Sprintf("Memory block %q is read-only and cannot be modified.", label))
	case errors.Is(err, memory.ErrCharLimitExceeded):
		return mcp.NewToolResultError(err.Error())
	case errors.Is(err, memory.ErrContentNotFound):
		return mcp.NewToolResultError(err.Error())
	default:
		return mcp.NewToolResultError(err.Error())
	}
}

// formatBlockLine renders one block as "label: description (cur/limit chars) [read-only]"
func formatBlockLine(block memory.CompiledBlock) string {
	line := fmt.Sprintf("%s: %s (%d/%d chars)", block.Label, block.Description,
		block.Metadata.CharsCurrent, block.Metadata.CharsLimit)
	if block.Metadata.ReadOnly {
		line += " [read-only]"
	}
	return line
}
