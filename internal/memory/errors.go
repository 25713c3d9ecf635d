// ABOUTME: Error taxonomy for memory block operations
// ABOUTME: Sentinel errors matched with errors.Is at the tool boundary
package memory

import "errors"

// The manager surfaces violated invariants as these sentinels, wrapped with
// label context. Callers match with errors.Is; the MCP adapter maps every one
// of them to a structured tool result.
var (
	// ErrNotFound means no block with the given label exists.
	ErrNotFound = errors.New("memory block not found")

	// ErrDuplicateLabel means a create collided with an existing label.
	ErrDuplicateLabel = errors.New("memory block label already exists")

	// ErrReadOnly means a mutation was attempted on a protected block.
	ErrReadOnly = errors.New("memory block is read-only")

	// ErrCharLimitExceeded means the resulting value would be too long.
	ErrCharLimitExceeded = errors.New("memory block character limit exceeded")

	// ErrContentNotFound means replace's old content is absent from the value.
	ErrContentNotFound = errors.New("content not found in memory block")

	// ErrMaxBlocks means the configured block-count ceiling was reached.
	ErrMaxBlocks = errors.New("maximum number of memory blocks reached")
)
