// ABOUTME: CLI command to append content to a memory block
// ABOUTME: User-driven edits are recorded with actor=user in history
package commands

import (
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/membank/membank/internal/models"
)

// NewAppendCmd creates the append command
func NewAppendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "append LABEL CONTENT",
		Short: "Append content to a memory block",
		Long: `Append content to a memory block's value.

A newline separates the new content from any existing content. The command
fails if the result would exceed the block's character limit.

Examples:
  membank append tasks "buy milk"`,
		Args: cobra.ExactArgs(2),
		RunE: runAppend,
	}

	return cmd
}

func runAppend(cmd *cobra.Command, args []string) error {
	manager, closeDB, err := openManager()
	if err != nil {
		return err
	}
	defer closeDB()

	block, err := manager.AppendBlock(args[0], args[1], models.ActorUser)
	if err != nil {
		return fmt.Errorf("appending to block: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Appended to %q (now %d/%d chars, version %d).\n",
			block.Label, utf8.RuneCountInString(block.Value), block.CharLimit, block.Version)
	}
	return nil
}
