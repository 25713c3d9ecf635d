// ABOUTME: CLI command to replace content in a memory block
// ABOUTME: Replaces the first occurrence, or the whole value when --old is omitted
package commands

import (
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/membank/membank/internal/models"
)

var replaceOld string

// NewReplaceCmd creates the replace command
func NewReplaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replace LABEL NEW_CONTENT",
		Short: "Replace content in a memory block",
		Long: `Replace content in a memory block's value.

With --old, the first occurrence of the given text is replaced; the command
fails if the text is not present. Without --old, the entire value is replaced
(an empty NEW_CONTENT then clears the block).

Examples:
  membank replace project "rewrite in Go" --old "rewrite in Rust"
  membank replace scratch ""`,
		Args: cobra.ExactArgs(2),
		RunE: runReplace,
	}

	cmd.Flags().StringVar(&replaceOld, "old", "", "Exact text to replace (omit to replace the whole value)")

	return cmd
}

func runReplace(cmd *cobra.Command, args []string) error {
	manager, closeDB, err := openManager()
	if err != nil {
		return err
	}
	defer closeDB()

	block, err := manager.ReplaceBlock(args[0], replaceOld, args[1], models.ActorUser)
	if err != nil {
		return fmt.Errorf("replacing content: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %q (now %d/%d chars, version %d).\n",
			block.Label, utf8.RuneCountInString(block.Value), block.CharLimit, block.Version)
	}
	return nil
}
