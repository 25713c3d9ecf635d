// ABOUTME: CLI command to delete a memory block
// ABOUTME: Cascades to the block's history rows
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDeleteCmd creates the delete command
func NewDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete LABEL",
		Short: "Delete a memory block",
		Long: `Delete a memory block and its entire history.

Read-only blocks cannot be deleted.

Examples:
  membank delete scratch`,
		Args: cobra.ExactArgs(1),
		RunE: runDelete,
	}

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	manager, closeDB, err := openManager()
	if err != nil {
		return err
	}
	defer closeDB()

	deleted, err := manager.DeleteBlock(args[0])
	if err != nil {
		return fmt.Errorf("deleting block: %w", err)
	}
	if !deleted {
		return fmt.Errorf("no memory block with label %q", args[0])
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted memory block %q.\n", args[0])
	}
	return nil
}
