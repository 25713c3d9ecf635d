// ABOUTME: CLI command to create a memory block
// ABOUTME: User-driven creation with optional limit, description, and flags
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/membank/membank/internal/models"
)

var (
	createValue       string
	createDescription string
	createCharLimit   int
	createReadOnly    bool
	createHidden      bool
)

// NewCreateCmd creates the create command
func NewCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create LABEL",
		Short: "Create a memory block",
		Long: `Create a new memory block with the given label.

Labels are unique; creating an existing label fails. The character limit
defaults to 4000 when not given.

Examples:
  membank create tasks --description "Open tasks"
  membank create persona --value "Helpful, terse" --limit 2000
  membank create changelog --read-only`,
		Args: cobra.ExactArgs(1),
		RunE: runCreate,
	}

	cmd.Flags().StringVar(&createValue, "value", "", "Initial value")
	cmd.Flags().StringVar(&createDescription, "description", "", "Block description shown to the agent")
	cmd.Flags().IntVar(&createCharLimit, "limit", 0, "Character limit (default 4000)")
	cmd.Flags().BoolVar(&createReadOnly, "read-only", false, "Reject all mutations on this block")
	cmd.Flags().BoolVar(&createHidden, "hidden", false, "Exclude from compiled output")

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	manager, closeDB, err := openManager()
	if err != nil {
		return err
	}
	defer closeDB()

	block, err := manager.CreateBlock(models.BlockCreate{
		Label:       args[0],
		Value:       createValue,
		Description: createDescription,
		CharLimit:   createCharLimit,
		ReadOnly:    createReadOnly,
		Hidden:      createHidden,
		Actor:       models.ActorUser,
	})
	if err != nil {
		return fmt.Errorf("creating block: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Created memory block %q (limit %d chars).\n", block.Label, block.CharLimit)
	}
	return nil
}
