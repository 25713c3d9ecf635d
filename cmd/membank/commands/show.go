// ABOUTME: CLI command to show a single memory block
// ABOUTME: Prints the full value and metadata for one label
package commands

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

var showJSON bool

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show LABEL",
		Short: "Show a memory block",
		Long: `Show a memory block's full value and metadata.

Examples:
  membank show persona
  membank show tasks --json`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}

	cmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	manager, closeDB, err := openManager()
	if err != nil {
		return err
	}
	defer closeDB()

	block, err := manager.GetBlock(args[0])
	if err != nil {
		return fmt.Errorf("getting block: %w", err)
	}
	if block == nil {
		return fmt.Errorf("no memory block with label %q", args[0])
	}

	if showJSON {
		data, err := json.MarshalIndent(block, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling block: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Label:       %s\n", block.Label)
	if block.Description != "" {
		fmt.Fprintf(out, "Description: %s\n", block.Description)
	}
	fmt.Fprintf(out, "Chars:       %d/%d\n", utf8.RuneCountInString(block.Value), block.CharLimit)
	fmt.Fprintf(out, "Version:     %d\n", block.Version)
	fmt.Fprintf(out, "Read-only:   %v\n", block.ReadOnly)
	fmt.Fprintf(out, "Hidden:      %v\n", block.Hidden)
	fmt.Fprintf(out, "Updated:     %s\n", formatTime(block.UpdatedAt))
	fmt.Fprintf(out, "\n%s\n", block.Value)
	return nil
}
