// ABOUTME: CLI command to list memory blocks
// ABOUTME: Shows label, size, version, and read-only status per block
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

var listJSON bool

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List memory blocks",
		Long: `List all memory blocks with their size, version, and flags.

Hidden blocks are included; they are only excluded from compiled output.

Examples:
  membank list
  membank list --json`,
		RunE: runList,
	}

	cmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	manager, closeDB, err := openManager()
	if err != nil {
		return err
	}
	defer closeDB()

	blocks, err := manager.GetBlocks()
	if err != nil {
		return fmt.Errorf("getting blocks: %w", err)
	}

	if listJSON {
		data, err := json.MarshalIndent(blocks, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling blocks: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	if len(blocks) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No memory blocks.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LABEL\tCHARS\tVERSION\tFLAGS\tUPDATED\tDESCRIPTION")
	for _, block := range blocks {
		flags := ""
		if block.ReadOnly {
			flags += "ro"
		}
		if block.Hidden {
			if flags != "" {
				flags += ","
			}
			flags += "hidden"
		}
		if flags == "" {
			flags = "-"
		}
		fmt.Fprintf(w, "%s\t%d/%d\t%d\t%s\t%s\t%s\n",
			block.Label, utf8.RuneCountInString(block.Value), block.CharLimit,
			block.Version, flags, formatTime(block.UpdatedAt), truncate(block.Description, 48))
	}
	return w.Flush()
}
