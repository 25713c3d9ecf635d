// ABOUTME: CLI command to show a memory block's audit trail
// ABOUTME: Lists history rows newest version first with their actor tags
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

var historyJSON bool

// NewHistoryCmd creates the history command
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history LABEL",
		Short: "Show a memory block's history",
		Long: `Show the append-only audit trail for a memory block.

One row exists per version, newest first, including version 1 from creation.
The actor column distinguishes agent-driven from user-driven edits.

Examples:
  membank history tasks
  membank history tasks --json`,
		Args: cobra.ExactArgs(1),
		RunE: runHistory,
	}

	cmd.Flags().BoolVar(&historyJSON, "json", false, "Output as JSON")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	manager, closeDB, err := openManager()
	if err != nil {
		return err
	}
	defer closeDB()

	history, err := manager.GetBlockHistory(args[0])
	if err != nil {
		return fmt.Errorf("getting history: %w", err)
	}

	if historyJSON {
		data, err := json.MarshalIndent(history, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling history: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	if len(history) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No history for %q.\n", args[0])
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tCHARS\tACTOR\tWHEN\tVALUE")
	for _, h := range history {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n",
			h.Version, utf8.RuneCountInString(h.Value), h.CreatedBy,
			formatTime(h.CreatedAt), truncate(h.Value, 60))
	}
	return w.Flush()
}
