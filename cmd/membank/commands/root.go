// ABOUTME: Root CLI command with global flags and subcommand wiring
// ABOUTME: membank manages durable memory blocks for LLM agents
package commands

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	quiet      bool
)

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "membank",
		Short: "Durable memory blocks for LLM agents",
		Long: `membank manages durable, labeled, versioned text blocks that an
LLM agent reads and mutates across sessions.

Blocks live in a local SQLite database. Every value change bumps the block's
version and records a history row, and the block set compiles into the exact
context segment the model sees.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: membank.yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")

	cmd.AddCommand(
		NewListCmd(),
		NewShowCmd(),
		NewCreateCmd(),
		NewAppendCmd(),
		NewReplaceCmd(),
		NewDeleteCmd(),
		NewHistoryCmd(),
		NewCompileCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
