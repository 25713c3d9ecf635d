// ABOUTME: CLI command to render the compiled context segment
// ABOUTME: Prints exactly what the prompt assembler would inject
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/membank/membank/internal/memory"
)

var (
	compileLineNumbers bool
	compileTokens      bool
)

// NewCompileCmd creates the compile command
func NewCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Render the compiled memory segment",
		Long: `Render the current block set into the exact text segment injected
before every model invocation. Hidden blocks are excluded.

Examples:
  membank compile
  membank compile --line-numbers
  membank compile --tokens`,
		RunE: runCompile,
	}

	cmd.Flags().BoolVar(&compileLineNumbers, "line-numbers", false, "Prefix value lines with line numbers")
	cmd.Flags().BoolVar(&compileTokens, "tokens", false, "Print the token estimate instead of the text")

	return cmd
}

func runCompile(cmd *cobra.Command, args []string) error {
	manager, closeDB, err := openManager()
	if err != nil {
		return err
	}
	defer closeDB()

	opts := memory.CompileOptions{LineNumbers: compileLineNumbers}

	if compileTokens {
		tokens, err := manager.EstimateTokens(opts)
		if err != nil {
			return fmt.Errorf("estimating tokens: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d\n", tokens)
		return nil
	}

	compiled, err := manager.Compile(opts)
	if err != nil {
		return fmt.Errorf("compiling blocks: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), compiled)
	return nil
}
