// ABOUTME: CLI command to clear the vector index
// ABOUTME: Removes every indexed vector; idempotent on an empty index
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewClearCmd creates the clear command
func NewClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the vector index",
		Long: `Remove every vector from the index.

Safe to run repeatedly: clearing an already-empty index is a no-op.`,
		Args: cobra.NoArgs,
		RunE: runClear,
	}

	return cmd
}

func runClear(cmd *cobra.Command, args []string) error {
	pipeline, err := newPipeline(cmd)
	if err != nil {
		return err
	}

	if err := pipeline.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("clearing index: %w", err)
	}

	if !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), "Index cleared.")
	}
	return nil
}
