// ABOUTME: CLI command to inspect the vector index
// ABOUTME: Reports vector count, dimension, and distance metric
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show vector index status",
		Long:  `Show the vector index status: vector count, dimension, and distance metric.`,
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}

	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	pipeline, err := newPipeline(cmd)
	if err != nil {
		return err
	}

	status, err := pipeline.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading index status: %w", err)
	}

	if outputFormat == "json" {
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
		return nil
	}

	out := cmd.OutOrStdout()
	if !status.Exists {
		fmt.Fprintln(out, "Index not created yet. Run 'csprep ingest <directory>' first.")
		return nil
	}
	fmt.Fprintf(out, "Vectors:   %d\n", status.VectorCount)
	fmt.Fprintf(out, "Dimension: %d\n", status.Dimension)
	fmt.Fprintf(out, "Metric:    %s\n", status.DistanceMetric)
	return nil
}
