// ABOUTME: CLI command to ingest study materials into the vector index
// ABOUTME: Runs load, chunk, embed, upsert and prints the per-stage report
package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var ingestRecreate bool

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <directory>",
		Short: "Ingest study materials from a directory",
		Long: `Ingest study materials from a directory into the vector index.

Loads every txt/md file, splits it into overlapping chunks, embeds the
chunks, and upserts them into Endee. Re-running over unchanged files is
a no-op because chunk ids are stable.

Examples:
  csprep ingest ./materials
  csprep ingest --recreate ./materials`,
		Args: cobra.ExactArgs(1),
		RunE: runIngest,
	}

	cmd.Flags().BoolVar(&ingestRecreate, "recreate", false, "Drop and recreate the index before ingesting")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	directory := args[0]
	if _, err := os.Stat(directory); err != nil {
		return fmt.Errorf("directory not found: %s", directory)
	}

	pipeline, err := newPipeline(cmd)
	if err != nil {
		return err
	}

	report, err := pipeline.Ingest(cmd.Context(), directory, ingestRecreate)
	if err != nil {
		return fmt.Errorf("ingesting %s: %w", directory, err)
	}

	if outputFormat == "json" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Documents:  %d\n", report.Documents)
	fmt.Fprintf(cmd.OutOrStdout(), "Chunks:     %d\n", report.Chunks)
	fmt.Fprintf(cmd.OutOrStdout(), "Embeddings: %d\n", report.Embeddings)
	fmt.Fprintf(cmd.OutOrStdout(), "Upserted:   %d\n", report.Upserted)

	for _, path := range report.Skipped {
		warnf("skipped unreadable file: %s", path)
	}
	for _, id := range report.FailedIDs {
		warnf("failed to upsert: %s", id)
	}
	if report.Upserted < report.Chunks {
		warnf("ingestion incomplete: %d of %d chunks stored", report.Upserted, report.Chunks)
	} else if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nSuccess! Ingested %d chunks.\n", report.Upserted)
	}

	return nil
}
