// ABOUTME: CLI command to ask a question against indexed study materials
// ABOUTME: Prints the grounded answer with source citations and similarities
package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/csprep/internal/core"
	"github.com/harper/csprep/internal/models"
)

var (
	queryTopK   int
	querySource string
)

// NewQueryCmd creates the query command
func NewQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <question>",
		Short: "Ask a question answered only from indexed materials",
		Long: `Ask a question answered only from indexed study materials.

Embeds the question, retrieves the most similar chunks from Endee, and
generates an answer restricted to that context. When nothing relevant
is indexed, reports that instead of fabricating an answer.

Examples:
  csprep query "What is a binary search tree?"
  csprep query --top-k 10 "Explain quicksort's worst case"
  csprep query --source trees.md "When is an AVL rotation needed?"`,
		Args: cobra.ExactArgs(1),
		RunE: runQuery,
	}

	cmd.Flags().IntVar(&queryTopK, "top-k", 0, "Number of chunks to retrieve (default: configured top_k)")
	cmd.Flags().StringVar(&querySource, "source", "", "Restrict retrieval to one source document")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	if queryTopK != 0 {
		if err := validatePositiveInt(queryTopK, "top-k"); err != nil {
			return err
		}
	}

	pipeline, err := newPipeline(cmd)
	if err != nil {
		return err
	}

	answer, err := pipeline.Query(cmd.Context(), args[0], core.QueryOptions{
		TopK:         queryTopK,
		SourceFilter: querySource,
	})
	if err != nil {
		return fmt.Errorf("querying: %w", err)
	}

	return printAnswer(cmd, answer)
}

func printAnswer(cmd *cobra.Command, answer *models.GroundedAnswer) error {
	if outputFormat == "json" {
		data, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
		return nil
	}

	out := cmd.OutOrStdout()
	rule := strings.Repeat("=", 60)

	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, "ANSWER")
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, answer.Answer)

	if len(answer.Results) > 0 {
		fmt.Fprintln(out, strings.Repeat("-", 60))
		fmt.Fprintf(out, "Sources (%d chunks retrieved):\n", len(answer.Results))
		for _, r := range answer.Results {
			fmt.Fprintf(out, "  [%d] %s (similarity: %.3f)\n", r.Rank, r.Source, r.Similarity)
			if verbose {
				fmt.Fprintf(out, "      %s\n", truncate(strings.ReplaceAll(r.Text, "\n", " "), 120))
			}
		}
	}
	fmt.Fprintln(out, rule)

	return nil
}
