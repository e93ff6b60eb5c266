// ABOUTME: CLI command for an interactive Q&A session
// ABOUTME: Reads questions from stdin in a loop until exit/quit
package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/csprep/internal/core"
)

// NewInteractiveCmd creates the interactive command
func NewInteractiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Interactive Q&A session",
		Long: `Start an interactive Q&A session.

Each question is answered from the indexed study materials. Type
"exit" or "quit" to leave.`,
		Args: cobra.NoArgs,
		RunE: runInteractive,
	}

	return cmd
}

func runInteractive(cmd *cobra.Command, args []string) error {
	pipeline, err := newPipeline(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "CS INTERVIEW PREP - INTERACTIVE MODE")
	fmt.Fprintln(out, `Type "exit" or "quit" to leave.`)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "\nQuestion: ")
		if !scanner.Scan() {
			break
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			break
		}

		answer, err := pipeline.Query(cmd.Context(), question, core.QueryOptions{})
		if err != nil {
			warnf("query failed: %v", err)
			continue
		}
		if err := printAnswer(cmd, answer); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, "Goodbye!")
	return scanner.Err()
}
