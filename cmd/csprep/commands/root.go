// ABOUTME: Root command for the csprep CLI with global flags
// ABOUTME: Registers all subcommands and shared verbose/quiet/format handling
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csprep",
		Short: "CS interview prep assistant grounded in your study materials",
		Long: `csprep is a retrieval-augmented assistant for Computer Science
interview preparation.

It ingests your study materials (txt/md), chunks and embeds them into
an Endee vector index, and answers questions using only the retrieved
passages, with source citations. When nothing relevant is indexed, it
says so instead of guessing.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "text", "Output format: text or json")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewIngestCmd())
	cmd.AddCommand(NewQueryCmd())
	cmd.AddCommand(NewInteractiveCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewClearCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
