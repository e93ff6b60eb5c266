// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents to use the RAG pipeline via stdio
package commands

import (
	"github.com/spf13/cobra"

	"github.com/harper/csprep/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs csprep as an MCP (Model Context Protocol) server, enabling LLM
agents to ingest study materials and ask grounded questions via stdio.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an MCP client)
  csprep mcp

  # Configure in an MCP client config:
  # {
  #   "mcpServers": {
  #     "csprep": {
  #       "command": "csprep",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server on stdio
func runMCP(cmd *cobra.Command, args []string) error {
	pipeline, err := newPipeline(cmd)
	if err != nil {
		return err
	}

	server := mcpserver.NewMCPServer("CS Prep RAG", versionInfo.Version)
	mcp.RegisterTools(server, pipeline)

	return mcpserver.ServeStdio(server)
}
