// ABOUTME: MCP tool definitions and registration for the RAG server
// ABOUTME: Exposes ingest, question answering, status, and clear as MCP tools
package mcp

import (
	"github.com/harper/csprep/internal/core"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, pipeline *core.Pipeline) *Handlers {
	handlers := &Handlers{pipeline: pipeline}

	// 1. ingest_documents - Ingest study materials from a directory
	server.AddTool(mcp.Tool{
		Name:        "ingest_documents",
		Description: "Ingest study-material documents (txt/md) from a directory into the vector index. Chunks, embeds, and stores every document.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"directory": map[string]interface{}{
					"type":        "string",
					"description": "Path to the directory containing study materials",
				},
				"recreate": map[string]interface{}{
					"type":        "boolean",
					"description": "Drop and recreate the index before ingesting (default: false)",
					"default":     false,
				},
			},
			Required: []string{"directory"},
		},
	}, handlers.IngestDocuments)

	// 2. ask_question - Answer a CS interview question from indexed materials
	server.AddTool(mcp.Tool{
		Name:        "ask_question",
		Description: "Answer a CS interview prep question using only indexed study materials. Returns the answer, source citations, and whether it was grounded in retrieved context.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "The question to answer",
				},
				"top_k": map[string]interface{}{
					"type":        "number",
					"description": "Number of chunks to retrieve (default: configured top_k)",
				},
				"source": map[string]interface{}{
					"type":        "string",
					"description": "Restrict retrieval to one source document",
				},
			},
			Required: []string{"question"},
		},
	}, handlers.AskQuestion)

	// 3. index_status - Inspect the vector index
	server.AddTool(mcp.Tool{
		Name:        "index_status",
		Description: "Report the vector index status: vector count, dimension, and distance metric.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.IndexStatus)

	// 4. clear_index - Remove every indexed vector
	server.AddTool(mcp.Tool{
		Name:        "clear_index",
		Description: "Remove every vector from the index. Idempotent when the index is already empty.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ClearIndex)

	return handlers
}
