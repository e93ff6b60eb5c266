// ABOUTME: MCP tool handler implementations for the RAG server
// ABOUTME: Each handler validates arguments, runs the pipeline, and returns JSON results
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/harper/csprep/internal/core"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	pipeline *core.Pipeline
}

// IngestDocuments handles the ingest_documents tool
func (h *Handlers) IngestDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	directory, err := request.RequireString("directory")
	if err != nil {
		return mcp.NewToolResultError("directory argument is required and must be a string"), nil
	}
	recreate := request.GetBool("recreate", false)

	report, err := h.pipeline.Ingest(ctx, directory, recreate)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ingestion failed: %v", err)), nil
	}

	return jsonResult(report)
}

// AskQuestion handles the ask_question tool
func (h *Handlers) AskQuestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}

	opts := core.QueryOptions{
		TopK:         request.GetInt("top_k", 0),
		SourceFilter: request.GetString("source", ""),
	}

	answer, err := h.pipeline.Query(ctx, question, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}

	response := map[string]interface{}{
		"answer_id": uuid.New().String(),
		"answer":    answer.Answer,
		"sources":   answer.Sources,
		"grounded":  answer.Grounded,
		"retrieved": len(answer.Results),
	}
	return jsonResult(response)
}

// IndexStatus handles the index_status tool
func (h *Handlers) IndexStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := h.pipeline.Status(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("status failed: %v", err)), nil
	}
	return jsonResult(status)
}

// ClearIndex handles the clear_index tool
func (h *Handlers) ClearIndex(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.pipeline.Clear(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("clear failed: %v", err)), nil
	}
	return jsonResult(map[string]interface{}{"cleared": true})
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
