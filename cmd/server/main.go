// ABOUTME: Main entry point for csprep MCP server with stdio transport
// ABOUTME: Initializes pipeline, Endee index, and MCP server with all tools
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/csprep/internal/config"
	"github.com/harper/csprep/internal/core"
	"github.com/harper/csprep/internal/index/endee"
	"github.com/harper/csprep/internal/llm"
	"github.com/harper/csprep/internal/loader"
	"github.com/harper/csprep/internal/mcp"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	// Verify we have required API keys
	if os.Getenv("OPENAI_API_KEY") == "" {
		log.Println("Warning: OPENAI_API_KEY not set - embeddings and answers will not work")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	client, err := llm.NewClient(llm.ClientConfig{
		APIKey:         cfg.OpenAIKey,
		ChatModel:      cfg.ChatModel,
		EmbeddingModel: cfg.EmbeddingModel,
		Dimension:      cfg.VectorDimension,
		Timeout:        cfg.Timeout,
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     cfg.RetryDelay,
	})
	if err != nil {
		log.Fatalf("Failed to initialize OpenAI client: %v", err)
	}

	idx := endee.NewClient(endee.Config{
		Host:       cfg.EndeeHost,
		AuthToken:  cfg.EndeeAuthToken,
		IndexName:  cfg.IndexName,
		Dimension:  cfg.VectorDimension,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
	})

	pipeline, err := core.New(cfg, loader.New(), client, idx, client)
	if err != nil {
		log.Fatalf("Failed to initialize pipeline: %v", err)
	}

	// Create MCP server
	server := mcpserver.NewMCPServer(
		"CS Prep RAG",
		"0.1.0",
	)

	// Register MCP tools
	mcp.RegisterTools(server, pipeline)

	// Start server with stdio transport
	log.Println("csprep MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
