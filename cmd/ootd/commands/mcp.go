// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents to browse the wardrobe and request outfits via stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"github.com/samsam9395/my-ootd/internal/config"
	"github.com/samsam9395/my-ootd/internal/llm"
	"github.com/samsam9395/my-ootd/internal/mcp"
	"github.com/samsam9395/my-ootd/internal/recommend"
	"github.com/samsam9395/my-ootd/internal/storage/sqlite"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs ootd as an MCP (Model Context Protocol) server over stdio,
exposing wardrobe browsing and outfit recommendation tools. The MCP
transport has no per-request auth; all tools act on the owner set
by OOTD_MCP_OWNER.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an MCP client)
  ootd mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "ootd": {
  #       "command": "ootd",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil && verbose {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY must be set")
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = sqlite.DefaultDBPath()
	}
	db, err := sqlite.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	client, err := llm.NewClient(&llm.ClientConfig{
		APIKey:         cfg.OpenAIKey,
		ChatModel:      cfg.ChatModel,
		EmbeddingModel: openai.EmbeddingModel(cfg.EmbeddingModel),
		Timeout:        cfg.Timeout,
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     cfg.RetryDelay,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize OpenAI client: %w", err)
	}

	store := sqlite.NewStore(db)
	store.SetEmbedder(client)

	service := recommend.NewService(store, client, cfg.CacheTTL, cfg.TopNPerCategory)

	// Create MCP server
	server := mcpserver.NewMCPServer(
		"ootd wardrobe",
		"0.1.0",
	)

	handlers := mcp.RegisterTools(server, store, service, cfg.MCPOwner)
	handlers.SetCacheInvalidator(service.Cache())

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Printf("ootd MCP server starting on stdio as owner %q...", cfg.MCPOwner)
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, gracefully shutting down...")
		}

	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
