// ABOUTME: Serve command starts the HTTP API server
// ABOUTME: Wires storage, the OpenAI client, and the recommendation pipeline
package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"github.com/samsam9395/my-ootd/internal/config"
	"github.com/samsam9395/my-ootd/internal/httpapi"
	"github.com/samsam9395/my-ootd/internal/llm"
	"github.com/samsam9395/my-ootd/internal/recommend"
	"github.com/samsam9395/my-ootd/internal/storage/sqlite"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the wardrobe API server",
		Long: `Start the wardrobe API server

Serves the JSON API for wardrobe management and outfit
recommendations. Requests are authenticated with a bearer token
whose subject identifies the wardrobe owner.`,
		RunE: runServe,
		Example: `  # Start the server on the configured address
  ootd serve

  # Required environment:
  #   OOTD_JWT_SECRET  - HMAC secret for bearer tokens
  #   OPENAI_API_KEY   - key for embeddings and the stylist`,
	}

	return cmd
}

// runServe starts the HTTP server
func runServe(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil && verbose {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.JWTSecret == "" {
		return fmt.Errorf("OOTD_JWT_SECRET must be set")
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
	if verbose {
		log.Printf("Using database at %s", db.Path())
	}

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
	server := httpapi.NewServer(cfg.HTTPAddr, store, service, service.Cache(), cfg.JWTSecret)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Printf("ootd API server listening on %s", cfg.HTTPAddr)
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, gracefully shutting down...")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Warning: error during shutdown: %v", err)
		}

		if !quiet {
			log.Println("Shutdown complete")
		}

	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
