package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/cartpilot/backend/config"
	httpDelivery "github.com/cartpilot/backend/internal/delivery/http"
	"github.com/cartpilot/backend/internal/domain"
	"github.com/cartpilot/backend/internal/infrastructure/session"
	"github.com/cartpilot/backend/internal/infrastructure/storage"
	"github.com/cartpilot/backend/internal/infrastructure/storefront"
	"github.com/cartpilot/backend/internal/usecase"
)

func main() {
	// Local .env is optional; real deployments use environment variables
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting CartPilot Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Storefront: %s (headless: %v)", cfg.Storefront.BaseURL, cfg.Storefront.Headless)

	// Initialize infrastructure dependencies
	sessions := session.NewMemoryStore(cfg.Session.TTL)
	log.Printf("Session TTL: %s (0 = until restart)", cfg.Session.TTL)

	store, err := storefront.New(storefront.Config{
		BaseURL:       cfg.Storefront.BaseURL,
		Headless:      cfg.Storefront.Headless,
		ScreenshotDir: cfg.Storefront.ScreenshotDir,
		NavPerMinute:  cfg.Storefront.NavPerMinute,
	})
	if err != nil {
		log.Fatalf("Failed to start storefront browser: %v", err)
	}
	defer store.Close()

	var history domain.SearchHistory
	if cfg.Storage.Enabled {
		pg, err := storage.NewPostgresHistory(cfg.Storage.PostgresDSN)
		if err != nil {
			log.Fatalf("Failed to connect to postgres: %v", err)
		}
		defer pg.Close()
		history = pg
		log.Printf("Search history persistence enabled")
	} else {
		log.Printf("Search history persistence disabled")
	}

	// Initialize usecase layer
	ranker := usecase.NewRankingService(usecase.RankConfig{
		CategoryKeywords: cfg.Search.CategoryKeywords,
		ExcludeKeywords:  cfg.Search.ExcludeKeywords,
		BaseURL:          cfg.Storefront.BaseURL,
	})

	shopping := usecase.NewShoppingService(
		store,
		sessions,
		history,
		ranker,
		usecase.ShoppingConfig{
			MaxResults:  cfg.Search.MaxResults,
			AddAllLimit: cfg.Search.AddAllLimit,
		},
	)

	parser := usecase.NewCommandParser(usecase.CommandConfig{
		DefaultBudget: cfg.Search.DefaultBudget,
		DefaultQuery:  cfg.Search.DefaultQuery,
	})

	log.Printf("Search: max_results=%d, add_all_limit=%d, default_budget=%.0f",
		cfg.Search.MaxResults, cfg.Search.AddAllLimit, cfg.Search.DefaultBudget)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(parser, shopping)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
