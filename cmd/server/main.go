/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the Hearth household server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load YAML configuration
  3. Initialize SQLite store
  4. Create API handler with dependencies
  5. Start the invitation expiry sweeper
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  YAML config path (default: none, built-in defaults)
  -listen  Listen address override (e.g. ":3000")
  -db      SQLite database path override
           Use ":memory:" for in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the sweeper
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with a config file
  ./hearthd -config=./hearth.yaml

  # Run with in-memory database
  ./hearthd -db=":memory:"

SEE ALSO:
  - config/config.go: YAML configuration
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hearth/household-engine/api"
	"github.com/hearth/household-engine/config"
	"github.com/hearth/household-engine/store/sqlite"
)

func main() {
	// Flags
	configPath := flag.String("config", "", "YAML config path")
	listen := flag.String("listen", "", "listen address override")
	dbPath := flag.String("db", "", "SQLite database path override")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Failed to resolve timezone: %v", err)
	}

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize handler and router
	handler := api.NewHandler(store, cfg.Prices, loc)
	handler.InvitationTTL = cfg.InvitationTTL()
	router := api.NewRouter(handler, cfg.CORSOrigins)

	// Invitation expiry sweeper
	sweeper := api.NewInvitationSweeper(store, cfg.InvitationSweep)
	if err := sweeper.Start(); err != nil {
		log.Fatalf("Failed to start sweeper: %v", err)
	}
	defer sweeper.Stop()

	server := &http.Server{
		Addr:         cfg.Listen,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
