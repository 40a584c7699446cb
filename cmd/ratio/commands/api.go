package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ratiohq/ratio/internal/api"
	"github.com/ratiohq/ratio/internal/api/handlers"
	"github.com/ratiohq/ratio/internal/scheduler"
	"github.com/ratiohq/ratio/internal/scheduler/jobs"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server with the background refresh scheduler.

Endpoints:
  GET  /health               - Per-universe snapshot state
  GET  /api/big-board        - Stocks + ETFs + top crypto ranking
  GET  /api/crypto-explorer  - Full crypto ranking
  GET  /api/asset/{symbol}   - One asset's standing
  GET  /api/network-test     - Provider connectivity check
  POST /api/update           - Manual refresh trigger

Example:
  go run ./cmd/ratio api
  go run ./cmd/ratio api --port 8080 --skip-initial-refresh`,
	RunE: runAPIServer,
}

var (
	apiPort            string
	skipInitialRefresh bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
	apiCmd.Flags().BoolVar(&skipInitialRefresh, "skip-initial-refresh", false, "do not compute rankings at startup")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	app, err := buildApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if apiPort != "" {
		app.cfg.Port = apiPort
	}
	log := app.log

	// Scheduler: one refresh job per universe.
	sched := scheduler.New(log)
	for _, id := range app.service.UniverseIDs() {
		job := jobs.NewRefreshJob(app.service, id, app.cfg.UpdateIntervalHours, log)
		if err := sched.AddJob(job); err != nil {
			return fmt.Errorf("schedule refresh for %s: %w", id, err)
		}
	}

	// First snapshot in the background so the server comes up immediately;
	// the API serves 503 until it lands.
	if !skipInitialRefresh {
		go func() {
			if err := app.service.RefreshAll(context.Background()); err != nil {
				log.WithError(err).Error("Initial rankings refresh failed")
			}
		}()
	}

	sched.Start()
	defer sched.Stop()

	handler := handlers.NewRankingsHandler(app.service, log)
	router := api.NewRouter(handler, log)
	server := api.New(app.cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", app.cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  GET  /api/big-board")
	fmt.Println("  GET  /api/crypto-explorer")
	fmt.Println("  GET  /api/asset/{symbol}")
	fmt.Println("  GET  /api/network-test")
	fmt.Println("  POST /api/update")
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
