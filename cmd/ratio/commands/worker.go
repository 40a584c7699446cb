package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ratiohq/ratio/internal/scheduler"
	"github.com/ratiohq/ratio/internal/scheduler/jobs"
)

// workerCmd represents the worker command
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the refresh scheduler without the API server",
	Long: `Runs the background refresh scheduler standalone.

Useful when the API is served by another process and this one only keeps
the rankings warm. Each universe refreshes on its own schedule.

Example:
  go run ./cmd/ratio worker`,
	RunE: runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
	app, err := buildApp()
	if err != nil {
		return err
	}
	defer app.Close()
	log := app.log

	sched := scheduler.New(log)
	for _, id := range app.service.UniverseIDs() {
		job := jobs.NewRefreshJob(app.service, id, app.cfg.UpdateIntervalHours, log)
		if err := sched.AddJob(job); err != nil {
			return fmt.Errorf("schedule refresh for %s: %w", id, err)
		}
	}

	// Warm the snapshots once before the cron cadence takes over.
	go func() {
		if err := app.service.RefreshAll(context.Background()); err != nil {
			log.WithError(err).Error("Initial rankings refresh failed")
		}
	}()

	sched.Start()

	fmt.Println("🚀 Worker started")
	fmt.Printf("   Refreshing every %dh. Press Ctrl+C to stop gracefully\n", app.cfg.UpdateIntervalHours)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\n⚠️  Shutdown signal received, waiting for running jobs")
	sched.Stop()

	for name, st := range sched.Stats() {
		log.WithFields(map[string]interface{}{
			"job":          name,
			"runs":         st.TotalRuns,
			"success_rate": st.SuccessRate,
		}).Info("Job summary")
	}

	fmt.Println("✅ Worker stopped gracefully")
	return nil
}
