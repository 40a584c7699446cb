package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ratiohq/ratio/internal/rankings"
	"github.com/ratiohq/ratio/pkg/config"
	"github.com/ratiohq/ratio/pkg/httputil"
	"github.com/ratiohq/ratio/pkg/logger"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show a running server's snapshot health",
	Long: `Queries a running API server's /health endpoint and prints the
per-universe snapshot state.

Example:
  go run ./cmd/ratio status
  go run ./cmd/ratio status --url http://localhost:8080`,
	RunE: runStatus,
}

var statusURL string

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVar(&statusURL, "url", "", "server base URL (default http://localhost:$PORT)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	base := statusURL
	if base == "" {
		base = "http://localhost:" + cfg.Port
	}

	client := httputil.New(log).DisableRetry()
	resp, err := client.Get(context.Background(), base+"/health")
	if err != nil {
		return fmt.Errorf("server unreachable at %s: %w", base, err)
	}
	defer resp.Body.Close()

	var envelope struct {
		Success bool            `json:"success"`
		Data    rankings.Health `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode health response: %w", err)
	}
	health := envelope.Data

	fmt.Printf("\nServer: %s\n", base)
	fmt.Printf("Status: %s\n\n", health.Status)
	for id, uh := range health.Universes {
		fmt.Printf("  %-16s %-6s assets=%d/%d", id, uh.State, uh.AssetCount, uh.ConfiguredFor)
		if uh.LastRefreshed != nil {
			fmt.Printf("  refreshed=%s", uh.LastRefreshed.Format("2006-01-02 15:04:05"))
		}
		if uh.LastError != "" {
			fmt.Printf("  last_error=%q", uh.LastError)
		}
		fmt.Println()
	}
	return nil
}
