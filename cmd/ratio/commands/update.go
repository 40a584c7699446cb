package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ratiohq/ratio/internal/contracts"
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Compute rankings once and print the top of the board",
	Long: `Runs one refresh cycle in-process and prints the resulting ranking.

Example:
  go run ./cmd/ratio update
  go run ./cmd/ratio update --universe crypto --top 20`,
	RunE: runUpdate,
}

var (
	updateUniverse string
	updateTop      int
)

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().StringVar(&updateUniverse, "universe", "", "universe to refresh (default: all)")
	updateCmd.Flags().IntVar(&updateTop, "top", 10, "entries to print per universe")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	app, err := buildApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ids := app.service.UniverseIDs()
	if updateUniverse != "" {
		ids = []string{updateUniverse}
	}

	ctx := context.Background()
	for _, id := range ids {
		snap, err := app.service.Refresh(ctx, id)
		if err != nil {
			if updateUniverse == "" {
				app.log.WithError(err).WithField("universe", id).Error("Refresh failed")
				continue
			}
			return fmt.Errorf("refresh %s: %w", id, err)
		}
		printBoard(id, snap.Top(updateTop), snap.AssetCount)
	}
	return nil
}

func printBoard(universeID string, entries []contracts.RankedEntry, total int) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  %s (%d assets ranked)\n", universeID, total)
	fmt.Println("───────────────────────────────────────────────────────────")
	fmt.Printf("  %-4s %-8s %-6s %-8s %-10s %s\n", "Rank", "Symbol", "Wins", "WinRate", "Price", "vs MA")
	for _, e := range entries {
		fmt.Printf("  %-4d %-8s %-6d %6.1f%%  %10.2f %+6.2f%%\n",
			e.Rank, e.Symbol, e.Wins, e.WinRate, e.CurrentPrice, e.PercentAboveMA)
	}
	fmt.Println("═══════════════════════════════════════════════════════════")
}
