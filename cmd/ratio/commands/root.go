package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ratio",
	Short: "Ratio - tournament-based relative strength rankings",
	Long: `Ratio ranks stocks, ETFs, and crypto by relative strength.

Every pair of assets in a universe plays a matchup: the ratio of their
price series is compared against its own moving average. Wins across all
matchups produce the ranking.

Usage:
  go run ./cmd/ratio [command]

Examples:
  go run ./cmd/ratio api
  go run ./cmd/ratio worker
  go run ./cmd/ratio update --universe crypto
  go run ./cmd/ratio status`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
