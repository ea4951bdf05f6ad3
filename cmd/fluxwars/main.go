// fluxwars runs robot combat matches between built-in players.
//
// Usage:
//
//	fluxwars run --map arena --a hunter --b miner   - Play one match
//	fluxwars list                                    - List players and maps
//	fluxwars replay verify <file>                    - Check a replay's digest
//	fluxwars replay summary <file>                   - Print a replay's result
//
// Global flags:
//
//	--config-dir <dir>  - Directory holding fluxwars.cfg.json (default: .)
//	--log-level <lvl>   - Override the configured log level
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fluxwars/engine/internal/config"
)

var (
	flagConfigDir string
	flagLogLevel  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "fluxwars",
	Short:         "Deterministic robot combat matches",
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `fluxwars plays turn-based robot combat matches between programs
and records every round.

Examples:
  fluxwars list
  fluxwars run --map arena --a hunter --b miner
  fluxwars run --map ./maps/cross.yaml --storage sqlite
  fluxwars replay verify ./replays/match_arena_20260101_120000.json.gz`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", ".", "Directory holding "+config.FileName)
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level override: debug, info, warn, error")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(replayCmd)
}
