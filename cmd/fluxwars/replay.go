package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fluxwars/engine/pkg/replay"
	"github.com/fluxwars/engine/pkg/signal"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Inspect recorded matches",
}

var replayVerifyCmd = &cobra.Command{
	Use:   "verify <file>",
	Short: "Recompute a replay's digest and compare it to the recorded one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := replay.ReadFile(args[0])
		if err != nil {
			return err
		}
		digest, err := f.Verify()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok %s\n", digest)
		return nil
	},
}

var replaySummaryCmd = &cobra.Command{
	Use:   "summary <file>",
	Short: "Print the result and signal counts of a replay",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := replay.ReadFile(args[0])
		if err != nil {
			return err
		}
		printSummary(cmd.OutOrStdout(), f)
		return nil
	},
}

func init() {
	replayCmd.AddCommand(replayVerifyCmd)
	replayCmd.AddCommand(replaySummaryCmd)
}

func printSummary(w io.Writer, f *replay.File) {
	info := f.Match
	fmt.Fprintf(w, "%s on %s (seed %d)\n", info.Name, info.MapName, info.Seed)
	fmt.Fprintf(w, "  A: %s\n  B: %s\n", info.TeamA, info.TeamB)
	fmt.Fprintf(w, "  rounds recorded: %d\n", len(f.Rounds))

	if f.Result == nil {
		fmt.Fprintln(w, "  unfinished")
	} else {
		fmt.Fprintf(w, "  winner: %s (%s) after %d rounds\n", f.Result.Winner, f.Result.Domination, f.Result.Rounds)
	}

	counts := make(map[string]int)
	for _, r := range f.Rounds {
		for _, env := range r.Signals {
			counts[env.Type]++
		}
	}
	for _, k := range signal.Kinds() {
		if n := counts[k.String()]; n > 0 {
			fmt.Fprintf(w, "  %-16s %d\n", k, n)
		}
	}
}
