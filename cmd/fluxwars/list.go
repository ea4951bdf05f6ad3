package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fluxwars/engine/internal/mapdef"
	"github.com/fluxwars/engine/internal/players"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in players and maps",
	Run: func(cmd *cobra.Command, args []string) {
		printList(cmd.OutOrStdout())
	},
}

func printList(w io.Writer) {
	fmt.Fprintln(w, "Players:")
	for _, name := range players.Names() {
		fmt.Fprintf(w, "  %s\n", name)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Maps:")
	for _, name := range mapdef.BuiltinNames() {
		def, err := mapdef.Builtin(name)
		if err != nil {
			fmt.Fprintf(w, "  %-10s  (invalid: %v)\n", name, err)
			continue
		}
		m := def.Map
		fmt.Fprintf(w, "  %-10s  %dx%d  %d rounds  %d robots\n", name, m.Width(), m.Height(), m.MaxRounds(), len(def.Placements))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'fluxwars run --map <map> --a <player> --b <player>' to play.")
}
