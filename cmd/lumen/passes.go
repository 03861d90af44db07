package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"lumen/internal/passes"
)

var passesCmd = &cobra.Command{
	Use:   "passes",
	Short: "List the lowering passes in execution order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for i, p := range passes.Default().Passes() {
			fmt.Fprintf(w, "%d.\t%s\t%s\n", i+1, p.Name(), p.Description())
		}
		return w.Flush()
	},
}
