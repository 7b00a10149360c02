package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/qoreir/internal/ir"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build <file>",
	Short: "Scan, parse, resolve and analyze a script, printing its IR",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		script, err := build(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "%d global(s), %d function(s)\n", script.NumGlobals, len(script.Functions))
		fmt.Print(ir.DumpScript(script))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
