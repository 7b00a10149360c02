package cmd

import (
	"fmt"

	"github.com/cwbudde/qoreir/internal/ir"
	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Print the textual IR dump of a script (spec.md §6)",
	Long: `dump prints the same textual IR dump the golden tests compare
against: the BB.<n> blocks of each function, one mnemonic line per instruction.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		script, err := build(args[0])
		if err != nil {
			return err
		}
		fmt.Print(ir.DumpScript(script))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}
