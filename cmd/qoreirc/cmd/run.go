package cmd

import (
	"os"

	"github.com/cwbudde/qoreir/internal/interp"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Build a script, then interpret it",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		script, err := build(args[0])
		if err != nil {
			return err
		}
		it := interp.New(script, os.Stdout)
		it.SetLogger(activeLogger())
		return it.Run()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
