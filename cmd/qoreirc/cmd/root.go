package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	verbose    bool
	configPath string
	cfg        = defaultConfig()
)

var rootCmd = &cobra.Command{
	Use:   "qoreirc",
	Short: "qoreir IR builder, analyzer and interpreter",
	Long: `qoreirc drives the qoreir middle-end: scan, parse, analyze and either
print or interpret the resulting three-address IR.

qoreirc build <file>   scan, parse, resolve and analyze a script, printing its IR
qoreirc run <file>     build, then interpret the script
qoreirc dump <file>    print the textual IR dump used by the golden tests`,
	Version:           Version,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose (debug-level) logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "qoreirc.yaml", "run-configuration file")
}
