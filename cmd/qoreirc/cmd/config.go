package cmd

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

// runConfig is the optional qoreirc.yaml run-configuration (SPEC_FULL.md
// §1): dump format, landing-pad verbosity, and an include-path override for
// a future QORE_INCLUDE_PATH lookup. Every field has a zero value that
// reproduces today's CLI defaults, so a missing file changes nothing.
type runConfig struct {
	DumpFormat        string `yaml:"dumpFormat"`
	LandingPadDetail  bool   `yaml:"landingPadDetail"`
	IncludePathOverride string `yaml:"includePathOverride"`
}

func defaultConfig() runConfig {
	return runConfig{DumpFormat: "text"}
}

// loadConfig reads configPath if present, leaving cfg at its defaults when
// the file does not exist - qoreirc.yaml is optional, never required.
func loadConfig(_ *cobra.Command, _ []string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", configPath, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", configPath, err)
	}
	return nil
}
