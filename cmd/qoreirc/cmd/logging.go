package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/qoreir"
)

// stderrLogger is the CLI's qoreir.Logger: Debugf always prints when
// verbose is set, Tracef only additionally when landingPadDetail asks for
// the noisier per-instruction trace (SPEC_FULL.md §1's "landing-pad
// verbosity" config knob).
type stderrLogger struct{}

func (stderrLogger) Debugf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "debug: "+format+"\n", args...)
}

func (stderrLogger) Tracef(format string, args ...any) {
	if !cfg.LandingPadDetail {
		return
	}
	fmt.Fprintf(os.Stderr, "trace: "+format+"\n", args...)
}

// activeLogger returns the logger components should install, or nil to
// disable logging entirely - the default when -v was not given.
func activeLogger() qoreir.Logger {
	if !verbose {
		return nil
	}
	return stderrLogger{}
}
