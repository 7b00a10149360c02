package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/qoreir/internal/diag"
	"github.com/cwbudde/qoreir/internal/ir"
	"github.com/cwbudde/qoreir/internal/ops"
	"github.com/cwbudde/qoreir/internal/parseq"
	"github.com/cwbudde/qoreir/internal/sema"
)

// build runs scan -> parse -> resolve -> analyze on filename, returning the
// compiled script. It prints parse errors and diagnostics to stderr itself
// and returns a non-nil error when compilation failed, so callers can just
// propagate it as the command's RunE result.
func build(filename string) (*ir.Script, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}

	p := parseq.New(string(content))
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e)
		}
		return nil, fmt.Errorf("parsing %s failed with %d error(s)", filename, len(errs))
	}

	collector := diag.NewCollector()
	script := sema.CompileProgram(prog, ops.New(), collector, activeLogger())
	if collector.HasErrors() {
		fmt.Fprint(os.Stderr, collector.FormatAll(true))
		return nil, fmt.Errorf("analysis of %s failed", filename)
	}
	return script, nil
}
