package interp_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cwbudde/qoreir/internal/diag"
	"github.com/cwbudde/qoreir/internal/interp"
	"github.com/cwbudde/qoreir/internal/ops"
	"github.com/cwbudde/qoreir/internal/parseq"
	"github.com/cwbudde/qoreir/internal/sema"
)

func run(t *testing.T, source string) (string, error) {
	t.Helper()
	p := parseq.New(source)
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	collector := diag.NewCollector()
	script := sema.CompileProgram(prog, ops.New(), collector)
	if collector.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", collector.FormatAll(false))
	}

	var out bytes.Buffer
	err := interp.New(script, &out).Run()
	return out.String(), err
}

func TestRunPrintsIntAfterCompoundAssign(t *testing.T) {
	out, err := run(t, `qmain { var x: Int = 2; x += 3; print(x); }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "5" {
		t.Fatalf("output = %q, want \"5\"", out)
	}
}

func TestRunStringConcatenation(t *testing.T) {
	out, err := run(t, `qmain { var s: String = "a"; s += "b"; print(s); }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "ab" {
		t.Fatalf("output = %q, want \"ab\"", out)
	}
}

func TestRunIfElseTakesTheTrueBranch(t *testing.T) {
	out, err := run(t, `qmain {
		var x: Int = 1;
		if (x == 1) { print(x); } else { print(0); }
	}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "1" {
		t.Fatalf("output = %q, want \"1\"", out)
	}
}

func TestRunWhileLoopAccumulates(t *testing.T) {
	out, err := run(t, `qmain {
		var x: Int = 0;
		while (x < 3) { x += 1; }
		print(x);
	}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "3" {
		t.Fatalf("output = %q, want \"3\"", out)
	}
}

func TestRunSharedGlobalIsVisibleAcrossFunctions(t *testing.T) {
	out, err := run(t, `
qinit { shared var total: Int = 10; }
qmain { total += 5; print(total); }
qdone { }
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "15" {
		t.Fatalf("output = %q, want \"15\"", out)
	}
}

func TestRunTryCatchRunsHandlerOnDivideByZero(t *testing.T) {
	out, err := run(t, `qmain {
		var x: Int = 1;
		try {
			x /= 0;
		} catch (e) {
			print(99);
		}
	}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "99" {
		t.Fatalf("output = %q, want \"99\"", out)
	}
}

func TestRunCatchVariableBindsTheThrownValue(t *testing.T) {
	out, err := run(t, `qmain {
		var x: Int = 1;
		try {
			x /= 0;
		} catch (e) {
			var m: String = e;
			print(m);
		}
	}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "division by zero" {
		t.Fatalf("output = %q, want \"division by zero\" (the catch variable must bind the thrown exception, not a zero value)", out)
	}
}

func TestRunUncaughtDivideByZeroIsUnhandled(t *testing.T) {
	_, err := run(t, `qmain { var x: Int = 1; x /= 0; }`)
	if err == nil {
		t.Fatal("expected an unhandled-exception error")
	}
	var unhandled *interp.UnhandledException
	if !strings.Contains(err.Error(), "unhandled exception") {
		t.Fatalf("error = %v, want an unhandled exception, as: %v", err, unhandled)
	}
}
