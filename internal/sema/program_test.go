package sema_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/cwbudde/qoreir/internal/diag"
	"github.com/cwbudde/qoreir/internal/ir"
	"github.com/cwbudde/qoreir/internal/ops"
	"github.com/cwbudde/qoreir/internal/parseq"
	"github.com/cwbudde/qoreir/internal/sema"
)

func compile(t *testing.T, source string) (*ir.Script, *diag.Collector) {
	t.Helper()
	p := parseq.New(source)
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	collector := diag.NewCollector()
	script := sema.CompileProgram(prog, ops.New(), collector)
	return script, collector
}

func TestCompileSimpleLocalAndPrint(t *testing.T) {
	src := `qmain { var x: Int = 1; x += 2; print(x); }`
	script, diags := compile(t, src)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diags.FormatAll(false))
	}
	qmain := script.Function(ir.QMain)
	if qmain == nil {
		t.Fatal("expected a qmain function")
	}
	dump := ir.Dump(qmain)
	if !strings.Contains(dump, "print") {
		t.Fatalf("expected a print instruction in the dump:\n%s", dump)
	}
}

func TestCompileSharedGlobalVisibleAcrossFunctionsAndTornDown(t *testing.T) {
	src := `
qinit { shared var total: Int = 0; }
qmain { total += 1; print(total); }
qdone { }
`
	script, diags := compile(t, src)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diags.FormatAll(false))
	}
	qinit := script.Function(ir.QInit)
	if !strings.Contains(ir.Dump(qinit), "make global.0") {
		t.Fatalf("expected qinit to construct global.0:\n%s", ir.Dump(qinit))
	}
	qmain := script.Function(ir.QMain)
	if !strings.Contains(ir.Dump(qmain), "write lock global.0") {
		t.Fatalf("expected qmain's compound assignment to lock global.0:\n%s", ir.Dump(qmain))
	}
	qdone := script.Function(ir.QDone)
	if !strings.Contains(ir.Dump(qdone), "free global.0") {
		t.Fatalf("expected qdone to free global.0:\n%s", ir.Dump(qdone))
	}
}

func TestCompileIfElseLowersToCondJump(t *testing.T) {
	src := `qmain { var x: Int = 1; if (x == 1) { print(x); } else { print(x); } }`
	script, diags := compile(t, src)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diags.FormatAll(false))
	}
	dump := ir.Dump(script.Function(ir.QMain))
	if !strings.Contains(dump, "cond jump") {
		t.Fatalf("expected a cond jump in the dump:\n%s", dump)
	}
}

func TestCompileWhileLowersToLoopingBlocks(t *testing.T) {
	src := `qmain { var x: Int = 0; while (x < 3) { x += 1; } }`
	script, diags := compile(t, src)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diags.FormatAll(false))
	}
	qmain := script.Function(ir.QMain)
	if len(qmain.Blocks) < 3 {
		t.Fatalf("expected at least head/body/exit blocks, got %d", len(qmain.Blocks))
	}
}

func TestCompileTryCatchBindsExceptionAndRethrowsOnExit(t *testing.T) {
	src := `
qmain {
	var s: String = "a";
	try {
		s += 1;
	} catch (e) {
		print(s);
	}
}
`
	script, diags := compile(t, src)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diags.FormatAll(false))
	}
	dump := ir.Dump(script.Function(ir.QMain))
	if !strings.Contains(dump, "landing pad") {
		t.Fatalf("expected a landing pad in the dump:\n%s", dump)
	}
	m := regexp.MustCompile(`temp\.(\d+) = landing pad`).FindStringSubmatch(dump)
	if m == nil || !regexp.MustCompile(`set local\.\d+ = temp\.`+m[1]+`\n`).MatchString(dump) {
		t.Fatalf("expected the catch variable to be set from the landing pad's exception temp:\n%s", dump)
	}
	if !strings.Contains(dump, "rethrow") {
		t.Fatalf("expected a rethrowing landing pad once the try is exited:\n%s", dump)
	}
}

func TestCompileUndefinedNameReportsDiagnostic(t *testing.T) {
	src := `qmain { print(missing); }`
	_, diags := compile(t, src)
	if !diags.HasErrors() {
		t.Fatal("expected a diagnostic for an undefined name")
	}
}

func TestCompileStatementWithNoEffectReportsDiagnostic(t *testing.T) {
	src := `qmain { var x: Int = 1; x; }`
	_, diags := compile(t, src)
	if !diags.HasErrors() {
		t.Fatal("expected a 'statement has no effect' diagnostic")
	}
}
