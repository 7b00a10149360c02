package interp_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cwbudde/qoreir/internal/diag"
	"github.com/cwbudde/qoreir/internal/interp"
	"github.com/cwbudde/qoreir/internal/ir"
	"github.com/cwbudde/qoreir/internal/ops"
	"github.com/cwbudde/qoreir/internal/parseq"
	"github.com/cwbudde/qoreir/internal/sema"
	"github.com/gkampitakis/go-snaps/snaps"
)

// compile runs scan->parse->analyze and fails the test on any parse error or
// diagnostic, exactly as run() does, but returns the *ir.Script itself rather
// than interpreting it - the dump tests below care about the IR text, not
// about execution.
func compile(t *testing.T, source string) *ir.Script {
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
	return script
}

// S1 (spec.md §8): two Int temporaries combined with the Int '+' overload,
// nothing refcounted. print observes the sum.
const scenarioS1Source = `qmain {
	var a: Int = 2;
	var b: Int = 3;
	var c: Int = a + b;
	print(c);
}`

// S2 (spec.md §8): a String local built by repeated '+=' against a literal
// and an Int operand, exercising the Int->String conversion the '+='
// compound-assignment lowering inserts before resolving the String '+'
// overload. Three heap-backed String objects are live at the peak (the
// accumulator "n=", the converted-int operand "7", and the result "n=7");
// then the old accumulator and the converted operand are dropped by RefDec
// and the result stays in s.
const scenarioS2Source = `qmain {
	var s: String = "n=";
	var n: Int = 7;
	s += n;
	print(s);
}`

func TestScenarioS1IntAddition(t *testing.T) {
	out, err := run(t, scenarioS1Source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "5" {
		t.Fatalf("output = %q, want \"5\"", out)
	}
}

func TestScenarioS2StringConcatWithIntConversion(t *testing.T) {
	out, err := run(t, scenarioS2Source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "n=7" {
		t.Fatalf("output = %q, want \"n=7\"", out)
	}
}

// S6 (spec.md §8): the IR dump of a script is stable across repeated
// compilations and matches a recorded golden file - the same property
// TestDWScriptFixtures checks per-fixture via snaps.MatchSnapshot, adapted
// here to this IR's textual dump instead of interpreter stdout.
func TestScenarioS6IRDumpIsStable(t *testing.T) {
	script := compile(t, scenarioS2Source)
	snaps.MatchSnapshot(t, "scenario_s2_dump", ir.DumpScript(script))
}

// Testable Properties 4 and 6 (spec.md §8): dumping a script twice, or
// compiling the same source twice and dumping both results, produces
// byte-identical text - nothing in the Builder or the dump format depends on
// map iteration order, a pointer address, or wall-clock time.
func TestDumpScriptIsDeterministic(t *testing.T) {
	first := ir.DumpScript(compile(t, scenarioS2Source))
	second := ir.DumpScript(compile(t, scenarioS2Source))
	if first != second {
		t.Fatalf("two independent compiles of the same source produced different dumps:\n--- first ---\n%s\n--- second ---\n%s", first, second)
	}

	script := compile(t, scenarioS1Source)
	if ir.DumpScript(script) != ir.DumpScript(script) {
		t.Fatal("dumping the same *ir.Script twice produced different text")
	}
}

// S3/S4 (spec.md §8) describe a throwing Object destructor and a
// user-defined throwing function. Neither an Object type with user-visible
// destructors nor user-definable functions beyond qinit/qmain/qdone exist in
// this grammar, so both scenarios are approximated with the one throwing
// builtin operator this grammar has: integer division by zero. The shape
// the two scenarios are actually checking - a landing pad firing mid-
// expression, with the exception's cleanup edges running before control
// reaches the catch handler - is exercised by TestRunTryCatchRunsHandlerOnDivideByZero
// and TestRunUncaughtDivideByZeroIsUnhandled in interp_test.go; this golden
// test additionally pins the IR shape of that landing pad so a future change
// to landing-pad construction shows up as a snapshot diff.
func TestScenarioS3S4ThrowAcrossTryCatchDumpIsStable(t *testing.T) {
	const source = `qmain {
	var x: Int = 1;
	try {
		x /= 0;
	} catch (e) {
		print(99);
	}
}`
	script := compile(t, source)
	snaps.MatchSnapshot(t, "scenario_s3_s4_substitute_dump", ir.DumpScript(script))
}

// S5 (spec.md §8) describes two goroutines racing a shared global's reads
// against a writer, model-checked for absence of a torn read. This
// interpreter is explicitly single-threaded (spec.md §5's forward-compat
// note), so there is no execution to race: the property this repo can
// actually check is that every read and write of a shared global is wrapped
// in a balanced lock/unlock pair in the emitted IR, which is the invariant a
// future concurrent interpreter depends on for S5 to hold at all.
func TestSharedGlobalAccessIsLockBalanced(t *testing.T) {
	script := compile(t, `
qinit { shared var total: Int = 10; }
qmain { total += 5; print(total); }
qdone { }
`)

	for _, fn := range script.Functions {
		readDepth, writeDepth := 0, 0
		for _, b := range fn.Blocks {
			for _, instr := range b.Instructions {
				switch instr.(type) {
				case ir.ReadLockGlobal:
					readDepth++
				case ir.ReadUnlockGlobal:
					readDepth--
				case ir.WriteLockGlobal:
					writeDepth++
				case ir.WriteUnlockGlobal:
					writeDepth--
				}
			}
		}
		if readDepth != 0 {
			t.Errorf("function %s: read-lock/unlock imbalance, depth = %d", fn.Name, readDepth)
		}
		if writeDepth != 0 {
			t.Errorf("function %s: write-lock/unlock imbalance, depth = %d", fn.Name, writeDepth)
		}
	}
}

// a cheap sanity check, independent of go-snaps, that compile's script runs
// and that a script with no Print never writes to its *bytes.Buffer.
func TestCompileHelperProducesNoOutputWithoutPrint(t *testing.T) {
	script := compile(t, `qmain { var x: Int = 1; }`)
	var out bytes.Buffer
	if err := interp.New(script, &out).Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("output = %q, want empty", out.String())
	}
}
