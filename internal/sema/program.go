package sema

import (
	"github.com/cwbudde/qoreir"
	"github.com/cwbudde/qoreir/internal/ast"
	"github.com/cwbudde/qoreir/internal/build"
	"github.com/cwbudde/qoreir/internal/coreapi"
	"github.com/cwbudde/qoreir/internal/diag"
	"github.com/cwbudde/qoreir/internal/ir"
	"github.com/cwbudde/qoreir/internal/ops"
)

// CompileProgram lowers a parsed program's qinit/qmain/qdone bodies into
// one ir.Script, sharing a single root scope (so a global declared in
// qinit is visible from qmain and qdone) and a single Analyzer (so the
// string table and diagnostic sink are shared too).
//
// Global teardown is simplified relative to spec.md §4.4's three-entry-
// kind cleanup stack: rather than adding a fourth kind for "global needs
// FreeGlobal on unwind", qinit's MakeGlobal calls are emitted in
// declaration order as each shared var is reached, and qdone's body ends
// with a FreeGlobal for every global in reverse order, unconditionally,
// appended to whichever block control reaches at the end of qdone's body
// before that block's RetVoid is emitted. Testable Property 9's reverse-
// order cleanup on an uncaught exception during qinit itself is not
// reproduced - see DESIGN.md.
//
// An optional logger (variadic so existing callers are unaffected) is
// installed on every function's Builder, giving a CLI --verbose flag
// visibility into landing-pad construction across all of qinit/qmain/qdone.
func CompileProgram(prog *ast.Program, reg *ops.Registry, reporter diag.Reporter, logger ...qoreir.Logger) *ir.Script {
	script := ir.NewScript()
	analyzer := New(reg, reporter, script)
	root := coreapi.NewStaticScope()

	var log qoreir.Logger
	if len(logger) > 0 {
		log = logger[0]
	}

	for _, fn := range prog.Functions {
		b := build.New(fn.Name)
		if log != nil {
			b.SetLogger(log)
		}
		analyzer.analyzeBlock(b, fn.Body, root)
		if fn.Name == ir.QDone {
			globals := root.Globals()
			for i := len(globals) - 1; i >= 0; i-- {
				b.EmitFreeGlobal(globals[i])
			}
		}
		b.EmitRetVoid()
		script.AddFunction(b.Finish())
	}

	return script
}
