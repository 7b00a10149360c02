package sema

import (
	"github.com/cwbudde/qoreir/internal/build"
	"github.com/cwbudde/qoreir/internal/coreapi"
	"github.com/cwbudde/qoreir/internal/ir"
	"github.com/cwbudde/qoreir/internal/ops"
	"github.com/cwbudde/qoreir/internal/types"
)

// emitExpr is pass 2's eval(dest, e): it evaluates e into a freshly
// allocated temp that the caller owns a +1 reference to on return, per
// spec.md §4.6's reference-count discipline (allocate, evaluate operands
// registering them on the cleanup stack, emit with a landing-pad
// snapshot, decrement consumed operands, hand the result to the caller).
func (a *Analyzer) emitExpr(b *build.Builder, e Expr) (ir.Temp, bool) {
	switch n := e.(type) {
	case *LiteralExpr:
		return a.emitLiteral(b, n), false

	case *NameExpr:
		return a.emitNameRead(b, n.Sym)

	case *ConversionExpr:
		argTemp, argRC := a.emitExpr(b, n.Arg)
		if argRC {
			b.PushTemp(argTemp, true)
		}
		dest := b.EmitConversion(n.Desc, argTemp)
		if argRC {
			b.PopTemp(argTemp)
			b.EmitRefDec(argTemp)
		}
		return dest, n.Desc.To.IsRefCounted()

	case *BinaryExpr:
		leftTemp, leftRC := a.emitExpr(b, n.Left)
		if leftRC {
			b.PushTemp(leftTemp, true)
		}
		rightTemp, rightRC := a.emitExpr(b, n.Right)
		if rightRC {
			b.PushTemp(rightTemp, true)
		}
		dest := b.EmitBinaryOperator(n.Desc, leftTemp, rightTemp)
		if rightRC {
			b.PopTemp(rightTemp)
			b.EmitRefDec(rightTemp)
		}
		if leftRC {
			b.PopTemp(leftTemp)
			b.EmitRefDec(leftTemp)
		}
		return dest, n.Desc.Return.IsRefCounted()

	case *CallExpr:
		return a.emitCall(b, n)

	default:
		// ErrorExpr or anything unrecognized: a zero Int temp keeps the
		// emission going without a second diagnostic.
		return b.EmitIntConstant(0), false
	}
}

func (a *Analyzer) emitLiteral(b *build.Builder, n *LiteralExpr) ir.Temp {
	switch n.T {
	case types.String:
		id := a.Script.InternString(n.StrVal)
		return b.EmitLoadString(id)
	case types.Bool:
		if n.BoolVal {
			return b.EmitIntConstant(1)
		}
		return b.EmitIntConstant(0)
	default:
		return b.EmitIntConstant(n.IntVal)
	}
}

// emitNameRead implements spec.md §4.6's "Global reads": take the lock,
// copy the value, RefInc if refcounted, release the lock. A local read
// does the same minus the lock, since locals have no locking protocol.
func (a *Analyzer) emitNameRead(b *build.Builder, sym coreapi.Symbol) (ir.Temp, bool) {
	refCounted := sym.Type.IsRefCounted()
	if sym.Kind == coreapi.SymbolGlobal {
		b.EmitReadLockGlobal(sym.Global)
		dest := b.EmitGetGlobal(sym.Global)
		if refCounted {
			b.EmitRefInc(dest)
		}
		b.EmitReadUnlockGlobal(sym.Global)
		return dest, refCounted
	}
	dest := b.EmitGetLocal(sym.Local)
	if refCounted {
		b.EmitRefInc(dest)
	}
	return dest, refCounted
}

func (a *Analyzer) emitCall(b *build.Builder, n *CallExpr) (ir.Temp, bool) {
	argTemps := make([]ir.Temp, len(n.Args))
	argRC := make([]bool, len(n.Args))
	for i, arg := range n.Args {
		argTemps[i], argRC[i] = a.emitExpr(b, arg)
		if argRC[i] {
			b.PushTemp(argTemps[i], true)
		}
	}
	if len(argTemps) > 0 {
		b.EmitPrint(argTemps[0])
	}
	for i := len(argTemps) - 1; i >= 0; i-- {
		if argRC[i] {
			b.PopTemp(argTemps[i])
			b.EmitRefDec(argTemps[i])
		}
	}
	return b.EmitIntConstant(0), false
}

// emitAssign implements spec.md §4.6's Assignment recipe literally.
func (a *Analyzer) emitAssign(b *build.Builder, sym coreapi.Symbol, rhs Expr) {
	tRhs, rhsRC := a.emitExpr(b, rhs)
	b.PushTemp(tRhs, rhsRC) // 1: evaluate rhs, push

	lv := acquireLValue(b, sym) // 2: build lvalue handle (acquires lock)
	tOld := readRaw(b, lv)      // 3: current value -> t_old
	oldRC := sym.Type.IsRefCounted()
	b.PushTemp(tOld, oldRC)

	writeRaw(b, lv, tRhs) // 4: store t_rhs

	b.PopTemp(tRhs)       // 5: ownership transferred, no dec
	releaseLValue(b, lv) // 6: release lvalue handle

	b.PopTemp(tOld) // 7: dec t_old (landing pad now excludes it)
	if oldRC {
		b.EmitRefDec(tOld)
	}
}

// emitCompoundAssign implements spec.md §4.6's Compound assignment
// recipe. rhs is assumed already wrapped in a conversion to sym.Type by
// pass 1 (analyzeAssignStmt), so t_rhs here is the post-conversion
// value - this is what "converts the RHS accordingly" (§4.5) means in
// terms of the typed tree pass 2 actually emits.
func (a *Analyzer) emitCompoundAssign(b *build.Builder, sym coreapi.Symbol, desc *ops.BinaryOperatorDesc, rhs Expr) {
	tRhs, rhsRC := a.emitExpr(b, rhs)
	b.PushTemp(tRhs, rhsRC) // 1

	lv := acquireLValue(b, sym) // 2
	tOld := readRaw(b, lv)      // 3
	oldRC := sym.Type.IsRefCounted()
	b.PushTemp(tOld, oldRC)

	tNew := b.EmitBinaryOperator(desc, tOld, tRhs) // 4
	writeRaw(b, lv, tNew)                          // 5

	releaseLValue(b, lv) // 6

	b.PopTemp(tOld) // 7: dec t_old, dec t_rhs, in that order
	if oldRC {
		b.EmitRefDec(tOld)
	}
	b.PopTemp(tRhs)
	if rhsRC {
		b.EmitRefDec(tRhs)
	}
}
