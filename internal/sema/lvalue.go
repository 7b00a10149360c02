package sema

import (
	"github.com/cwbudde/qoreir/internal/build"
	"github.com/cwbudde/qoreir/internal/coreapi"
	"github.com/cwbudde/qoreir/internal/ir"
)

// lvalue is the analyzer-side handle of spec.md §4.6: an addressable
// storage location (local or global) and its locking protocol. Acquiring
// it is a no-op for locals and a write-lock-plus-cleanup-stack-entry for
// globals; releasing reverses that.
type lvalue struct {
	sym coreapi.Symbol
}

func acquireLValue(b *build.Builder, sym coreapi.Symbol) lvalue {
	if sym.Kind == coreapi.SymbolGlobal {
		b.EmitWriteLockGlobal(sym.Global)
		b.PushLock(sym.Global, build.WriteLock)
	}
	return lvalue{sym: sym}
}

func releaseLValue(b *build.Builder, lv lvalue) {
	if lv.sym.Kind == coreapi.SymbolGlobal {
		b.EmitWriteUnlockGlobal(lv.sym.Global)
		b.PopLock(lv.sym.Global)
	}
}

// readRaw fetches the storage's current value without incrementing its
// refcount - used only when the caller is about to overwrite (and is
// therefore taking over) that reference, per §4.6's assignment recipe.
func readRaw(b *build.Builder, lv lvalue) ir.Temp {
	if lv.sym.Kind == coreapi.SymbolGlobal {
		return b.EmitGetGlobal(lv.sym.Global)
	}
	return b.EmitGetLocal(lv.sym.Local)
}

func writeRaw(b *build.Builder, lv lvalue, src ir.Temp) {
	if lv.sym.Kind == coreapi.SymbolGlobal {
		b.EmitSetGlobal(lv.sym.Global, src)
	} else {
		b.EmitSetLocal(lv.sym.Local, src)
	}
}
