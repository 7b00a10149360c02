package build

import (
	"github.com/cwbudde/qoreir/internal/ir"
	"github.com/cwbudde/qoreir/internal/ops"
)

// Typed emission wrappers. Each allocates its own destination temp (value-
// producing instructions) and appends to the current block; instructions
// that can raise (BinaryOperator, Conversion, RefDec) attach whatever
// CurrentLandingPad returns at the moment of emission, not at some later
// fixup pass - the builder has no separate relocation step.

func (b *Builder) EmitIntConstant(value int64) ir.Temp {
	dest := b.AllocTemp()
	b.emit(ir.IntConstant{Dest: dest, Value: value})
	return dest
}

func (b *Builder) EmitLoadString(id ir.StringID) ir.Temp {
	dest := b.AllocTemp()
	b.emit(ir.LoadString{Dest: dest, Str: id})
	return dest
}

func (b *Builder) EmitGetLocal(local ir.LocalRef) ir.Temp {
	dest := b.AllocTemp()
	b.emit(ir.GetLocal{Dest: dest, Local: local})
	return dest
}

func (b *Builder) EmitSetLocal(local ir.LocalRef, src ir.Temp) {
	b.emit(ir.SetLocal{Local: local, Src: src})
}

func (b *Builder) EmitRefInc(t ir.Temp) {
	b.emit(ir.RefInc{Temp: t})
}

// EmitRefDec emits a normal-exit decrement for t, attaching the landing
// pad current at the time of the call. Callers must PopTemp(t) (or pop the
// matching local entry) before calling this, so the landing pad it attaches
// excludes t itself - spec.md §4.6's "each with its own landing-pad that
// excludes the just-released temp".
func (b *Builder) EmitRefDec(t ir.Temp) {
	lpad, has := b.CurrentLandingPad()
	b.emit(ir.RefDec{Temp: t, Lpad: lpad, HasLpad: has})
}

func (b *Builder) EmitReadLockGlobal(g ir.GlobalID) {
	b.emit(ir.ReadLockGlobal{Global: g})
}

func (b *Builder) EmitReadUnlockGlobal(g ir.GlobalID) {
	b.emit(ir.ReadUnlockGlobal{Global: g})
}

func (b *Builder) EmitWriteLockGlobal(g ir.GlobalID) {
	b.emit(ir.WriteLockGlobal{Global: g})
}

func (b *Builder) EmitWriteUnlockGlobal(g ir.GlobalID) {
	b.emit(ir.WriteUnlockGlobal{Global: g})
}

func (b *Builder) EmitGetGlobal(g ir.GlobalID) ir.Temp {
	dest := b.AllocTemp()
	b.emit(ir.GetGlobal{Dest: dest, Global: g})
	return dest
}

func (b *Builder) EmitSetGlobal(g ir.GlobalID, src ir.Temp) {
	b.emit(ir.SetGlobal{Global: g, Src: src})
}

func (b *Builder) EmitMakeGlobal(g ir.GlobalID, src ir.Temp) {
	b.emit(ir.MakeGlobal{Global: g, Src: src})
}

func (b *Builder) EmitFreeGlobal(g ir.GlobalID) {
	b.emit(ir.FreeGlobal{Global: g})
}

func (b *Builder) EmitBinaryOperator(desc *ops.BinaryOperatorDesc, left, right ir.Temp) ir.Temp {
	dest := b.AllocTemp()
	lpad, has := b.CurrentLandingPad()
	b.emit(ir.BinaryOperator{Dest: dest, Desc: desc, Left: left, Right: right, Lpad: lpad, HasLpad: has})
	return dest
}

func (b *Builder) EmitConversion(desc *ops.ConversionDesc, arg ir.Temp) ir.Temp {
	dest := b.AllocTemp()
	lpad, has := b.CurrentLandingPad()
	b.emit(ir.Conversion{Dest: dest, Desc: desc, Arg: arg, Lpad: lpad, HasLpad: has})
	return dest
}

func (b *Builder) EmitJump(target ir.BlockID) {
	b.emit(ir.Jump{Target: target})
}

func (b *Builder) EmitCondJump(cond ir.Temp, then, els ir.BlockID) {
	b.emit(ir.CondJump{Cond: cond, Then: then, Else: els})
}

func (b *Builder) EmitRetVoid() {
	b.emit(ir.RetVoid{})
}

func (b *Builder) EmitRethrow(exc ir.Temp) {
	b.emit(ir.Rethrow{Exception: exc})
}

// EmitPrint emits the harness-only Print instruction (see ir.Print).
func (b *Builder) EmitPrint(arg ir.Temp) {
	b.emit(ir.Print{Arg: arg})
}
