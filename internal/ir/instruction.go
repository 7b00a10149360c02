// Package ir defines the low-level three-address instruction set (spec.md
// §3, C3): tagged instruction variants, basic blocks, functions and
// scripts, plus the textual printer of spec.md §6.
//
// Following DESIGN NOTES §9, instructions are one Go struct type per kind
// rather than a class hierarchy with a visitor: passes dispatch with a
// single type switch (see Printer and the interpreter's step loop).
package ir

import (
	"github.com/cwbudde/qoreir/internal/ops"
)

// Temp identifies a short-lived IR value within a function. Indices are
// dense and reused only after the temp's last read (spec.md §3).
type Temp int

// Slot identifies a local variable's storage within a function frame.
type Slot int

// LocalRef names a local variable. When Shared is true the slot holds a
// pointer to a heap cell rather than a direct value (spec.md §9, "Shared
// locals"); the core never sets Shared today since closures are not
// lowered. The printer marks shared slots; the interpreter reads and writes
// the slot directly whether or not Shared is set.
type LocalRef struct {
	Slot   Slot
	Shared bool
}

// GlobalID identifies a script-level global variable.
type GlobalID int

// StringID identifies a string literal in the script's string table.
type StringID int

// BlockID indexes into a Function's Blocks slice. Block references (branch
// targets, landing pads) are indices, never owning pointers - DESIGN NOTES
// §9, "graphs with optional back edges".
type BlockID int

// Instruction is implemented by every instruction variant below. Passes
// dispatch on the concrete type via a type switch rather than a visitor.
type Instruction interface {
	isInstruction()
}

// Landable is implemented by instructions that may raise and therefore
// optionally carry a landing-pad block reference (spec.md §3's "optional
// landing-pad block reference used only if that instruction raises").
type Landable interface {
	Instruction
	LandingPad() (BlockID, bool)
}

// Terminator is implemented by the four instruction kinds legal at the end
// of a basic block: Jump, CondJump, Rethrow, RetVoid.
type Terminator interface {
	Instruction
	isTerminator()
}

type IntConstant struct {
	Dest  Temp
	Value int64
}

func (IntConstant) isInstruction() {}

type GetLocal struct {
	Dest  Temp
	Local LocalRef
}

func (GetLocal) isInstruction() {}

type SetLocal struct {
	Local LocalRef
	Src   Temp
}

func (SetLocal) isInstruction() {}

type LoadString struct {
	Dest Temp
	Str  StringID
}

func (LoadString) isInstruction() {}

// RefInc increments a refcount. It is noexcept and ignores a null pointer.
type RefInc struct {
	Temp Temp
}

func (RefInc) isInstruction() {}

// RefDec decrements a refcount; the destructor it may invoke can raise, so
// it optionally carries a landing pad.
type RefDec struct {
	Temp    Temp
	Lpad    BlockID
	HasLpad bool
}

func (RefDec) isInstruction() {}
func (i RefDec) LandingPad() (BlockID, bool) { return i.Lpad, i.HasLpad }

// RefDecNoexcept decrements during unwind. If the destructor raises, the
// new exception is combined into the pending one in ExceptionTemp rather
// than propagated (spec.md §7) - it never needs its own landing pad.
type RefDecNoexcept struct {
	Temp          Temp
	ExceptionTemp Temp
}

func (RefDecNoexcept) isInstruction() {}

type ReadLockGlobal struct{ Global GlobalID }

func (ReadLockGlobal) isInstruction() {}

type ReadUnlockGlobal struct{ Global GlobalID }

func (ReadUnlockGlobal) isInstruction() {}

type WriteLockGlobal struct{ Global GlobalID }

func (WriteLockGlobal) isInstruction() {}

type WriteUnlockGlobal struct{ Global GlobalID }

func (WriteUnlockGlobal) isInstruction() {}

// GetGlobal reads a global; the caller must hold the read (or write) lock.
type GetGlobal struct {
	Dest   Temp
	Global GlobalID
}

func (GetGlobal) isInstruction() {}

// SetGlobal writes a global; the caller must hold the write lock.
type SetGlobal struct {
	Global GlobalID
	Src    Temp
}

func (SetGlobal) isInstruction() {}

// MakeGlobal runs a global's initializer, in qinit.
type MakeGlobal struct {
	Global GlobalID
	Src    Temp
}

func (MakeGlobal) isInstruction() {}

// FreeGlobal tears a global down, in qdone.
type FreeGlobal struct{ Global GlobalID }

func (FreeGlobal) isInstruction() {}

// LandingPad marks the entry point of a cleanup/catch block; it receives
// the pending exception into Dest.
type LandingPad struct {
	Dest Temp
}

func (LandingPad) isInstruction() {}

// Rethrow resumes unwinding with the given exception value. It is a
// terminator.
type Rethrow struct {
	Exception Temp
}

func (Rethrow) isInstruction() {}
func (Rethrow) isTerminator()   {}

// BinaryOperator applies a resolved operator descriptor to two temps.
type BinaryOperator struct {
	Dest    Temp
	Desc    *ops.BinaryOperatorDesc
	Left    Temp
	Right   Temp
	Lpad    BlockID
	HasLpad bool
}

func (BinaryOperator) isInstruction()               {}
func (i BinaryOperator) LandingPad() (BlockID, bool) { return i.Lpad, i.HasLpad }

// Conversion applies a resolved conversion descriptor to one temp.
type Conversion struct {
	Dest    Temp
	Desc    *ops.ConversionDesc
	Arg     Temp
	Lpad    BlockID
	HasLpad bool
}

func (Conversion) isInstruction()               {}
func (i Conversion) LandingPad() (BlockID, bool) { return i.Lpad, i.HasLpad }

// Jump is an unconditional control transfer. Terminator.
type Jump struct {
	Target BlockID
}

func (Jump) isInstruction() {}
func (Jump) isTerminator()  {}

// CondJump branches on a Bool temp. Terminator.
type CondJump struct {
	Cond Temp
	Then BlockID
	Else BlockID
}

func (CondJump) isInstruction() {}
func (CondJump) isTerminator()  {}

// RetVoid returns from the current function. Terminator.
type RetVoid struct{}

func (RetVoid) isInstruction() {}
func (RetVoid) isTerminator()  {}

// Print writes a temp's value to the script's output sink. It is not part
// of spec.md's core instruction set (the core has no notion of I/O); it
// is the one harness-only addition SPEC_FULL.md §5 licenses so the
// printed-output half of end-to-end scenarios S1/S2/S4 is observable at
// all, given the grammar includes a print builtin. It never raises and so
// never carries a landing pad.
type Print struct {
	Arg Temp
}

func (Print) isInstruction() {}
