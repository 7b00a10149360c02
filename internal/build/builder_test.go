package build

import (
	"testing"

	"github.com/cwbudde/qoreir/internal/ir"
)

func TestAllocTempReusesFreedBeforeBumping(t *testing.T) {
	b := New("qmain")
	t0 := b.AllocTemp()
	t1 := b.AllocTemp()
	if t0 == t1 {
		t.Fatal("distinct allocations must return distinct temps")
	}
	b.FreeTemp(t0)
	t2 := b.AllocTemp()
	if t2 != t0 {
		t.Fatalf("expected freed temp %d to be reused, got %d", t0, t2)
	}
}

func TestNumTempsTracksHighWaterMark(t *testing.T) {
	b := New("qmain")
	a := b.AllocTemp()
	_ = b.AllocTemp()
	b.FreeTemp(a)
	b.AllocTemp()
	b.AllocTemp()
	f := b.Finish()
	if f.NumTemps != 3 {
		t.Fatalf("NumTemps = %d, want 3 (high water mark, not churn count)", f.NumTemps)
	}
}

func TestCurrentLandingPadEmptyStackNoCatch(t *testing.T) {
	b := New("qmain")
	_, has := b.CurrentLandingPad()
	if has {
		t.Fatal("expected no landing pad with an empty cleanup stack and no enclosing catch")
	}
}

func TestCurrentLandingPadMemoizes(t *testing.T) {
	b := New("qmain")
	t0 := b.AllocTemp()
	b.PushTemp(t0, true)
	id1, has1 := b.CurrentLandingPad()
	id2, has2 := b.CurrentLandingPad()
	if !has1 || !has2 {
		t.Fatal("expected a landing pad once a temp is pushed")
	}
	if id1 != id2 {
		t.Fatalf("expected memoized landing pad block id to stay stable, got %d then %d", id1, id2)
	}
	nBlocksBefore := len(b.fn.Blocks)
	b.CurrentLandingPad()
	if len(b.fn.Blocks) != nBlocksBefore {
		t.Fatal("memoized CurrentLandingPad must not allocate new blocks")
	}
}

func TestCurrentLandingPadRebuildsAfterInvalidation(t *testing.T) {
	b := New("qmain")
	t0 := b.AllocTemp()
	b.PushTemp(t0, true)
	id1, _ := b.CurrentLandingPad()

	t1 := b.AllocTemp()
	b.PushTemp(t1, true)
	id2, _ := b.CurrentLandingPad()

	if id1 == id2 {
		t.Fatal("expected a fresh landing pad block after the cleanup stack changed")
	}
	blk := b.fn.Block(id2)
	if len(blk.Instructions) == 0 {
		t.Fatal("rebuilt landing pad should contain instructions")
	}
	if _, ok := blk.Instructions[0].(ir.LandingPad); !ok {
		t.Fatalf("landing pad block must start with LandingPad, got %T", blk.Instructions[0])
	}
	last := blk.Instructions[len(blk.Instructions)-1]
	if _, ok := last.(ir.Rethrow); !ok {
		t.Fatalf("landing pad with no enclosing catch must end in Rethrow, got %T", last)
	}
}

func TestCurrentLandingPadOrdersLIFOAcrossTempsAndLocks(t *testing.T) {
	// Push order: temp A, lock G, local L (declared while G held).
	// LIFO unwind must release: local L's dec, then lock G, then temp A's dec.
	b := New("qmain")
	tA := b.AllocTemp()
	b.PushTemp(tA, true)
	b.PushLock(ir.GlobalID(0), WriteLock)
	local := b.DeclareLocal(true)

	id, has := b.CurrentLandingPad()
	if !has {
		t.Fatal("expected a landing pad")
	}
	blk := b.fn.Block(id)

	var kinds []string
	for _, instr := range blk.Instructions {
		switch v := instr.(type) {
		case ir.LandingPad:
			kinds = append(kinds, "landingpad")
		case ir.GetLocal:
			if v.Local != local {
				t.Fatalf("unexpected local ref %+v", v.Local)
			}
			kinds = append(kinds, "getlocal")
		case ir.RefDecNoexcept:
			kinds = append(kinds, "decnoexcept")
		case ir.WriteUnlockGlobal:
			kinds = append(kinds, "writeunlock")
		case ir.Rethrow:
			kinds = append(kinds, "rethrow")
		default:
			t.Fatalf("unexpected instruction %T in landing pad", v)
		}
	}

	want := []string{"landingpad", "getlocal", "decnoexcept", "writeunlock", "decnoexcept", "rethrow"}
	if len(kinds) != len(want) {
		t.Fatalf("landing pad instruction sequence = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("landing pad instruction sequence = %v, want %v", kinds, want)
		}
	}
}

func TestCurrentLandingPadSkipsNonRefCountedEntries(t *testing.T) {
	b := New("qmain")
	tInt := b.AllocTemp()
	b.PushTemp(tInt, false) // e.g. an Int temp - not refcounted
	_, has := b.CurrentLandingPad()
	if has {
		t.Fatal("a non-refcounted-only cleanup stack with no lock/catch should still need no landing pad")
	}
}

func TestCurrentLandingPadJumpsToCatchInsteadOfRethrow(t *testing.T) {
	b := New("qmain")
	catchBlock := b.CreateBlock()
	t0 := b.AllocTemp()
	b.PushTemp(t0, true)
	b.BeginTry(catchBlock)

	id, has := b.CurrentLandingPad()
	if !has {
		t.Fatal("expected a landing pad once try is active")
	}
	blk := b.fn.Block(id)
	last := blk.Instructions[len(blk.Instructions)-1]
	jump, ok := last.(ir.Jump)
	if !ok {
		t.Fatalf("expected landing pad to end in Jump while a catch is active, got %T", last)
	}
	if jump.Target != catchBlock {
		t.Fatalf("landing pad jump target = %d, want %d", jump.Target, catchBlock)
	}

	b.EndTry()
	id2, _ := b.CurrentLandingPad()
	blk2 := b.fn.Block(id2)
	last2 := blk2.Instructions[len(blk2.Instructions)-1]
	if _, ok := last2.(ir.Rethrow); !ok {
		t.Fatalf("expected Rethrow after EndTry, got %T", last2)
	}
}

func TestPushTempThenPopTempOmitsItFromLandingPad(t *testing.T) {
	b := New("qmain")
	kept := b.AllocTemp()
	b.PushTemp(kept, true)
	transferred := b.AllocTemp()
	b.PushTemp(transferred, true)
	b.PopTemp(transferred) // ownership moved into storage, no longer our obligation

	id, _ := b.CurrentLandingPad()
	blk := b.fn.Block(id)
	for _, instr := range blk.Instructions {
		if dec, ok := instr.(ir.RefDecNoexcept); ok && dec.Temp == transferred {
			t.Fatal("popped temp must not appear in the landing pad")
		}
	}
}

func TestEndBlockScopeEmitsRefDecForLocalsInReverseAndPopsThem(t *testing.T) {
	b := New("qmain")
	mark := b.BeginBlockScope()
	l0 := b.DeclareLocal(true)
	l1 := b.DeclareLocal(true)
	_ = l0
	_ = l1
	before := len(b.cleanup)
	if before != 2 {
		t.Fatalf("expected 2 cleanup entries before EndBlockScope, got %d", before)
	}
	b.EndBlockScope(mark)
	if len(b.cleanup) != 0 {
		t.Fatalf("expected cleanup stack back to mark, got %d entries", len(b.cleanup))
	}

	blk := b.fn.Block(b.CurrentBlockID())
	var decs []ir.LocalRef
	for i := 0; i < len(blk.Instructions); i++ {
		if gl, ok := blk.Instructions[i].(ir.GetLocal); ok {
			if dec, ok := blk.Instructions[i+1].(ir.RefDec); ok {
				_ = dec
				decs = append(decs, gl.Local)
			}
		}
	}
	if len(decs) != 2 || decs[0] != l1 || decs[1] != l0 {
		t.Fatalf("expected RefDec order [l1, l0] (innermost first), got %v", decs)
	}
}

func TestEndBlockScopeSkipsNonRefCountedLocals(t *testing.T) {
	b := New("qmain")
	mark := b.BeginBlockScope()
	b.DeclareLocal(false)
	b.EndBlockScope(mark)
	blk := b.fn.Block(b.CurrentBlockID())
	for _, instr := range blk.Instructions {
		if _, ok := instr.(ir.RefDec); ok {
			t.Fatal("non-refcounted local must not be decremented on scope exit")
		}
	}
}

func TestDeclareLocalAssignsDistinctSlots(t *testing.T) {
	b := New("qmain")
	l0 := b.DeclareLocal(true)
	l1 := b.DeclareLocal(false)
	if l0.Slot == l1.Slot {
		t.Fatal("distinct locals must get distinct slots")
	}
	if b.Finish().NumLocals != 2 {
		t.Fatalf("NumLocals = %d, want 2", b.Finish().NumLocals)
	}
}
