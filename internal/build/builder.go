// Package build implements the Builder (spec.md §4.4, C4): the stateful
// object that emits IR for one function while tracking a cleanup stack of
// live temporaries, locals, and held locks, and that lazily (and
// memoized) constructs the landing pad implementing that stack's
// unwind behavior.
//
// Grounded on include/qore/comp/sem/ExpressionAnalyzer2.h's FA/Cleanup
// split (original_source/) and internal/bytecode/compiler_core.go's
// Compiler bookkeeping style (locals/scopeDepth tracked on the builder
// itself rather than threaded through every call).
package build

import (
	"github.com/cwbudde/qoreir"
	"github.com/cwbudde/qoreir/internal/ir"
)

// EntryKind tags one cleanup-stack obligation.
type EntryKind int

const (
	EntryTemp EntryKind = iota
	EntryLocal
	EntryLock
)

// LockKind distinguishes a held read lock from a held write lock.
type LockKind int

const (
	ReadLock LockKind = iota
	WriteLock
)

type cleanupEntry struct {
	kind       EntryKind
	temp       ir.Temp
	local      ir.LocalRef
	global     ir.GlobalID
	lockKind   LockKind
	refCounted bool // meaningless for EntryLock
}

// Builder builds one ir.Function, tracking the cleanup stack spec.md §4.4
// describes. Build one Builder per function; nested functions (none are
// lowered by the core today) would get their own Builder.
type Builder struct {
	fn      *ir.Function
	current ir.BlockID

	cleanup []cleanupEntry

	freeTemps []ir.Temp
	nextTemp  ir.Temp

	landingPad   *ir.Block
	hasCatch     bool
	catchTarget  ir.BlockID
	catchExcTemp ir.Temp

	logger qoreir.Logger
}

// SetLogger installs an optional logging collaborator (spec.md §1,
// DESIGN NOTES §9); a nil logger (the default) disables logging entirely
// rather than falling back to a global.
func (b *Builder) SetLogger(l qoreir.Logger) {
	b.logger = l
}

// New creates a Builder for a new function named name, with one entry
// block already current.
func New(name string) *Builder {
	b := &Builder{fn: &ir.Function{Name: name}}
	entry := b.newBlock()
	b.fn.Entry = entry
	b.current = entry
	return b
}

// Finish returns the built function. NumLocals/NumTemps reflect the high
// watermark of slots/temps ever allocated, per spec.md §3.
func (b *Builder) Finish() *ir.Function {
	return b.fn
}

func (b *Builder) newBlock() ir.BlockID {
	id := ir.BlockID(len(b.fn.Blocks))
	b.fn.Blocks = append(b.fn.Blocks, &ir.Block{ID: id})
	return id
}

// CreateBlock allocates a new, empty basic block without switching to it.
func (b *Builder) CreateBlock() ir.BlockID {
	return b.newBlock()
}

// SetCurrentBlock switches the block subsequent Emit calls append to.
func (b *Builder) SetCurrentBlock(id ir.BlockID) {
	b.current = id
}

// CurrentBlockID returns the block currently being appended to.
func (b *Builder) CurrentBlockID() ir.BlockID {
	return b.current
}

func (b *Builder) block() *ir.Block {
	return b.fn.Blocks[b.current]
}

func (b *Builder) emit(instr ir.Instruction) {
	blk := b.block()
	blk.Instructions = append(blk.Instructions, instr)
}

// AllocTemp returns a free temp index, preferring the free list over a new
// bump allocation (spec.md §4.4's "free list plus a bump counter").
func (b *Builder) AllocTemp() ir.Temp {
	if n := len(b.freeTemps); n > 0 {
		t := b.freeTemps[n-1]
		b.freeTemps = b.freeTemps[:n-1]
		return t
	}
	t := b.nextTemp
	b.nextTemp++
	if int(b.nextTemp) > b.fn.NumTemps {
		b.fn.NumTemps = int(b.nextTemp)
	}
	return t
}

// FreeTemp returns a temp to the pool once its last consumer has run.
func (b *Builder) FreeTemp(t ir.Temp) {
	b.freeTemps = append(b.freeTemps, t)
}

// DeclareLocal assigns a fresh local slot and appends it to the cleanup
// stack; it emits no instruction of its own, per spec.md §4.4 ("emits no
// instruction by itself - initialization is the caller's job").
func (b *Builder) DeclareLocal(refCounted bool) ir.LocalRef {
	slot := ir.Slot(b.fn.NumLocals)
	b.fn.NumLocals++
	local := ir.LocalRef{Slot: slot}
	b.cleanup = append(b.cleanup, cleanupEntry{kind: EntryLocal, local: local, refCounted: refCounted})
	b.invalidateLandingPad()
	return local
}

// PushTemp registers a temp holding a +1 reference as a cleanup obligation.
func (b *Builder) PushTemp(t ir.Temp, refCounted bool) {
	b.cleanup = append(b.cleanup, cleanupEntry{kind: EntryTemp, temp: t, refCounted: refCounted})
	b.invalidateLandingPad()
}

// PopTemp removes temp t from the cleanup stack without emitting a
// decrement - used when ownership of the +1 transfers elsewhere (e.g. into
// storage on assignment) rather than being released.
func (b *Builder) PopTemp(t ir.Temp) {
	b.removeEntry(func(e cleanupEntry) bool { return e.kind == EntryTemp && e.temp == t })
}

// PushLock registers a held global lock as a cleanup obligation. Returns
// nothing; release it with PopLock, which does not itself emit the
// unlock - callers emit the unlock on the normal-exit path and rely on the
// landing pad for the exceptional one.
func (b *Builder) PushLock(global ir.GlobalID, kind LockKind) {
	b.cleanup = append(b.cleanup, cleanupEntry{kind: EntryLock, global: global, lockKind: kind})
	b.invalidateLandingPad()
}

// PopLock removes the most recent lock entry for global from the stack.
func (b *Builder) PopLock(global ir.GlobalID) {
	b.removeEntry(func(e cleanupEntry) bool { return e.kind == EntryLock && e.global == global })
}

func (b *Builder) removeEntry(match func(cleanupEntry) bool) {
	for i := len(b.cleanup) - 1; i >= 0; i-- {
		if match(b.cleanup[i]) {
			b.cleanup = append(b.cleanup[:i], b.cleanup[i+1:]...)
			b.invalidateLandingPad()
			return
		}
	}
}

func (b *Builder) invalidateLandingPad() {
	b.landingPad = nil
}

// BeginTry installs target as the landing pad's jump destination instead of
// a Rethrow, and invalidates the memoized landing pad so it is rebuilt with
// the new terminator. It also allocates the one exception temp every landing
// pad built while this catch is active writes into - the try body may
// rebuild the memoized pad any number of times as its own temps/locals push
// and pop, so the temp must be fixed up front rather than re-allocated on
// each rebuild, or CatchExceptionTemp could hand the catch block a temp no
// pad actually wrote.
func (b *Builder) BeginTry(target ir.BlockID) {
	b.hasCatch = true
	b.catchTarget = target
	b.catchExcTemp = b.AllocTemp()
	b.invalidateLandingPad()
}

// EndTry removes the installed catch target, reverting the landing pad to
// Rethrow, and releases the catch's exception temp - callers must have
// already consumed it (via CatchExceptionTemp) before calling EndTry.
func (b *Builder) EndTry() {
	b.hasCatch = false
	b.FreeTemp(b.catchExcTemp)
	b.invalidateLandingPad()
}

// Mark is a snapshot of the cleanup stack's depth, taken at block-scope
// entry and consumed by EndBlockScope.
type Mark int

// BeginBlockScope records the cleanup-stack high-water-mark at block entry.
func (b *Builder) BeginBlockScope() Mark {
	return Mark(len(b.cleanup))
}

// EndBlockScope emits a normal-exit RefDec (with a landing pad, since the
// destructor it runs may itself raise) for every refcounted local declared
// since mark, innermost first, and pops them from the cleanup stack -
// spec.md §4.7's block-scope exit.
func (b *Builder) EndBlockScope(mark Mark) {
	for len(b.cleanup) > int(mark) {
		entry := b.cleanup[len(b.cleanup)-1]
		b.cleanup = b.cleanup[:len(b.cleanup)-1]
		b.invalidateLandingPad()
		if entry.kind == EntryLocal && entry.refCounted {
			t := b.AllocTemp()
			b.emit(ir.GetLocal{Dest: t, Local: entry.local})
			lpad, has := b.CurrentLandingPad()
			b.emit(ir.RefDec{Temp: t, Lpad: lpad, HasLpad: has})
			b.FreeTemp(t)
		}
	}
}

// CurrentLandingPad returns (lazily building) the landing-pad block that
// implements the cleanup stack's unwind behavior, memoizing it until the
// stack changes again. It returns (0, false) when there is nothing to
// clean up and no enclosing catch - callers must omit the landing pad from
// the instruction they are about to emit in that case.
//
// The cleanup stack is walked as a single LIFO list, innermost (most
// recently pushed) entry first: a lock releases after any temp pushed
// while it was held, but before a temp that was already live when it was
// acquired. See DESIGN.md for why this implementation treats the unified
// LIFO rule, not the flat "all locks, then all temps" phrasing, as
// authoritative wherever spec.md's two descriptions of this ordering
// disagree.
func (b *Builder) CurrentLandingPad() (ir.BlockID, bool) {
	needed := b.hasCatch
	for _, e := range b.cleanup {
		if e.kind == EntryLock || e.refCounted {
			needed = true
			break
		}
	}
	if !needed {
		return 0, false
	}
	if b.landingPad != nil {
		return b.landingPad.ID, true
	}
	if b.logger != nil {
		b.logger.Debugf("build: constructing landing pad for %d cleanup entr(y/ies), hasCatch=%v", len(b.cleanup), b.hasCatch)
	}
	id := b.newBlock()
	blk := b.fn.Blocks[id]

	// A pad built under an active catch always writes into catchExcTemp,
	// the one temp fixed at BeginTry, so every rebuild during the try body
	// still delivers into the same slot CatchExceptionTemp reports. With no
	// catch active the temp is pad-local and freed once the Rethrow is
	// emitted below.
	var exc ir.Temp
	if b.hasCatch {
		exc = b.catchExcTemp
	} else {
		exc = b.AllocTemp()
	}
	blk.Instructions = append(blk.Instructions, ir.LandingPad{Dest: exc})

	for i := len(b.cleanup) - 1; i >= 0; i-- {
		entry := b.cleanup[i]
		switch entry.kind {
		case EntryLock:
			if entry.lockKind == WriteLock {
				blk.Instructions = append(blk.Instructions, ir.WriteUnlockGlobal{Global: entry.global})
			} else {
				blk.Instructions = append(blk.Instructions, ir.ReadUnlockGlobal{Global: entry.global})
			}
		case EntryTemp:
			if entry.refCounted {
				blk.Instructions = append(blk.Instructions, ir.RefDecNoexcept{Temp: entry.temp, ExceptionTemp: exc})
			}
		case EntryLocal:
			if entry.refCounted {
				t := b.AllocTemp()
				blk.Instructions = append(blk.Instructions, ir.GetLocal{Dest: t, Local: entry.local})
				blk.Instructions = append(blk.Instructions, ir.RefDecNoexcept{Temp: t, ExceptionTemp: exc})
				b.FreeTemp(t)
			}
		}
	}

	if b.hasCatch {
		// exc stays live: the catch block this jumps to reads it via
		// CatchExceptionTemp, so it must not return to the free list yet -
		// EndTry frees it once the catch has bound it to its variable.
		blk.Instructions = append(blk.Instructions, ir.Jump{Target: b.catchTarget})
	} else {
		blk.Instructions = append(blk.Instructions, ir.Rethrow{Exception: exc})
		b.FreeTemp(exc)
	}

	b.landingPad = blk
	return id, true
}

// CatchExceptionTemp forces the current cleanup stack's landing pad to be
// built (if not already memoized) and returns the temp it delivers the
// pending exception into, valid only while a catch is installed via
// BeginTry. It is the same catchExcTemp BeginTry allocated, so it is the
// right temp regardless of how many times the pad was rebuilt in between -
// call it once, after the try body has been fully analyzed and before
// EndTry. spec.md has no explicit recipe for wiring a caught exception to
// its catch variable across block boundaries, since its landing pads are
// purely a cleanup mechanism; this is the harness's bridge from that
// mechanism to a bound catch variable.
func (b *Builder) CatchExceptionTemp() (ir.Temp, bool) {
	if !b.hasCatch {
		return 0, false
	}
	if _, ok := b.CurrentLandingPad(); !ok {
		return 0, false
	}
	return b.catchExcTemp, true
}
