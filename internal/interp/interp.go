// Package interp implements the tree-walking interpreter (spec.md §4.8,
// C8): one frame per active function, stepping an internal/ir Function's
// instructions one at a time, dispatching raised exceptions to landing
// pads exactly as the Builder wired them.
//
// Grounded on internal/bytecode/vm_core.go's VM (output io.Writer,
// switch-per-opcode dispatch loop with an instruction pointer) and
// vm_exec.go's per-opcode bodies, adapted from a stack machine's flat
// program counter to this IR's (block, index-within-block) program
// counter and from value-stack push/pop to temp-slot read/write.
package interp

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/cwbudde/qoreir"
	"github.com/cwbudde/qoreir/internal/ir"
	"github.com/cwbudde/qoreir/internal/rtvalue"
)

// globalCell is one script-level shared variable: its current value plus
// the reader/writer lock spec.md §5 requires every global to carry, honored
// even though this interpreter is single-threaded (future multi-threaded
// interpreters share the same IR).
type globalCell struct {
	mu    sync.RWMutex
	value rtvalue.Value
}

// Interpreter executes one ir.Script's qinit/qmain/qdone in sequence.
type Interpreter struct {
	script  *ir.Script
	globals []*globalCell
	output  io.Writer
	logger  qoreir.Logger
}

// New creates an Interpreter over script, writing Print output to w (a nil
// w discards it).
func New(script *ir.Script, w io.Writer) *Interpreter {
	it := &Interpreter{script: script, output: w}
	it.globals = make([]*globalCell, script.NumGlobals)
	for i := range it.globals {
		it.globals[i] = &globalCell{}
	}
	return it
}

// SetLogger installs an optional logging collaborator (spec.md §1); a nil
// logger, the default, disables both Debugf-level and Tracef-level output.
func (it *Interpreter) SetLogger(l qoreir.Logger) {
	it.logger = l
}

// UnhandledException is returned when an exception unwinds past every
// landing pad in a function (spec.md §4.8's "execution terminates with the
// unhandled exception").
type UnhandledException struct {
	Value rtvalue.Value
}

func (e *UnhandledException) Error() string {
	return fmt.Sprintf("unhandled exception: %s", renderValue(e.Value))
}

// Run executes qinit, then qmain, then qdone in order, stopping at the
// first unhandled exception. A function the script does not define is
// skipped.
func (it *Interpreter) Run() error {
	for _, name := range []string{ir.QInit, ir.QMain, ir.QDone} {
		fn := it.script.Function(name)
		if fn == nil {
			continue
		}
		if it.logger != nil {
			it.logger.Debugf("interp: running %s", name)
		}
		if err := it.runFunction(fn); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// frame holds one active call's temp and local slots, sized by the
// function's high-water-mark counts (spec.md §4.8).
type frame struct {
	temps  []rtvalue.Value
	locals []rtvalue.Value
}

func (it *Interpreter) runFunction(fn *ir.Function) error {
	f := &frame{
		temps:  make([]rtvalue.Value, fn.NumTemps),
		locals: make([]rtvalue.Value, fn.NumLocals),
	}
	var pending *rtvalue.Exception

	block := fn.Entry
	index := 0
	for {
		blk := fn.Block(block)
		if index >= len(blk.Instructions) {
			return fmt.Errorf("BB.%d fell off the end without a terminator", block)
		}
		instr := blk.Instructions[index]
		if it.logger != nil {
			it.logger.Tracef("interp: BB.%d[%d] %T", block, index, instr)
		}

		raised, outcome := it.execOne(f, instr, &pending)
		if raised != nil {
			lpad, has := landingPadOf(instr)
			if !has {
				if it.logger != nil {
					it.logger.Debugf("interp: exception escaped with no landing pad")
				}
				return &UnhandledException{Value: raised.Value}
			}
			if it.logger != nil {
				it.logger.Debugf("interp: dispatching exception to landing pad BB.%d", lpad)
			}
			pending = raised
			block, index = lpad, 0
			continue
		}

		switch outcome.kind {
		case outcomeJump:
			block, index = outcome.target, 0
		case outcomeRethrow:
			return &UnhandledException{Value: f.temps[outcome.exceptionTemp]}
		case outcomeReturn:
			return nil
		default:
			index++
		}
	}
}

type outcomeKind int

const (
	outcomeNone outcomeKind = iota
	outcomeJump
	outcomeRethrow
	outcomeReturn
)

type stepOutcome struct {
	kind          outcomeKind
	target        ir.BlockID
	exceptionTemp ir.Temp
}

func landingPadOf(instr ir.Instruction) (ir.BlockID, bool) {
	if l, ok := instr.(ir.Landable); ok {
		return l.LandingPad()
	}
	return 0, false
}

// execOne executes a single instruction. It returns a non-nil exception
// when the instruction raised (the caller dispatches to a landing pad, or
// reports it unhandled); otherwise it returns the control-flow outcome.
func (it *Interpreter) execOne(f *frame, instr ir.Instruction, pending **rtvalue.Exception) (*rtvalue.Exception, stepOutcome) {
	switch i := instr.(type) {
	case ir.IntConstant:
		f.temps[i.Dest] = rtvalue.IntValue(i.Value)

	case ir.LoadString:
		obj := rtvalue.NewStringObject(it.script.String(i.Str))
		f.temps[i.Dest] = rtvalue.PointerValue(obj)
		rtvalue.IncRef(f.temps[i.Dest])

	case ir.GetLocal:
		f.temps[i.Dest] = f.locals[i.Local.Slot]
	case ir.SetLocal:
		f.locals[i.Local.Slot] = f.temps[i.Src]

	case ir.RefInc:
		rtvalue.IncRef(f.temps[i.Temp])
	case ir.RefDec:
		if exc := rtvalue.DecRef(f.temps[i.Temp]); exc != nil {
			return exc, stepOutcome{}
		}
	case ir.RefDecNoexcept:
		*pending = rtvalue.DecRefNoexcept(f.temps[i.Temp], *pending)

	case ir.ReadLockGlobal:
		it.globals[i.Global].mu.RLock()
	case ir.ReadUnlockGlobal:
		it.globals[i.Global].mu.RUnlock()
	case ir.WriteLockGlobal:
		it.globals[i.Global].mu.Lock()
	case ir.WriteUnlockGlobal:
		it.globals[i.Global].mu.Unlock()

	case ir.GetGlobal:
		f.temps[i.Dest] = it.globals[i.Global].value
	case ir.SetGlobal:
		it.globals[i.Global].value = f.temps[i.Src]
	case ir.MakeGlobal:
		it.globals[i.Global].value = f.temps[i.Src]
	case ir.FreeGlobal:
		rtvalue.DecRef(it.globals[i.Global].value) // best-effort; FreeGlobal carries no landing pad

	case ir.LandingPad:
		if *pending != nil {
			f.temps[i.Dest] = (*pending).Value
		}

	case ir.Rethrow:
		return nil, stepOutcome{kind: outcomeRethrow, exceptionTemp: i.Exception}

	case ir.BinaryOperator:
		result, exc := i.Desc.Func(f.temps[i.Left], f.temps[i.Right])
		if exc != nil {
			return exc, stepOutcome{}
		}
		f.temps[i.Dest] = result
		rtvalue.IncRef(result)

	case ir.Conversion:
		result, exc := i.Desc.Func(f.temps[i.Arg])
		if exc != nil {
			return exc, stepOutcome{}
		}
		f.temps[i.Dest] = result
		rtvalue.IncRef(result)

	case ir.Jump:
		return nil, stepOutcome{kind: outcomeJump, target: i.Target}
	case ir.CondJump:
		if f.temps[i.Cond].Bool {
			return nil, stepOutcome{kind: outcomeJump, target: i.Then}
		}
		return nil, stepOutcome{kind: outcomeJump, target: i.Else}
	case ir.RetVoid:
		return nil, stepOutcome{kind: outcomeReturn}

	case ir.Print:
		if it.output != nil {
			fmt.Fprintln(it.output, renderValue(f.temps[i.Arg]))
		}

	default:
		panic(fmt.Sprintf("interp: unhandled instruction %T", i))
	}
	return nil, stepOutcome{}
}

// renderValue formats a runtime value the way Print observes it: bools as
// true/false, ints decimal, string objects by their payload, anything else
// by its Go representation (only reachable for values the reduced grammar
// never actually prints, since print only resolves against Int/String/
// Bool overloads).
func renderValue(v rtvalue.Value) string {
	switch v.Kind {
	case rtvalue.KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case rtvalue.KindInt:
		return strconv.FormatInt(v.Int, 10)
	case rtvalue.KindPointer:
		if v.Ptr == nil {
			return "<nothing>"
		}
		if s, ok := v.Ptr.Payload.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", v.Ptr.Payload)
	default:
		return fmt.Sprintf("%v", v)
	}
}
