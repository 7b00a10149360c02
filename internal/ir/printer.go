package ir

import (
	"fmt"
	"strings"
)

// Printer renders the textual IR dump of spec.md §6. It is deliberately a
// single switch over instruction kind - no visitor, per DESIGN NOTES §9 -
// writing into a strings.Builder exactly as pkg/printer does for the AST.
type Printer struct {
	sb strings.Builder
}

// Dump renders one function per spec.md §6's grammar:
//
//	BB.<n>
//	  <k>: <mnemonic> <operands>
//
// Every value-producing instruction's mnemonic is prefixed with
// "temp.<dest> = " so the dump is also readable as an assignment trace;
// lock/control instructions have no dest and print bare.
func Dump(f *Function) string {
	p := &Printer{}
	p.printFunction(f)
	return p.sb.String()
}

// DumpScript concatenates the per-function dump of qinit, qmain, qdone (in
// that order) and any other functions, matching the original's
// whole-script Function.dump() (SPEC_FULL.md §4).
func DumpScript(s *Script) string {
	var sb strings.Builder
	order := []string{QInit, QMain, QDone}
	seen := map[string]bool{}
	for _, name := range order {
		if f := s.Function(name); f != nil {
			sb.WriteString(Dump(f))
			seen[name] = true
		}
	}
	for _, f := range s.Functions {
		if !seen[f.Name] {
			sb.WriteString(Dump(f))
		}
	}
	return sb.String()
}

func (p *Printer) printFunction(f *Function) {
	for _, b := range f.Blocks {
		fmt.Fprintf(&p.sb, "BB.%d\n", b.ID)
		for k, instr := range b.Instructions {
			p.sb.WriteString("  ")
			fmt.Fprintf(&p.sb, "%d: ", k)
			p.printInstruction(instr)
			p.sb.WriteByte('\n')
		}
	}
}

func (p *Printer) printInstruction(instr Instruction) {
	switch i := instr.(type) {
	case IntConstant:
		fmt.Fprintf(&p.sb, "temp.%d = int constant %d", i.Dest, i.Value)
	case GetLocal:
		fmt.Fprintf(&p.sb, "temp.%d = get %s", i.Dest, localRefString(i.Local))
	case SetLocal:
		fmt.Fprintf(&p.sb, "set %s = temp.%d", localRefString(i.Local), i.Src)
	case LoadString:
		fmt.Fprintf(&p.sb, "temp.%d = load string str.%d", i.Dest, i.Str)
	case RefInc:
		fmt.Fprintf(&p.sb, "ref inc temp.%d", i.Temp)
	case RefDec:
		fmt.Fprintf(&p.sb, "ref dec temp.%d %s", i.Temp, lpadSuffix(i.Lpad, i.HasLpad))
	case RefDecNoexcept:
		fmt.Fprintf(&p.sb, "ref dec noexcept temp.%d [combine temp.%d]", i.Temp, i.ExceptionTemp)
	case ReadLockGlobal:
		fmt.Fprintf(&p.sb, "read lock global.%d", i.Global)
	case ReadUnlockGlobal:
		fmt.Fprintf(&p.sb, "read unlock global.%d", i.Global)
	case WriteLockGlobal:
		fmt.Fprintf(&p.sb, "write lock global.%d", i.Global)
	case WriteUnlockGlobal:
		fmt.Fprintf(&p.sb, "write unlock global.%d", i.Global)
	case GetGlobal:
		fmt.Fprintf(&p.sb, "temp.%d = get global.%d", i.Dest, i.Global)
	case SetGlobal:
		fmt.Fprintf(&p.sb, "set global.%d = temp.%d", i.Global, i.Src)
	case MakeGlobal:
		fmt.Fprintf(&p.sb, "make global.%d = temp.%d", i.Global, i.Src)
	case FreeGlobal:
		fmt.Fprintf(&p.sb, "free global.%d", i.Global)
	case LandingPad:
		fmt.Fprintf(&p.sb, "temp.%d = landing pad", i.Dest)
	case Rethrow:
		fmt.Fprintf(&p.sb, "rethrow temp.%d", i.Exception)
	case BinaryOperator:
		fmt.Fprintf(&p.sb, "temp.%d = binary operator %d temp.%d, temp.%d %s",
			i.Dest, i.Desc.ID, i.Left, i.Right, lpadSuffix(i.Lpad, i.HasLpad))
	case Conversion:
		fmt.Fprintf(&p.sb, "temp.%d = conversion %s temp.%d %s",
			i.Dest, i.Desc.Name, i.Arg, lpadSuffix(i.Lpad, i.HasLpad))
	case Jump:
		fmt.Fprintf(&p.sb, "jump BB.%d", i.Target)
	case CondJump:
		fmt.Fprintf(&p.sb, "cond jump temp.%d, BB.%d, BB.%d", i.Cond, i.Then, i.Else)
	case RetVoid:
		p.sb.WriteString("ret void")
	case Print:
		fmt.Fprintf(&p.sb, "print temp.%d", i.Arg)
	default:
		fmt.Fprintf(&p.sb, "<unknown instruction %T>", i)
	}
}

func localRefString(l LocalRef) string {
	if l.Shared {
		return fmt.Sprintf("local.%d (shared)", l.Slot)
	}
	return fmt.Sprintf("local.%d", l.Slot)
}

func lpadSuffix(lpad BlockID, has bool) string {
	if has {
		return fmt.Sprintf("[lpad BB.%d]", lpad)
	}
	return "[no lpad]"
}
