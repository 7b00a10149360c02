// Package ops implements the operator and conversion registries (spec.md
// §4.2, C2): static tables mapping (operator kind, left type, right type) to
// a concrete function, and (from type, to type) to a conversion function.
package ops

import (
	"fmt"

	"github.com/cwbudde/qoreir/internal/rtvalue"
	"github.com/cwbudde/qoreir/internal/types"
)

// Kind enumerates the binary operator spellings the core resolves.
type Kind int

const (
	Add Kind = iota
	Sub
	Mul
	Div
	Mod
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
)

func (k Kind) String() string {
	switch k {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Mod:
		return "%"
	case Eq:
		return "=="
	case Ne:
		return "!="
	case Lt:
		return "<"
	case Le:
		return "<="
	case Gt:
		return ">"
	case Ge:
		return ">="
	default:
		return "?"
	}
}

// BinaryFunc computes a binary operator's result. It may raise (the result
// exception is non-nil) for operators whose implementation can throw, such
// as the Any-dispatch generic operator encountering an unsupported pairing.
type BinaryFunc func(left, right rtvalue.Value) (rtvalue.Value, *rtvalue.Exception)

// BinaryOperatorDesc is the tuple spec.md §3 describes: a function plus its
// resolved return/left/right types. ID is a small stable index used as the
// "<desc-id>" operand in the textual IR dump (spec.md §6).
type BinaryOperatorDesc struct {
	ID     int
	Name   string
	Op     Kind
	Left   *types.Type
	Right  *types.Type
	Return *types.Type
	Func   BinaryFunc
}

type binaryKey struct {
	op    Kind
	left  *types.Type
	right *types.Type
}

// Registry holds the operator and conversion tables. A Registry is
// immutable after New returns: all core components share one instance,
// exactly as spec.md DESIGN NOTES §9 prescribes for the well-known type and
// operator tables.
type Registry struct {
	binary      map[binaryKey]*BinaryOperatorDesc
	conversions map[convKey]*ConversionDesc
	anyBinary   map[Kind]*BinaryOperatorDesc
	nextDescID  int
}

// New builds the default registry: integer arithmetic and comparison,
// string concatenation and comparison, boolean equality, and the Any
// runtime-dispatch fallback for Add/Eq.
func New() *Registry {
	r := &Registry{
		binary:      make(map[binaryKey]*BinaryOperatorDesc),
		conversions: make(map[convKey]*ConversionDesc),
		anyBinary:   make(map[Kind]*BinaryOperatorDesc),
	}
	r.registerIntOperators()
	r.registerStringOperators()
	r.registerBoolOperators()
	r.registerAnyOperators()
	r.registerConversions()
	return r
}

func (r *Registry) addBinary(op Kind, left, right, ret *types.Type, fn BinaryFunc) *BinaryOperatorDesc {
	d := &BinaryOperatorDesc{
		ID:     r.nextDescID,
		Name:   fmt.Sprintf("%s(%s,%s)", op, left.Name(), right.Name()),
		Op:     op,
		Left:   left,
		Right:  right,
		Return: ret,
		Func:   fn,
	}
	r.nextDescID++
	r.binary[binaryKey{op, left, right}] = d
	return d
}

// Resolve implements the two-phase lookup of spec.md §4.2: an exact match
// on concrete primitive types first, then - if either operand is Any - the
// generic Any-dispatch operator. It returns (nil, false) on no match; the
// caller (pass 1 of the expression analyzer) then reports the missing
// operator and does not insert conversions or retry the lookup.
func (r *Registry) Resolve(op Kind, left, right *types.Type) (*BinaryOperatorDesc, bool) {
	if d, ok := r.binary[binaryKey{op, left, right}]; ok {
		return d, true
	}
	if left == types.Any || right == types.Any {
		if d, ok := r.anyBinary[op]; ok {
			return d, true
		}
	}
	return nil, false
}

// AllBinary returns every registered binary descriptor, the Any-dispatch
// ones included, indexed by ID. IDs are shared with conversions, so the
// slots of conversion IDs are nil.
func (r *Registry) AllBinary() []*BinaryOperatorDesc {
	out := make([]*BinaryOperatorDesc, r.nextDescID)
	for _, d := range r.binary {
		out[d.ID] = d
	}
	for _, d := range r.anyBinary {
		out[d.ID] = d
	}
	return out
}

func (r *Registry) registerIntOperators() {
	i, b := types.Int, types.Bool
	r.addBinary(Add, i, i, i, func(l, rr rtvalue.Value) (rtvalue.Value, *rtvalue.Exception) {
		return rtvalue.IntValue(l.Int + rr.Int), nil
	})
	r.addBinary(Sub, i, i, i, func(l, rr rtvalue.Value) (rtvalue.Value, *rtvalue.Exception) {
		return rtvalue.IntValue(l.Int - rr.Int), nil
	})
	r.addBinary(Mul, i, i, i, func(l, rr rtvalue.Value) (rtvalue.Value, *rtvalue.Exception) {
		return rtvalue.IntValue(l.Int * rr.Int), nil
	})
	r.addBinary(Div, i, i, i, func(l, rr rtvalue.Value) (rtvalue.Value, *rtvalue.Exception) {
		if rr.Int == 0 {
			return rtvalue.Value{}, &rtvalue.Exception{Value: rtvalue.PointerValue(rtvalue.NewStringObject("division by zero"))}
		}
		return rtvalue.IntValue(l.Int / rr.Int), nil
	})
	r.addBinary(Mod, i, i, i, func(l, rr rtvalue.Value) (rtvalue.Value, *rtvalue.Exception) {
		if rr.Int == 0 {
			return rtvalue.Value{}, &rtvalue.Exception{Value: rtvalue.PointerValue(rtvalue.NewStringObject("division by zero"))}
		}
		return rtvalue.IntValue(l.Int % rr.Int), nil
	})
	r.addBinary(Eq, i, i, b, func(l, rr rtvalue.Value) (rtvalue.Value, *rtvalue.Exception) {
		return rtvalue.BoolValue(l.Int == rr.Int), nil
	})
	r.addBinary(Ne, i, i, b, func(l, rr rtvalue.Value) (rtvalue.Value, *rtvalue.Exception) {
		return rtvalue.BoolValue(l.Int != rr.Int), nil
	})
	r.addBinary(Lt, i, i, b, func(l, rr rtvalue.Value) (rtvalue.Value, *rtvalue.Exception) {
		return rtvalue.BoolValue(l.Int < rr.Int), nil
	})
	r.addBinary(Le, i, i, b, func(l, rr rtvalue.Value) (rtvalue.Value, *rtvalue.Exception) {
		return rtvalue.BoolValue(l.Int <= rr.Int), nil
	})
	r.addBinary(Gt, i, i, b, func(l, rr rtvalue.Value) (rtvalue.Value, *rtvalue.Exception) {
		return rtvalue.BoolValue(l.Int > rr.Int), nil
	})
	r.addBinary(Ge, i, i, b, func(l, rr rtvalue.Value) (rtvalue.Value, *rtvalue.Exception) {
		return rtvalue.BoolValue(l.Int >= rr.Int), nil
	})
}

func (r *Registry) registerStringOperators() {
	s, b := types.String, types.Bool
	r.addBinary(Add, s, s, s, func(l, rr rtvalue.Value) (rtvalue.Value, *rtvalue.Exception) {
		return rtvalue.PointerValue(rtvalue.NewStringObject(strVal(l) + strVal(rr))), nil
	})
	r.addBinary(Eq, s, s, b, func(l, rr rtvalue.Value) (rtvalue.Value, *rtvalue.Exception) {
		return rtvalue.BoolValue(strVal(l) == strVal(rr)), nil
	})
	r.addBinary(Ne, s, s, b, func(l, rr rtvalue.Value) (rtvalue.Value, *rtvalue.Exception) {
		return rtvalue.BoolValue(strVal(l) != strVal(rr)), nil
	})
}

func (r *Registry) registerBoolOperators() {
	b := types.Bool
	r.addBinary(Eq, b, b, b, func(l, rr rtvalue.Value) (rtvalue.Value, *rtvalue.Exception) {
		return rtvalue.BoolValue(l.Bool == rr.Bool), nil
	})
	r.addBinary(Ne, b, b, b, func(l, rr rtvalue.Value) (rtvalue.Value, *rtvalue.Exception) {
		return rtvalue.BoolValue(l.Bool != rr.Bool), nil
	})
}

// registerAnyOperators installs the generic runtime-dispatch descriptors
// consulted when either operand's static type is Any (spec.md §4.2
// "Promotion"). They type-switch on the *runtime* kind of the boxed value;
// an unsupported pairing raises rather than panicking, since a call through
// Any can reach it with no compile-time check.
func (r *Registry) registerAnyOperators() {
	r.anyBinary[Add] = &BinaryOperatorDesc{
		ID: r.nextDescID, Name: "any(+)", Op: Add, Left: types.Any, Right: types.Any, Return: types.Any,
		Func: anyAdd,
	}
	r.nextDescID++
	r.anyBinary[Eq] = &BinaryOperatorDesc{
		ID: r.nextDescID, Name: "any(==)", Op: Eq, Left: types.Any, Right: types.Any, Return: types.Bool,
		Func: anyEq,
	}
	r.nextDescID++
}

func anyAdd(l, r rtvalue.Value) (rtvalue.Value, *rtvalue.Exception) {
	if l.Kind == rtvalue.KindInt && r.Kind == rtvalue.KindInt {
		return rtvalue.IntValue(l.Int + r.Int), nil
	}
	if isString(l) && isString(r) {
		return rtvalue.PointerValue(rtvalue.NewStringObject(strVal(l) + strVal(r))), nil
	}
	return rtvalue.Value{}, &rtvalue.Exception{
		Value: rtvalue.PointerValue(rtvalue.NewStringObject("no matching + operator for operand kinds at runtime")),
	}
}

func anyEq(l, r rtvalue.Value) (rtvalue.Value, *rtvalue.Exception) {
	if l.Kind != r.Kind {
		return rtvalue.BoolValue(false), nil
	}
	switch l.Kind {
	case rtvalue.KindInt:
		return rtvalue.BoolValue(l.Int == r.Int), nil
	case rtvalue.KindBool:
		return rtvalue.BoolValue(l.Bool == r.Bool), nil
	case rtvalue.KindFloat:
		return rtvalue.BoolValue(l.Float == r.Float), nil
	default:
		if isString(l) && isString(r) {
			return rtvalue.BoolValue(strVal(l) == strVal(r)), nil
		}
		return rtvalue.BoolValue(l.Ptr == r.Ptr), nil
	}
}

func isString(v rtvalue.Value) bool {
	if v.Kind != rtvalue.KindPointer || v.Ptr == nil {
		return false
	}
	_, ok := v.Ptr.Payload.(string)
	return ok
}

func strVal(v rtvalue.Value) string {
	if v.Kind != rtvalue.KindPointer || v.Ptr == nil {
		return ""
	}
	s, _ := v.Ptr.Payload.(string)
	return s
}
