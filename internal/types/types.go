// Package types defines the runtime type descriptors shared by the analyzer,
// the builder and the interpreter. There is exactly one *Type instance per
// kind; equality between types is always pointer identity.
package types

// Kind tags a Type with its runtime category.
type Kind int

const (
	KindError Kind = iota
	KindAny
	KindNothing
	KindBool
	KindSoftBool
	KindInt
	KindIntOpt
	KindSoftInt
	KindString
	KindStringOpt
	KindSoftString
	KindObject
	KindObjectOpt
	KindFunctionGroup
)

func (k Kind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindAny:
		return "any"
	case KindNothing:
		return "nothing"
	case KindBool:
		return "bool"
	case KindSoftBool:
		return "*bool"
	case KindInt:
		return "int"
	case KindIntOpt:
		return "int?"
	case KindSoftInt:
		return "*int"
	case KindString:
		return "string"
	case KindStringOpt:
		return "string?"
	case KindSoftString:
		return "*string"
	case KindObject:
		return "object"
	case KindObjectOpt:
		return "object?"
	case KindFunctionGroup:
		return "function-group"
	default:
		return "unknown"
	}
}

// Type is a shared, immutable type descriptor. Every expression in a typed
// expression tree carries a *Type; the same pointer is reused for every
// occurrence of that type, so Type comparisons never walk structure.
type Type struct {
	name string
	kind Kind
}

// Name returns the type's declared name, as it would appear in a diagnostic.
func (t *Type) Name() string { return t.name }

// Kind returns the type's kind tag.
func (t *Type) Kind() Kind { return t.kind }

// valueKinds never carry a heap allocation: they live directly in a Value
// word. Everything else - including the Soft* parameter-only forms other
// than SoftBool/SoftInt, and the *Opt forms - is backed by a heap object
// with its own reference count.
var valueKinds = map[Kind]bool{
	KindError:    true, // never materializes at runtime
	KindNothing:  true,
	KindBool:     true,
	KindSoftBool: true,
	KindInt:      true,
	KindSoftInt:  true,
}

// IsRefCounted reports whether a value of this type is a reference-counted
// heap pointer, per spec: true unless the kind is a primitive or Nothing.
func (t *Type) IsRefCounted() bool {
	return !valueKinds[t.kind]
}

// AcceptsNothing reports whether NOTHING is a legal value of this type:
// Any, Nothing itself, the *Opt optional forms, and Error (which silences
// cascading diagnostics by accepting anything).
func (t *Type) AcceptsNothing() bool {
	switch t.kind {
	case KindAny, KindNothing, KindIntOpt, KindStringOpt, KindObjectOpt, KindError:
		return true
	default:
		return false
	}
}

func (t *Type) String() string { return t.name }

// The process-wide singleton table. These are the only *Type values that
// ever exist; analysis and the builder compare types by pointer.
var (
	Error         = &Type{name: "<error>", kind: KindError}
	Any           = &Type{name: "any", kind: KindAny}
	Nothing       = &Type{name: "Nothing", kind: KindNothing}
	Bool          = &Type{name: "Bool", kind: KindBool}
	SoftBool      = &Type{name: "softbool", kind: KindSoftBool}
	Int           = &Type{name: "Int", kind: KindInt}
	IntOpt        = &Type{name: "*Int", kind: KindIntOpt}
	SoftInt       = &Type{name: "softint", kind: KindSoftInt}
	String        = &Type{name: "String", kind: KindString}
	StringOpt     = &Type{name: "*String", kind: KindStringOpt}
	SoftString    = &Type{name: "softstring", kind: KindSoftString}
	Object        = &Type{name: "Object", kind: KindObject}
	ObjectOpt     = &Type{name: "*Object", kind: KindObjectOpt}
	FunctionGroup = &Type{name: "<function-group>", kind: KindFunctionGroup}
)

// All lists every well-known type, in declaration order. Useful for tests
// and for diagnostics that enumerate candidate types.
func All() []*Type {
	return []*Type{
		Error, Any, Nothing, Bool, SoftBool, Int, IntOpt, SoftInt,
		String, StringOpt, SoftString, Object, ObjectOpt, FunctionGroup,
	}
}

// IsSoft reports whether t is one of the parameter-only Soft* forms, which
// must never be the inferred type of an expression (spec DESIGN NOTES §9).
func IsSoft(t *Type) bool {
	return t == SoftBool || t == SoftInt || t == SoftString
}
