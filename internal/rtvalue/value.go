// Package rtvalue implements the runtime value model (spec.md §3/§4.1): a
// machine word that is either a primitive (bool, int64, float64) or a
// pointer to a reference-counted heap object, plus the three refcount
// primitives the rest of the core builds on.
package rtvalue

// Kind tags which arm of the Value union is populated.
type Kind byte

const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindPointer
)

// Value is the runtime representation of a single qoreir value. Only one
// field is meaningful, selected by Kind; non-pointer kinds carry no
// reference count.
type Value struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Float float64
	Ptr   *HeapObject
}

func BoolValue(b bool) Value    { return Value{Kind: KindBool, Bool: b} }
func IntValue(i int64) Value    { return Value{Kind: KindInt, Int: i} }
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }
func PointerValue(p *HeapObject) Value {
	return Value{Kind: KindPointer, Ptr: p}
}

// NilPointer is the null-pointer value accepted by Nothing/Any/*Opt types.
var NilPointer = Value{Kind: KindPointer, Ptr: nil}

// DestructorFunc runs when a heap object's reference count reaches zero. It
// returns a non-nil *Exception if destruction itself raised - e.g. a
// user-defined object destructor that throws.
type DestructorFunc func(obj *HeapObject) *Exception

// HeapObject is the reference-counted allocation a pointer Value points to.
// Payload carries the concrete representation (a Go string for String
// values, an object/field map for Object values, and so on); the refcount
// machinery in this package never looks inside it.
type HeapObject struct {
	RefCount   int
	Destroyed  bool
	Destructor DestructorFunc
	Payload    any
}

// NewHeapObject allocates a heap object with refcount zero. The caller is
// expected to immediately transfer ownership (RefInc) into a temp or a
// local slot, per the IR's +1-on-creation convention.
func NewHeapObject(payload any, destructor DestructorFunc) *HeapObject {
	return &HeapObject{Payload: payload, Destructor: destructor}
}

// NewStringObject wraps a Go string as a heap object. String destruction
// never raises.
func NewStringObject(s string) *HeapObject {
	return NewHeapObject(s, nil)
}

// Exception is the value currently in flight during unwinding (spec.md §7).
// Combine never discards information: DecRefNoexcept folds a destructor's
// exception into the pending one by chaining, rather than picking a winner.
type Exception struct {
	Value Value
	Next  *Exception
}

// IncRef increments the refcount of a pointer value. It is noexcept and a
// no-op on a nil pointer or a non-pointer kind.
func IncRef(v Value) {
	if v.Kind != KindPointer || v.Ptr == nil || v.Ptr.Destroyed {
		return
	}
	v.Ptr.RefCount++
}

// DecRef decrements the refcount of a pointer value, invoking the
// destructor on the transition to zero. It may return a non-nil exception
// if the destructor raised; the object is considered released regardless.
func DecRef(v Value) *Exception {
	if v.Kind != KindPointer || v.Ptr == nil {
		return nil
	}
	obj := v.Ptr
	if obj.Destroyed {
		return nil
	}
	obj.RefCount--
	if obj.RefCount > 0 {
		return nil
	}
	obj.Destroyed = true
	if obj.Destructor == nil {
		return nil
	}
	return obj.Destructor(obj)
}

// DecRefNoexcept decrements a refcount during unwinding. If the destructor
// raises, the new exception is combined into pending rather than
// propagated - this function always returns normally, per spec.md §7.
func DecRefNoexcept(v Value, pending *Exception) *Exception {
	if exc := DecRef(v); exc != nil {
		return Combine(pending, exc)
	}
	return pending
}

// Combine merges two in-flight exceptions, preserving both. The merge order
// is implementation-defined (spec.md §4.1); this implementation appends the
// newer exception to the end of the pending chain, so Rethrow on the result
// resumes with the original exception and loses none of the later ones.
func Combine(pending, latest *Exception) *Exception {
	if pending == nil {
		return latest
	}
	if latest == nil {
		return pending
	}
	cur := pending
	for cur.Next != nil {
		cur = cur.Next
	}
	cur.Next = latest
	return pending
}
