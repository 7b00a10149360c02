package ir

// Distinguished function names every Script carries (spec.md §3).
const (
	QInit = "qinit"
	QMain = "qmain"
	QDone = "qdone"
)

// Script is a set of string-literal values (each with a stable id), a
// count of globals, and a list of functions including qinit/qmain/qdone.
type Script struct {
	Strings    []string
	NumGlobals int
	Functions  []*Function
}

// NewScript creates an empty script.
func NewScript() *Script {
	return &Script{}
}

// InternString adds (or finds) a string literal, returning its stable id.
// Qore string literals are pooled per script, not per function, so the
// same literal occurring twice shares one LoadString target.
func (s *Script) InternString(value string) StringID {
	for i, existing := range s.Strings {
		if existing == value {
			return StringID(i)
		}
	}
	s.Strings = append(s.Strings, value)
	return StringID(len(s.Strings) - 1)
}

// String returns the interned literal for an id.
func (s *Script) String(id StringID) string {
	return s.Strings[id]
}

// AddFunction appends a function to the script.
func (s *Script) AddFunction(f *Function) {
	s.Functions = append(s.Functions, f)
}

// Function looks up a function by name; qinit/qmain/qdone are looked up
// this way by the interpreter's entry points.
func (s *Script) Function(name string) *Function {
	for _, f := range s.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}
