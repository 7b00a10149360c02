// Package coreapi defines the external-interface contracts the core
// consumes (spec.md §4.9, C9) - scope/symbol resolution and diagnostic
// reporting - plus a minimal concrete Scope implementation sufficient to
// drive internal/parseq end to end. Grounded on
// internal/semantic/symbol_table.go's SymbolTable (scope chain,
// case-insensitive lookup, Resolve/PushScope/PopScope shape) and
// internal/errors/errors.go for the diagnostic contract.
package coreapi

import (
	"strings"

	"github.com/cwbudde/qoreir/internal/diag"
	"github.com/cwbudde/qoreir/internal/ir"
	"github.com/cwbudde/qoreir/internal/types"
)

// SymbolKind distinguishes what a resolved name refers to.
type SymbolKind int

const (
	SymbolLocal SymbolKind = iota
	SymbolGlobal
	SymbolFunctionGroup
	SymbolType
)

// LocalVariableInfo is the payload a Scope hands back for a declared
// local: its slot, whether it is a captured/shared local, and its type.
type LocalVariableInfo struct {
	Local ir.LocalRef
	Type  *types.Type
}

// Symbol is what Scope.ResolveSymbol returns: a kind tag plus whichever
// payload applies to that kind.
type Symbol struct {
	Kind   SymbolKind
	Name   string
	Type   *types.Type
	Local  ir.LocalRef         // valid when Kind == SymbolLocal
	Global ir.GlobalID         // valid when Kind == SymbolGlobal
	Group  *FunctionGroup      // valid when Kind == SymbolFunctionGroup
}

// OverloadResolution is FunctionGroup.ResolveOverload's success result.
type OverloadResolution struct {
	FunctionName string
	ReturnType   *types.Type
}

// FunctionGroup resolves a call's argument types against the group's
// overload set (spec.md §4.9's FunctionGroup::resolveOverload).
type FunctionGroup struct {
	Name      string
	Overloads []Overload
}

// Overload is one candidate signature in a FunctionGroup.
type Overload struct {
	FunctionName string
	Params       []*types.Type
	Return       *types.Type
}

// ResolveOverload finds the overload whose parameter types exactly match
// argTypes. Spec.md's per-argument-conversion insertion (§4.5) has no
// candidate to insert in this reduced grammar: the only callable,
// builtinPrint, already has one overload per primitive type this grammar
// can produce an expression of, so a call either exact-matches one of them
// or has no possible overload at all - see DESIGN.md for why a coercible-
// match path was dropped rather than kept as unreachable scaffolding.
func (g *FunctionGroup) ResolveOverload(argTypes []*types.Type) (OverloadResolution, bool) {
	for _, o := range g.Overloads {
		if len(o.Params) != len(argTypes) {
			continue
		}
		match := true
		for i, p := range o.Params {
			if p != argTypes[i] {
				match = false
				break
			}
		}
		if match {
			return OverloadResolution{FunctionName: o.FunctionName, ReturnType: o.Return}, true
		}
	}
	return OverloadResolution{}, false
}

// Scope resolves AST names to types, symbols, and freshly-declared
// locals - spec.md §4.9's Scope::resolveType/resolveSymbol/declareLocal.
type Scope interface {
	ResolveType(astType string) (*types.Type, bool)
	ResolveSymbol(astName string) (Symbol, bool)
	DeclareLocal(name string, t *types.Type, local ir.LocalRef) LocalVariableInfo
}

// StaticScope is a minimal concrete Scope: a chain of case-insensitive
// symbol tables, one per lexical block, matching
// internal/semantic/symbol_table.go's SymbolTable.
type StaticScope struct {
	symbols     map[string]Symbol
	outer       *StaticScope
	types       map[string]*types.Type
	globalOrder []ir.GlobalID
}

// NewStaticScope creates a root scope preloaded with the core's built-in
// type names.
func NewStaticScope() *StaticScope {
	s := &StaticScope{
		symbols: make(map[string]Symbol),
		types:   make(map[string]*types.Type),
	}
	for _, t := range types.All() {
		s.types[strings.ToLower(t.Name())] = t
	}
	return s
}

// NewEnclosedScope creates a child scope nested inside outer - entering a
// block pushes one of these, leaving it pops back to outer.
func NewEnclosedScope(outer *StaticScope) *StaticScope {
	return &StaticScope{symbols: make(map[string]Symbol), outer: outer}
}

// ResolveType looks up a type name, case-insensitively, in this scope or
// any enclosing one.
func (s *StaticScope) ResolveType(astType string) (*types.Type, bool) {
	key := strings.ToLower(astType)
	for sc := s; sc != nil; sc = sc.outer {
		if sc.types != nil {
			if t, ok := sc.types[key]; ok {
				return t, true
			}
		}
	}
	return nil, false
}

// ResolveSymbol looks up a name, case-insensitively, in this scope or any
// enclosing one, innermost first.
func (s *StaticScope) ResolveSymbol(astName string) (Symbol, bool) {
	key := strings.ToLower(astName)
	for sc := s; sc != nil; sc = sc.outer {
		if sym, ok := sc.symbols[key]; ok {
			return sym, true
		}
	}
	return Symbol{}, false
}

// DeclareLocal registers a local variable in this scope and returns its
// info, for the caller (internal/build.Builder) to have already assigned
// the backing slot.
func (s *StaticScope) DeclareLocal(name string, t *types.Type, local ir.LocalRef) LocalVariableInfo {
	s.symbols[strings.ToLower(name)] = Symbol{Kind: SymbolLocal, Name: name, Type: t, Local: local}
	return LocalVariableInfo{Local: local, Type: t}
}

// DeclareGlobal registers a global (shared, lock-protected) binding.
// Shared vars are script-level regardless of the lexical block they
// appear in, so this always registers against the outermost scope -
// callers may invoke it from any nested *StaticScope.
func (s *StaticScope) DeclareGlobal(name string, t *types.Type, global ir.GlobalID) {
	root := s.Root()
	root.symbols[strings.ToLower(name)] = Symbol{Kind: SymbolGlobal, Name: name, Type: t, Global: global}
	root.globalOrder = append(root.globalOrder, global)
}

// Globals returns every global declared directly in this scope, in
// declaration order - used to emit qdone's reverse-order teardown.
func (s *StaticScope) Globals() []ir.GlobalID {
	return s.globalOrder
}

// Root walks out to the outermost enclosing scope. Shared vars are
// script-level regardless of the lexical block they are declared in, so
// DeclareGlobal always registers against the root, not s itself.
func (s *StaticScope) Root() *StaticScope {
	for s.outer != nil {
		s = s.outer
	}
	return s
}

// DeclareFunctionGroup registers a function-group symbol so calls to name
// resolve to it.
func (s *StaticScope) DeclareFunctionGroup(group *FunctionGroup) {
	s.symbols[strings.ToLower(group.Name)] = Symbol{Kind: SymbolFunctionGroup, Name: group.Name, Group: group}
}

// DiagnosticReporter is the contract analysis code reports problems
// through (spec.md §4.9's DiagnosticReporter::report); diag.Reporter is
// the concrete shape shared with internal/diag so both packages agree on
// one interface rather than coreapi redeclaring its own.
type DiagnosticReporter = diag.Reporter
