package coreapi

import (
	"testing"

	"github.com/cwbudde/qoreir/internal/ir"
	"github.com/cwbudde/qoreir/internal/types"
)

func TestResolveTypeIsCaseInsensitive(t *testing.T) {
	s := NewStaticScope()
	got, ok := s.ResolveType("InT")
	if !ok || got != types.Int {
		t.Fatalf("ResolveType(InT) = %v, %v; want Int, true", got, ok)
	}
}

func TestResolveSymbolSearchesEnclosingScopes(t *testing.T) {
	root := NewStaticScope()
	root.DeclareGlobal("counter", types.Int, ir.GlobalID(0))
	inner := NewEnclosedScope(root)
	inner.DeclareLocal("x", types.String, ir.LocalRef{Slot: 0})

	if _, ok := inner.ResolveSymbol("x"); !ok {
		t.Fatal("expected to resolve a local declared in the innermost scope")
	}
	sym, ok := inner.ResolveSymbol("COUNTER")
	if !ok || sym.Kind != SymbolGlobal {
		t.Fatalf("expected to resolve global from enclosing scope case-insensitively, got %+v, %v", sym, ok)
	}
	if _, ok := root.ResolveSymbol("x"); ok {
		t.Fatal("outer scope must not see inner scope's locals")
	}
}

func TestFunctionGroupResolveOverloadExactMatch(t *testing.T) {
	g := &FunctionGroup{Name: "concat", Overloads: []Overload{
		{FunctionName: "concat$int", Params: []*types.Type{types.Int, types.Int}, Return: types.Int},
		{FunctionName: "concat$string", Params: []*types.Type{types.String, types.String}, Return: types.String},
	}}
	res, ok := g.ResolveOverload([]*types.Type{types.String, types.String})
	if !ok || res.FunctionName != "concat$string" || res.ReturnType != types.String {
		t.Fatalf("ResolveOverload = %+v, %v", res, ok)
	}
}

func TestFunctionGroupResolveOverloadNoMatch(t *testing.T) {
	g := &FunctionGroup{Name: "f", Overloads: []Overload{
		{FunctionName: "f$int", Params: []*types.Type{types.Int}, Return: types.Int},
	}}
	if _, ok := g.ResolveOverload([]*types.Type{types.String}); ok {
		t.Fatal("expected no match for an argument-type mismatch")
	}
}
