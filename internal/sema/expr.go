// Package sema implements the expression analyzer's two passes (spec.md
// §4.5-4.6, C5/C6) and the statement analyzer (§4.7, C7): AST plus a Scope
// in, IR emitted via a Builder out.
//
// Grounded on internal/semantic/analyze_expressions.go and
// internal/semantic/analyze_operators.go for pass-1-style resolution
// (look up an operator/conversion descriptor, wrap mismatched operands),
// and on internal/semantic/analyze_statements.go for the block-scope/
// control-flow shape pass 2 and the statement analyzer follow.
package sema

import (
	"fmt"

	"github.com/cwbudde/qoreir/internal/ast"
	"github.com/cwbudde/qoreir/internal/coreapi"
	"github.com/cwbudde/qoreir/internal/diag"
	"github.com/cwbudde/qoreir/internal/ir"
	"github.com/cwbudde/qoreir/internal/ops"
	"github.com/cwbudde/qoreir/internal/types"
)

// Expr is a typed expression tree node - pass 1's output, pass 2's input.
// Every node carries its resolved Type; implicit conversions are explicit
// ConversionExpr nodes (spec.md §4.5).
type Expr interface {
	Type() *types.Type
}

// LiteralExpr is a literal constant of Int, String, or Bool type.
type LiteralExpr struct {
	T       *types.Type
	IntVal  int64
	StrVal  string
	BoolVal bool
}

func (e *LiteralExpr) Type() *types.Type { return e.T }

// NameExpr is a resolved reference to a local or global.
type NameExpr struct {
	Sym coreapi.Symbol
}

func (e *NameExpr) Type() *types.Type { return e.Sym.Type }

// ConversionExpr applies a resolved conversion to Arg.
type ConversionExpr struct {
	Desc *ops.ConversionDesc
	Arg  Expr
}

func (e *ConversionExpr) Type() *types.Type { return e.Desc.To }

// BinaryExpr applies a resolved binary operator to Left and Right.
type BinaryExpr struct {
	Desc  *ops.BinaryOperatorDesc
	Left  Expr
	Right Expr
}

func (e *BinaryExpr) Type() *types.Type { return e.Desc.Return }

// CallExpr is a resolved call to a function-group overload. The reduced
// grammar's only callable is the print builtin (SPEC_FULL.md §5); other
// names fail overload resolution and analyze to ErrorExpr.
type CallExpr struct {
	Resolution coreapi.OverloadResolution
	Args       []Expr
}

func (e *CallExpr) Type() *types.Type { return e.Resolution.ReturnType }

// ErrorExpr stands in for any expression that failed to resolve, so
// analysis can continue without cascading diagnostics (spec.md §9's Error
// open-question resolution: propagate silently, report only once).
type ErrorExpr struct{}

func (e *ErrorExpr) Type() *types.Type { return types.Error }

// Analyzer is pass 1 and pass 2 together: it shares one operator/
// conversion registry and diagnostic sink across both, plus the script
// being built (for string interning and the global count).
type Analyzer struct {
	Reg      *ops.Registry
	Reporter diag.Reporter
	Script   *ir.Script
}

// New creates an Analyzer.
func New(reg *ops.Registry, reporter diag.Reporter, script *ir.Script) *Analyzer {
	return &Analyzer{Reg: reg, Reporter: reporter, Script: script}
}

func (a *Analyzer) report(pos diag.Position, format string, args ...any) {
	a.Reporter.Report(diag.Diagnostic{
		Severity: diag.SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	})
}

// AnalyzeExpr is pass 1: AST expression + Scope in, typed expression tree
// out, with every implicit conversion made explicit.
func (a *Analyzer) AnalyzeExpr(e ast.Expression, scope coreapi.Scope) Expr {
	switch n := e.(type) {
	case *ast.IntegerLiteral:
		return &LiteralExpr{T: types.Int, IntVal: n.Value}
	case *ast.StringLiteral:
		return &LiteralExpr{T: types.String, StrVal: n.Value}
	case *ast.BoolLiteral:
		return &LiteralExpr{T: types.Bool, BoolVal: n.Value}
	case *ast.Identifier:
		sym, ok := scope.ResolveSymbol(n.Name)
		if !ok {
			a.report(n.Position, "undefined name %q", n.Name)
			return &ErrorExpr{}
		}
		return &NameExpr{Sym: sym}
	case *ast.BinaryExpr:
		return a.analyzeBinary(n, scope)
	case *ast.CallExpr:
		return a.analyzeCall(n, scope)
	default:
		a.report(e.Pos(), "unsupported expression")
		return &ErrorExpr{}
	}
}

func opKind(op string) (ops.Kind, bool) {
	switch op {
	case "+":
		return ops.Add, true
	case "-":
		return ops.Sub, true
	case "*":
		return ops.Mul, true
	case "/":
		return ops.Div, true
	case "%":
		return ops.Mod, true
	case "==":
		return ops.Eq, true
	case "!=":
		return ops.Ne, true
	case "<":
		return ops.Lt, true
	case "<=":
		return ops.Le, true
	case ">":
		return ops.Gt, true
	case ">=":
		return ops.Ge, true
	}
	return 0, false
}

func (a *Analyzer) analyzeBinary(n *ast.BinaryExpr, scope coreapi.Scope) Expr {
	left := a.AnalyzeExpr(n.Left, scope)
	right := a.AnalyzeExpr(n.Right, scope)
	kind, ok := opKind(n.Op)
	if !ok {
		a.report(n.Position, "unknown operator %q", n.Op)
		return &ErrorExpr{}
	}
	// Error propagates silently: only the innermost non-Error mismatch is
	// reported (spec.md §9's Error-type open-question resolution).
	if left.Type() == types.Error || right.Type() == types.Error {
		return &ErrorExpr{}
	}
	desc, ok := a.Reg.Resolve(kind, left.Type(), right.Type())
	if !ok {
		a.report(n.Position, "no operator %q for %s and %s", n.Op, left.Type(), right.Type())
		return &ErrorExpr{}
	}
	return &BinaryExpr{Desc: desc, Left: left, Right: right}
}

// convertTo wraps e in a ConversionExpr targeting t, unless e already has
// type t. No conversion chaining - a missing edge is a diagnostic and
// ErrorExpr (spec.md §4.2).
func (a *Analyzer) convertTo(e Expr, t *types.Type, pos diag.Position) Expr {
	if e.Type() == t || e.Type() == types.Error {
		return e
	}
	desc, ok := a.Reg.Conversion(e.Type(), t)
	if !ok {
		a.report(pos, "no conversion from %s to %s", e.Type(), t)
		return &ErrorExpr{}
	}
	return &ConversionExpr{Desc: desc, Arg: e}
}

// builtinPrint is the only function group the reduced grammar resolves
// calls against (SPEC_FULL.md §5's print builtin).
var builtinPrint = &coreapi.FunctionGroup{Name: "print", Overloads: []coreapi.Overload{
	{FunctionName: "print$int", Params: []*types.Type{types.Int}, Return: types.Nothing},
	{FunctionName: "print$string", Params: []*types.Type{types.String}, Return: types.Nothing},
	{FunctionName: "print$bool", Params: []*types.Type{types.Bool}, Return: types.Nothing},
}}

func (a *Analyzer) analyzeCall(n *ast.CallExpr, scope coreapi.Scope) Expr {
	var group *coreapi.FunctionGroup
	if n.Callee == "print" {
		group = builtinPrint
	} else if sym, ok := scope.ResolveSymbol(n.Callee); ok && sym.Kind == coreapi.SymbolFunctionGroup {
		group = sym.Group
	} else {
		a.report(n.Position, "undefined function %q", n.Callee)
		return &ErrorExpr{}
	}

	args := make([]Expr, len(n.Args))
	argTypes := make([]*types.Type, len(n.Args))
	for i, argNode := range n.Args {
		args[i] = a.AnalyzeExpr(argNode, scope)
		argTypes[i] = args[i].Type()
	}
	res, ok := group.ResolveOverload(argTypes)
	if !ok {
		a.report(n.Position, "no overload of %q for the given argument types", n.Callee)
		return &ErrorExpr{}
	}
	return &CallExpr{Resolution: res, Args: args}
}
