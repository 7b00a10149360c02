package sema

import (
	"github.com/cwbudde/qoreir/internal/ast"
	"github.com/cwbudde/qoreir/internal/build"
	"github.com/cwbudde/qoreir/internal/coreapi"
	"github.com/cwbudde/qoreir/internal/ir"
	"github.com/cwbudde/qoreir/internal/types"
)

// AnalyzeStmt lowers one statement, recursing into nested blocks with
// their own child scope (spec.md §4.7, C7).
func (a *Analyzer) AnalyzeStmt(b *build.Builder, stmt ast.Statement, scope *coreapi.StaticScope) {
	switch n := stmt.(type) {
	case *ast.Block:
		a.analyzeBlock(b, n, scope)
	case *ast.VarDecl:
		a.analyzeVarDecl(b, n, scope)
	case *ast.ExprStmt:
		tree := a.AnalyzeExpr(n.X, scope)
		if !hasEffect(n.X) {
			a.report(n.Position, "statement has no effect")
		}
		t, rc := a.emitExpr(b, tree)
		if rc {
			b.PushTemp(t, true)
			b.PopTemp(t)
			b.EmitRefDec(t)
		}
	case *ast.AssignStmt:
		a.analyzeAssignStmt(b, n, scope)
	case *ast.IfStmt:
		a.analyzeIf(b, n, scope)
	case *ast.WhileStmt:
		a.analyzeWhile(b, n, scope)
	case *ast.TryStmt:
		a.analyzeTry(b, n, scope)
	default:
		a.report(stmt.Pos(), "unsupported statement")
	}
}

// hasEffect reports whether evaluating e for its side effect alone is
// meaningful - per spec.md §4.6's eval(e): "must have a side effect
// (otherwise emit a statement has no effect diagnostic)". In this
// grammar only calls (print) have a side effect.
func hasEffect(e ast.Expression) bool {
	_, ok := e.(*ast.CallExpr)
	return ok
}

func (a *Analyzer) analyzeBlock(b *build.Builder, blk *ast.Block, outer *coreapi.StaticScope) {
	inner := coreapi.NewEnclosedScope(outer)
	mark := b.BeginBlockScope()
	for _, stmt := range blk.Statements {
		a.AnalyzeStmt(b, stmt, inner)
	}
	b.EndBlockScope(mark)
}

func (a *Analyzer) analyzeVarDecl(b *build.Builder, n *ast.VarDecl, scope *coreapi.StaticScope) {
	typed := a.AnalyzeExpr(n.Init, scope)

	declType := typed.Type()
	if n.TypeName != "" {
		t, ok := scope.ResolveType(n.TypeName)
		if !ok {
			a.report(n.Position, "unknown type %q", n.TypeName)
			return
		}
		declType = t
	}
	typed = a.convertTo(typed, declType, n.Position)

	if n.Shared {
		global := ir.GlobalID(a.Script.NumGlobals)
		a.Script.NumGlobals++
		scope.DeclareGlobal(n.Name, declType, global)
		t, _ := a.emitExpr(b, typed)
		b.EmitMakeGlobal(global, t)
		return
	}

	local := b.DeclareLocal(declType.IsRefCounted())
	scope.DeclareLocal(n.Name, declType, local)
	t, _ := a.emitExpr(b, typed)
	b.EmitSetLocal(local, t)
}

func (a *Analyzer) analyzeAssignStmt(b *build.Builder, n *ast.AssignStmt, scope *coreapi.StaticScope) {
	sym, ok := scope.ResolveSymbol(n.Name)
	if !ok {
		a.report(n.Position, "undefined name %q", n.Name)
		return
	}

	if n.Op == "" {
		rhs := a.AnalyzeExpr(n.Value, scope)
		rhs = a.convertTo(rhs, sym.Type, n.Position)
		a.emitAssign(b, sym, rhs)
		return
	}

	kind, ok := opKind(n.Op)
	if !ok {
		a.report(n.Position, "unknown compound-assignment operator %q", n.Op)
		return
	}
	desc, ok := a.Reg.Resolve(kind, sym.Type, sym.Type)
	if !ok {
		a.report(n.Position, "no operator %q for %s", n.Op, sym.Type)
		return
	}
	rhs := a.AnalyzeExpr(n.Value, scope)
	rhs = a.convertTo(rhs, sym.Type, n.Position)
	a.emitCompoundAssign(b, sym, desc, rhs)
}

func (a *Analyzer) analyzeIf(b *build.Builder, n *ast.IfStmt, scope *coreapi.StaticScope) {
	condTree := a.AnalyzeExpr(n.Cond, scope)
	condTemp, _ := a.emitExpr(b, condTree)

	thenBB := b.CreateBlock()
	mergeBB := b.CreateBlock()
	elseBB := mergeBB
	if n.Else != nil {
		elseBB = b.CreateBlock()
	}
	b.EmitCondJump(condTemp, thenBB, elseBB)

	b.SetCurrentBlock(thenBB)
	a.analyzeBlock(b, n.Then, scope)
	b.EmitJump(mergeBB)

	if n.Else != nil {
		b.SetCurrentBlock(elseBB)
		a.analyzeBlock(b, n.Else, scope)
		b.EmitJump(mergeBB)
	}

	b.SetCurrentBlock(mergeBB)
}

func (a *Analyzer) analyzeWhile(b *build.Builder, n *ast.WhileStmt, scope *coreapi.StaticScope) {
	headBB := b.CreateBlock()
	bodyBB := b.CreateBlock()
	exitBB := b.CreateBlock()

	b.EmitJump(headBB)

	b.SetCurrentBlock(headBB)
	condTree := a.AnalyzeExpr(n.Cond, scope)
	condTemp, _ := a.emitExpr(b, condTree)
	b.EmitCondJump(condTemp, bodyBB, exitBB)

	b.SetCurrentBlock(bodyBB)
	a.analyzeBlock(b, n.Body, scope)
	b.EmitJump(headBB)

	b.SetCurrentBlock(exitBB)
}

// analyzeTry installs the catch block as the Builder's landing-pad
// termination before analyzing the body, so any exception raised inside
// unwinds straight into it (spec.md §4.7). The exception value itself
// crosses from the landing pad to the catch block through the temp
// CatchExceptionTemp reports - see its doc comment.
func (a *Analyzer) analyzeTry(b *build.Builder, n *ast.TryStmt, scope *coreapi.StaticScope) {
	catchBB := b.CreateBlock()
	afterBB := b.CreateBlock()

	b.BeginTry(catchBB)
	a.analyzeBlock(b, n.Body, scope)
	excTemp, _ := b.CatchExceptionTemp()
	b.EndTry()
	b.EmitJump(afterBB)

	b.SetCurrentBlock(catchBB)
	catchScope := coreapi.NewEnclosedScope(scope)
	mark := b.BeginBlockScope()
	local := b.DeclareLocal(true)
	catchScope.DeclareLocal(n.CatchName, types.Any, local)
	b.EmitSetLocal(local, excTemp)

	for _, stmt := range n.Catch.Statements {
		a.AnalyzeStmt(b, stmt, catchScope)
	}
	b.EndBlockScope(mark)
	b.EmitJump(afterBB)

	b.SetCurrentBlock(afterBB)
}
