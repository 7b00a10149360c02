// Package ast defines the AST node types for the reduced grammar
// internal/parseq parses: literals, var declarations, binary and
// compound-assignment operators, if, while, try/catch, blocks, a print
// call, and the qinit/qmain/qdone function bodies.
//
// Grounded on the teacher's ast package (Node/Expression/Statement split,
// a Token+String()/TokenLiteral() pair on every node) but restricted to
// this grammar - spec.md treats the parser as an external collaborator,
// "interfaces only, not designs".
package ast

import "github.com/cwbudde/qoreir/internal/diag"

// Node is the base interface every AST node implements.
type Node interface {
	Pos() diag.Position
}

// Expression is any node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node that performs an action.
type Statement interface {
	Node
	statementNode()
}

// Program is the root node: a list of top-level statements, which in this
// grammar are always the bodies of qinit/qmain/qdone.
type Program struct {
	Functions []*FunctionDecl
}

// FunctionDecl is one of qinit/qmain/qdone's bodies.
type FunctionDecl struct {
	Position diag.Position
	Name     string
	Body     *Block
}

func (f *FunctionDecl) Pos() diag.Position { return f.Position }

// Block is a brace-delimited list of statements, each its own scope for
// refcounted-local cleanup.
type Block struct {
	Position   diag.Position
	Statements []Statement
}

func (b *Block) Pos() diag.Position { return b.Position }
func (b *Block) statementNode()     {}

// Identifier is a variable or function reference.
type Identifier struct {
	Position diag.Position
	Name     string
}

func (i *Identifier) Pos() diag.Position { return i.Position }
func (i *Identifier) expressionNode()    {}

// IntegerLiteral is an Int constant.
type IntegerLiteral struct {
	Position diag.Position
	Value    int64
}

func (n *IntegerLiteral) Pos() diag.Position { return n.Position }
func (n *IntegerLiteral) expressionNode()    {}

// StringLiteral is a String constant.
type StringLiteral struct {
	Position diag.Position
	Value    string
}

func (n *StringLiteral) Pos() diag.Position { return n.Position }
func (n *StringLiteral) expressionNode()    {}

// BoolLiteral is a Bool constant.
type BoolLiteral struct {
	Position diag.Position
	Value    bool
}

func (n *BoolLiteral) Pos() diag.Position { return n.Position }
func (n *BoolLiteral) expressionNode()    {}

// BinaryExpr is a two-operand operator application, e.g. a + b.
type BinaryExpr struct {
	Position diag.Position
	Op       string
	Left     Expression
	Right    Expression
}

func (n *BinaryExpr) Pos() diag.Position { return n.Position }
func (n *BinaryExpr) expressionNode()    {}

// CallExpr is a call to a builtin function group, e.g. print(x).
type CallExpr struct {
	Position diag.Position
	Callee   string
	Args     []Expression
}

func (n *CallExpr) Pos() diag.Position { return n.Position }
func (n *CallExpr) expressionNode()    {}

// VarDecl declares a local (or, with Shared set, a script-level global,
// whichever block it appears in) binding with an initializer.
type VarDecl struct {
	Position diag.Position
	Name     string
	TypeName string
	Init     Expression
	Shared   bool
}

func (n *VarDecl) Pos() diag.Position { return n.Position }
func (n *VarDecl) statementNode()     {}

// ExprStmt is an expression evaluated for its side effect (in this grammar,
// a call). Assignments are parsed as AssignStmt, not as an expression.
type ExprStmt struct {
	Position diag.Position
	X        Expression
}

func (n *ExprStmt) Pos() diag.Position { return n.Position }
func (n *ExprStmt) statementNode()     {}

// AssignStmt is name (op)= value, where op is "" for plain assignment or
// one of +,-,*,/,% for a compound assignment.
type AssignStmt struct {
	Position diag.Position
	Name     string
	Op       string
	Value    Expression
}

func (n *AssignStmt) Pos() diag.Position { return n.Position }
func (n *AssignStmt) statementNode()     {}

// IfStmt is if (Cond) Then [else Else].
type IfStmt struct {
	Position diag.Position
	Cond     Expression
	Then     *Block
	Else     *Block
}

func (n *IfStmt) Pos() diag.Position { return n.Position }
func (n *IfStmt) statementNode()     {}

// WhileStmt is while (Cond) Body.
type WhileStmt struct {
	Position diag.Position
	Cond     Expression
	Body     *Block
}

func (n *WhileStmt) Pos() diag.Position { return n.Position }
func (n *WhileStmt) statementNode()     {}

// TryStmt is try Body catch (CatchName) Catch.
type TryStmt struct {
	Position  diag.Position
	Body      *Block
	CatchName string
	Catch     *Block
}

func (n *TryStmt) Pos() diag.Position { return n.Position }
func (n *TryStmt) statementNode()     {}
