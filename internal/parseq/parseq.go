// Package parseq is a recursive-descent parser over the reduced grammar
// internal/ast models.
//
// Grounded on the teacher's internal/parser precedence-climbing style for
// binary operators (a parseExpression(precedence) loop keyed by a
// per-operator precedence table) rather than a full Pratt
// prefix/infix-function registry, since this grammar has no prefix or
// postfix operators at all.
package parseq

import (
	"fmt"

	"github.com/cwbudde/qoreir/internal/ast"
	"github.com/cwbudde/qoreir/internal/diag"
	"github.com/cwbudde/qoreir/internal/scan"
)

const (
	lowest = iota
	equality
	relational
	additive
	multiplicative
)

var precedence = map[string]int{
	"==": equality, "!=": equality,
	"<": relational, "<=": relational, ">": relational, ">=": relational,
	"+": additive, "-": additive,
	"*": multiplicative, "/": multiplicative, "%": multiplicative,
}

// Parser consumes a token stream from scan.Scanner and builds an
// internal/ast.Program.
type Parser struct {
	s       *scan.Scanner
	tok     scan.Token
	peekTok scan.Token
	errs    []error
}

// New creates a Parser over source.
func New(source string) *Parser {
	p := &Parser{s: scan.New(source)}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.tok = p.peekTok
	p.peekTok = p.s.Next()
}

func (p *Parser) errorf(pos diag.Position, format string, args ...any) {
	p.errs = append(p.errs, &diag.Diagnostic{
		Severity: diag.SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	})
}

// Errors returns every parse error accumulated so far.
func (p *Parser) Errors() []error {
	return p.errs
}

func (p *Parser) expect(kind scan.Kind, literal string) diag.Position {
	pos := p.tok.Pos
	if p.tok.Kind != kind || (literal != "" && p.tok.Literal != literal) {
		p.errorf(pos, "expected %q, got %q", literal, p.tok.Literal)
		return pos
	}
	p.advance()
	return pos
}

func (p *Parser) at(kind scan.Kind, literal string) bool {
	return p.tok.Kind == kind && (literal == "" || p.tok.Literal == literal)
}

// ParseProgram parses qinit/qmain/qdone function declarations until EOF.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for p.tok.Kind != scan.EOF {
		if !p.at(scan.Keyword, "") {
			p.errorf(p.tok.Pos, "expected a function declaration, got %q", p.tok.Literal)
			p.advance()
			continue
		}
		switch p.tok.Literal {
		case "qinit", "qmain", "qdone":
			prog.Functions = append(prog.Functions, p.parseFunctionDecl())
		default:
			p.errorf(p.tok.Pos, "unexpected keyword %q at top level", p.tok.Literal)
			p.advance()
		}
	}
	return prog
}

func (p *Parser) parseFunctionDecl() *ast.FunctionDecl {
	pos := p.tok.Pos
	name := p.tok.Literal
	p.advance()
	body := p.parseBlock()
	return &ast.FunctionDecl{Position: pos, Name: name, Body: body}
}

func (p *Parser) parseBlock() *ast.Block {
	pos := p.expect(scan.Punct, "{")
	b := &ast.Block{Position: pos}
	for !p.at(scan.Punct, "}") && p.tok.Kind != scan.EOF {
		b.Statements = append(b.Statements, p.parseStatement())
	}
	p.expect(scan.Punct, "}")
	return b
}

func (p *Parser) parseStatement() ast.Statement {
	switch {
	case p.at(scan.Keyword, "var"):
		return p.parseVarDecl()
	case p.at(scan.Keyword, "shared"):
		return p.parseVarDecl()
	case p.at(scan.Keyword, "if"):
		return p.parseIf()
	case p.at(scan.Keyword, "while"):
		return p.parseWhile()
	case p.at(scan.Keyword, "try"):
		return p.parseTry()
	case p.at(scan.Punct, "{"):
		return p.parseBlock()
	default:
		return p.parseSimpleStatement()
	}
}

func (p *Parser) parseVarDecl() *ast.VarDecl {
	pos := p.tok.Pos
	shared := p.tok.Literal == "shared"
	p.advance() // 'var' or 'shared'
	if shared {
		p.expect(scan.Keyword, "var")
	}
	name := p.tok.Literal
	p.expect(scan.Ident, "")
	var typeName string
	if p.at(scan.Punct, ":") {
		p.advance()
		typeName = p.tok.Literal
		p.advance()
	}
	var init ast.Expression
	if p.at(scan.Op, "=") {
		p.advance()
		init = p.parseExpression(lowest)
	}
	p.expect(scan.Punct, ";")
	return &ast.VarDecl{Position: pos, Name: name, TypeName: typeName, Init: init, Shared: shared}
}

func (p *Parser) parseIf() *ast.IfStmt {
	pos := p.tok.Pos
	p.advance()
	p.expect(scan.Punct, "(")
	cond := p.parseExpression(lowest)
	p.expect(scan.Punct, ")")
	then := p.parseBlock()
	stmt := &ast.IfStmt{Position: pos, Cond: cond, Then: then}
	if p.at(scan.Keyword, "else") {
		p.advance()
		stmt.Else = p.parseBlock()
	}
	return stmt
}

func (p *Parser) parseWhile() *ast.WhileStmt {
	pos := p.tok.Pos
	p.advance()
	p.expect(scan.Punct, "(")
	cond := p.parseExpression(lowest)
	p.expect(scan.Punct, ")")
	body := p.parseBlock()
	return &ast.WhileStmt{Position: pos, Cond: cond, Body: body}
}

func (p *Parser) parseTry() *ast.TryStmt {
	pos := p.tok.Pos
	p.advance()
	body := p.parseBlock()
	p.expect(scan.Keyword, "catch")
	p.expect(scan.Punct, "(")
	name := p.tok.Literal
	p.expect(scan.Ident, "")
	p.expect(scan.Punct, ")")
	catch := p.parseBlock()
	return &ast.TryStmt{Position: pos, Body: body, CatchName: name, Catch: catch}
}

var compoundOps = map[string]string{"+=": "+", "-=": "-", "*=": "*", "/=": "/", "%=": "%"}

func (p *Parser) parseSimpleStatement() ast.Statement {
	pos := p.tok.Pos
	if p.tok.Kind == scan.Ident && (p.peekTok.Literal == "=" || compoundOps[p.peekTok.Literal] != "") {
		name := p.tok.Literal
		p.advance()
		op := ""
		if p.tok.Literal != "=" {
			op = compoundOps[p.tok.Literal]
		}
		p.advance()
		value := p.parseExpression(lowest)
		p.expect(scan.Punct, ";")
		return &ast.AssignStmt{Position: pos, Name: name, Op: op, Value: value}
	}
	expr := p.parseExpression(lowest)
	p.expect(scan.Punct, ";")
	return &ast.ExprStmt{Position: pos, X: expr}
}

func (p *Parser) parseExpression(minPrec int) ast.Expression {
	left := p.parsePrimary()
	for {
		prec, ok := precedence[p.tok.Literal]
		if !ok || p.tok.Kind != scan.Op || prec <= minPrec {
			break
		}
		op := p.tok.Literal
		pos := p.tok.Pos
		p.advance()
		right := p.parseExpression(prec)
		left = &ast.BinaryExpr{Position: pos, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parsePrimary() ast.Expression {
	pos := p.tok.Pos
	switch {
	case p.tok.Kind == scan.Int:
		lit := p.tok.Literal
		p.advance()
		var v int64
		fmt.Sscanf(lit, "%d", &v)
		return &ast.IntegerLiteral{Position: pos, Value: v}
	case p.tok.Kind == scan.String:
		lit := p.tok.Literal
		p.advance()
		return &ast.StringLiteral{Position: pos, Value: lit}
	case p.at(scan.Keyword, "true"):
		p.advance()
		return &ast.BoolLiteral{Position: pos, Value: true}
	case p.at(scan.Keyword, "false"):
		p.advance()
		return &ast.BoolLiteral{Position: pos, Value: false}
	case p.tok.Kind == scan.Ident && p.peekTok.Literal == "(":
		return p.parseCall()
	case p.tok.Kind == scan.Ident:
		name := p.tok.Literal
		p.advance()
		return &ast.Identifier{Position: pos, Name: name}
	case p.at(scan.Punct, "("):
		p.advance()
		expr := p.parseExpression(lowest)
		p.expect(scan.Punct, ")")
		return expr
	default:
		p.errorf(pos, "unexpected token %q in expression", p.tok.Literal)
		p.advance()
		return &ast.IntegerLiteral{Position: pos, Value: 0}
	}
}

func (p *Parser) parseCall() *ast.CallExpr {
	pos := p.tok.Pos
	callee := p.tok.Literal
	p.advance()
	p.expect(scan.Punct, "(")
	call := &ast.CallExpr{Position: pos, Callee: callee}
	for !p.at(scan.Punct, ")") {
		call.Args = append(call.Args, p.parseExpression(lowest))
		if p.at(scan.Punct, ",") {
			p.advance()
		}
	}
	p.expect(scan.Punct, ")")
	return call
}
