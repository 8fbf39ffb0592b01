// Package parser is a recursive-descent, precedence-climbing parser: it
// consumes the token stream produced by the lexer and builds the AST
// defined in package ast, accumulating the function's local variables
// as it discovers them.
package parser

import (
	"github.com/KT-314/Compiler/ast"
	"github.com/KT-314/Compiler/diagnostics"
	"github.com/KT-314/Compiler/token"
)

// Parser holds parsing state: the source text (kept only so errors can
// be anchored to a byte offset), the current token cursor, and the
// locals accumulated so far, in order of first appearance.
type Parser struct {
	source string
	cur    *token.Token
	locals []*ast.Variable
}

// Parse consumes the token stream produced by lexer.Lex and returns the
// parsed Function, or the first error encountered. source must be the
// same string the tokens were lexed from, for diagnostics.
func Parse(source string, tokens *token.Token) (*ast.Function, error) {
	p := &Parser{source: source, cur: tokens}

	body, err := p.program()
	if err != nil {
		return nil, err
	}

	return &ast.Function{Body: body, Locals: p.locals}, nil
}

func (p *Parser) equal(sign string) bool {
	return p.cur.Is(p.source, sign)
}

func (p *Parser) advance() *token.Token {
	t := p.cur
	p.cur = p.cur.Next
	return t
}

// skip requires the current token's lexeme to be sign and consumes it.
func (p *Parser) skip(sign string) error {
	if !p.equal(sign) {
		return diagnostics.ReportAt(p.source, p.cur.Pos, "expected token '%s'", sign)
	}
	p.advance()
	return nil
}

// program = "{" compound-stmt
func (p *Parser) program() (*ast.Node, error) {
	if err := p.skip("{"); err != nil {
		return nil, err
	}
	return p.compoundStmt()
}

// compound-stmt = stmt* "}"
func (p *Parser) compoundStmt() (*ast.Node, error) {
	head := &ast.Node{}
	cur := head

	for !p.equal("}") {
		if p.cur.Kind == token.EOF {
			return nil, diagnostics.ReportAt(p.source, p.cur.Pos, "expected token '}'")
		}

		n, err := p.stmt()
		if err != nil {
			return nil, err
		}
		cur.Next = n
		cur = n
	}
	p.advance() // consume "}"

	return &ast.Node{Kind: ast.BLOCK, Body: head.Next}, nil
}

// stmt = "return" expr ";"
//      | "if" "(" expr ")" stmt ("else" stmt)?
//      | "for" "(" expr-stmt expr? ";" expr? ")" stmt
//      | "{" compound-stmt
//      | expr-stmt
func (p *Parser) stmt() (*ast.Node, error) {
	switch {
	case p.equal("return"):
		p.advance()

		lhs, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.skip(";"); err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.RETURN, Lhs: lhs}, nil

	case p.equal("if"):
		return p.ifStmt()

	case p.equal("for"):
		return p.forStmt()

	case p.equal("{"):
		p.advance()
		return p.compoundStmt()

	default:
		return p.exprStmt()
	}
}

func (p *Parser) ifStmt() (*ast.Node, error) {
	p.advance() // "if"

	if err := p.skip("("); err != nil {
		return nil, err
	}
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.skip(")"); err != nil {
		return nil, err
	}
	then, err := p.stmt()
	if err != nil {
		return nil, err
	}

	node := &ast.Node{Kind: ast.IF, Cond: cond, Then: then}

	if p.equal("else") {
		p.advance()
		els, err := p.stmt()
		if err != nil {
			return nil, err
		}
		node.Els = els
	}
	return node, nil
}

func (p *Parser) forStmt() (*ast.Node, error) {
	p.advance() // "for"

	if err := p.skip("("); err != nil {
		return nil, err
	}

	init, err := p.exprStmt()
	if err != nil {
		return nil, err
	}
	node := &ast.Node{Kind: ast.FOR, Init: init}

	if !p.equal(";") {
		cond, err := p.expr()
		if err != nil {
			return nil, err
		}
		node.Cond = cond
	}
	if err := p.skip(";"); err != nil {
		return nil, err
	}

	if !p.equal(")") {
		inc, err := p.expr()
		if err != nil {
			return nil, err
		}
		node.Inc = inc
	}
	if err := p.skip(")"); err != nil {
		return nil, err
	}

	then, err := p.stmt()
	if err != nil {
		return nil, err
	}
	node.Then = then

	return node, nil
}

// expr-stmt = expr? ";"
// An empty expr-stmt becomes an empty BLOCK, a no-op with zero register
// effect for the code generator.
func (p *Parser) exprStmt() (*ast.Node, error) {
	if p.equal(";") {
		p.advance()
		return &ast.Node{Kind: ast.BLOCK}, nil
	}

	lhs, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.skip(";"); err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.EXPRSTMT, Lhs: lhs}, nil
}

// expr = assign
func (p *Parser) expr() (*ast.Node, error) {
	return p.assign()
}

// assign = equality ("=" assign)?
// Right-associative: the right-hand side recurses back into assign.
func (p *Parser) assign() (*ast.Node, error) {
	node, err := p.equality()
	if err != nil {
		return nil, err
	}

	if p.equal("=") {
		p.advance()
		rhs, err := p.assign()
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.ASSIGN, Lhs: node, Rhs: rhs}, nil
	}
	return node, nil
}

// equality = relational (("==" | "!=") relational)*
func (p *Parser) equality() (*ast.Node, error) {
	node, err := p.relational()
	if err != nil {
		return nil, err
	}

	for {
		var kind ast.Kind
		switch {
		case p.equal("=="):
			kind = ast.EQ
		case p.equal("!="):
			kind = ast.NE
		default:
			return node, nil
		}

		p.advance()
		rhs, err := p.relational()
		if err != nil {
			return nil, err
		}
		node = &ast.Node{Kind: kind, Lhs: node, Rhs: rhs}
	}
}

// relational = add (("<" | "<=" | ">" | ">=") add)*
// ">" and ">=" are desugared into LT/LE with swapped operands; there
// are no dedicated GT/GE node kinds.
func (p *Parser) relational() (*ast.Node, error) {
	node, err := p.add()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.equal("<"):
			p.advance()
			rhs, err := p.add()
			if err != nil {
				return nil, err
			}
			node = &ast.Node{Kind: ast.LT, Lhs: node, Rhs: rhs}

		case p.equal("<="):
			p.advance()
			rhs, err := p.add()
			if err != nil {
				return nil, err
			}
			node = &ast.Node{Kind: ast.LE, Lhs: node, Rhs: rhs}

		case p.equal(">"):
			p.advance()
			rhs, err := p.add()
			if err != nil {
				return nil, err
			}
			node = &ast.Node{Kind: ast.LT, Lhs: rhs, Rhs: node}

		case p.equal(">="):
			p.advance()
			rhs, err := p.add()
			if err != nil {
				return nil, err
			}
			node = &ast.Node{Kind: ast.LE, Lhs: rhs, Rhs: node}

		default:
			return node, nil
		}
	}
}

// add = mul (("+" | "-") mul)*
func (p *Parser) add() (*ast.Node, error) {
	node, err := p.mul()
	if err != nil {
		return nil, err
	}

	for {
		var kind ast.Kind
		switch {
		case p.equal("+"):
			kind = ast.ADD
		case p.equal("-"):
			kind = ast.SUB
		default:
			return node, nil
		}

		p.advance()
		rhs, err := p.mul()
		if err != nil {
			return nil, err
		}
		node = &ast.Node{Kind: kind, Lhs: node, Rhs: rhs}
	}
}

// mul = unary (("*" | "/") unary)*
func (p *Parser) mul() (*ast.Node, error) {
	node, err := p.unary()
	if err != nil {
		return nil, err
	}

	for {
		var kind ast.Kind
		switch {
		case p.equal("*"):
			kind = ast.MUL
		case p.equal("/"):
			kind = ast.DIV
		default:
			return node, nil
		}

		p.advance()
		rhs, err := p.unary()
		if err != nil {
			return nil, err
		}
		node = &ast.Node{Kind: kind, Lhs: node, Rhs: rhs}
	}
}

// unary = ("+" | "-") unary | primary
// Unary "+x" parses as "x"; unary "-x" parses as "0 - x".
func (p *Parser) unary() (*ast.Node, error) {
	if p.equal("+") {
		p.advance()
		return p.unary()
	}

	if p.equal("-") {
		p.advance()
		rhs, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.SUB, Lhs: &ast.Node{Kind: ast.NUM, Val: 0}, Rhs: rhs}, nil
	}

	return p.primary()
}

// primary = "(" expr ")" | identifier | number
func (p *Parser) primary() (*ast.Node, error) {
	if p.equal("(") {
		p.advance()
		node, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.skip(")"); err != nil {
			return nil, err
		}
		return node, nil
	}

	if p.cur.Kind == token.IDENT {
		name := p.cur.Text(p.source)

		v := p.findVar(name)
		if v == nil {
			v = &ast.Variable{Name: name}
			p.locals = append(p.locals, v)
		}

		p.advance()
		return &ast.Node{Kind: ast.VAR, Var: v}, nil
	}

	if p.cur.Kind != token.NUMBER {
		return nil, diagnostics.ReportAt(p.source, p.cur.Pos, "number expected")
	}

	val := p.cur.Value
	p.advance()
	return &ast.Node{Kind: ast.NUM, Val: val}, nil
}

// findVar looks up name among the locals seen so far, using the
// length-exact comparison implied by the spec's "name lookup over
// locals" - here simply a string equality, since Go strings already
// carry their length.
func (p *Parser) findVar(name string) *ast.Variable {
	for _, v := range p.locals {
		if v.Name == name {
			return v
		}
	}
	return nil
}
