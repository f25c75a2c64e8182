// Package parser builds plaia syntax trees from source text.
package parser

import (
	"io"
	"strconv"
	"strings"

	"github.com/pontaoski/plaia/ast"
	"github.com/pontaoski/plaia/errors"
	"github.com/pontaoski/plaia/lexer"
	"github.com/ztrue/tracerr"

	. "github.com/pontaoski/plaia/types"
)

type Parser struct {
	l *lexer.Lexer
}

func NewParser(l *lexer.Lexer) Parser {
	return Parser{l}
}

func catch(err *error) {
	if r := recover(); r != nil {
		rerr, ok := r.(error)
		if ok {
			*err = tracerr.Wrap(rerr)
		} else {
			panic(r)
		}
	}
}

// IsIncomplete reports whether err was caused by the input ending early,
// i.e. more text could still make it parse.
func IsIncomplete(err error) bool {
	e, ok := tracerr.Unwrap(err).(errors.ExpectedOneOfKindGotKind)
	return ok && e.Got == EOF
}

func ParseModule(r io.Reader, filename string) (*ast.Module, error) {
	p := NewParser(lexer.NewLexer(r, filename))
	return p.ParseModule()
}

func ParseFunction(src string) (*ast.FnDecl, error) {
	p := NewParser(lexer.NewLexer(strings.NewReader(src), ""))
	return p.ParseFunction()
}

func ParseStatement(src string) (ast.Stmt, error) {
	p := NewParser(lexer.NewLexer(strings.NewReader(src), ""))
	return p.ParseStatement()
}

func ParseExpression(src string) (ast.Expr, error) {
	p := NewParser(lexer.NewLexer(strings.NewReader(src), ""))
	return p.ParseExpression()
}

func (p *Parser) ParseModule() (m *ast.Module, err error) {
	defer catch(&err)

	from := p.pos()
	m = &ast.Module{}
	for !p.l.PeekIs(EOF) {
		tok, _ := p.l.Peek()

		switch tok.Kind {
		case LET:
			p.l.Lex()
			bind := p.parseTypeBind(tok.Location.From, true)
			p.l.LexExpecting(EOS)
			m.Globals = append(m.Globals, bind)
		case DEF:
			m.Functions = append(m.Functions, p.parseFunction())
		default:
			p.l.LexExpecting(DEF, LET)
		}
	}
	m.Pos = Span{From: from, To: p.l.End()}

	return m, nil
}

func (p *Parser) ParseFunction() (f *ast.FnDecl, err error) {
	defer catch(&err)

	f = p.parseFunction()
	p.l.LexExpecting(EOF)
	return f, nil
}

func (p *Parser) ParseStatement() (s ast.Stmt, err error) {
	defer catch(&err)

	s = p.parseStatement()
	p.l.LexExpecting(EOF)
	return s, nil
}

func (p *Parser) ParseExpression() (e ast.Expr, err error) {
	defer catch(&err)

	e = p.parseExpression()
	p.l.LexExpecting(EOF)
	return e, nil
}

// pos is where the next token starts.
func (p *Parser) pos() Position {
	tok, _ := p.l.Peek()
	return tok.Location.From
}

func (p *Parser) span(from Position) Span {
	return Span{From: from, To: p.l.End()}
}

func (p *Parser) parseFunction() *ast.FnDecl {
	tok, _ := p.l.LexExpecting(DEF)
	_, name := p.l.LexExpecting(IDENT)

	var params []ast.TypeBind
	p.l.LexExpecting(LPAREN)
	if !p.l.PeekIs(RPAREN) {
		for {
			params = append(params, p.parseTypeBind(p.pos(), false))
			if p.l.PeekIs(COMMA) {
				p.l.Lex()
				continue
			}
			break
		}
	}
	p.l.LexExpecting(RPAREN)
	p.l.LexExpecting(EQUALS)

	body := p.parseStatement()
	return &ast.FnDecl{
		Name:   ast.Symbol(name),
		Params: params,
		Body:   body,
		Pos:    p.span(tok.Location.From),
	}
}

// parseTypeBind reads `name: type`. The annotation may be left out when
// required is false.
func (p *Parser) parseTypeBind(from Position, required bool) ast.TypeBind {
	_, name := p.l.LexExpecting(IDENT)

	var kind ast.Type
	if required || p.l.PeekIs(COLON) {
		p.l.LexExpecting(COLON)
		kind = p.parseType()
	}

	return ast.TypeBind{
		Name: ast.Symbol(name),
		Type: kind,
		Pos:  p.span(from),
	}
}

func (p *Parser) parseType() ast.Type {
	tok, lit := p.l.LexExpecting(IDENT, LPAREN, LBRACKET)

	var kind ast.Type
	switch tok.Kind {
	case IDENT:
		switch lit {
		case "int", "i64", "u64":
			kind = ast.TInt{Name: lit}
		case "bool":
			kind = ast.TBool{}
		default:
			panic(errors.UnknownType{Name: lit, Location: tok.Location})
		}
	case LPAREN:
		var elems ast.TTuple
		for {
			elems = append(elems, p.parseType())
			if p.l.PeekIs(COMMA) {
				p.l.Lex()
				continue
			}
			break
		}
		p.l.LexExpecting(RPAREN)
		kind = elems
	case LBRACKET:
		elem := p.parseType()
		p.l.LexExpecting(RBRACKET)
		kind = ast.TVector{Elem: elem}
	}

	for p.l.PeekIs(STAR) {
		p.l.Lex()
		kind = ast.TPtr{Elem: kind}
	}
	return kind
}

func (p *Parser) parseStatement() ast.Stmt {
	from := p.pos()
	tok, _ := p.l.Peek()

	switch tok.Kind {
	case LET:
		p.l.Lex()
		bind := p.parseTypeBind(from, true)
		var init ast.Expr
		if p.l.PeekIs(EQUALS) {
			p.l.Lex()
			init = p.parseExpression()
		}
		p.l.LexExpecting(EOS)
		return ast.VarDecl{Bind: bind, Init: init, Pos: p.span(from)}
	case LBRACE:
		p.l.Lex()
		var stmts []ast.Stmt
		for !p.l.PeekIs(RBRACE) {
			stmts = append(stmts, p.parseStatement())
		}
		p.l.LexExpecting(RBRACE)
		return ast.Block{Stmts: stmts, Pos: p.span(from)}
	case CASE:
		p.l.Lex()
		discr := p.parseExpression()
		p.l.LexExpecting(LBRACE)
		var arms []ast.CaseArm
		for !p.l.PeekIs(RBRACE) {
			armFrom := p.pos()
			pat := p.parsePattern()
			p.l.LexExpecting(FATARROW)
			body := p.parseStatement()
			arms = append(arms, ast.CaseArm{Pattern: pat, Body: body, Pos: p.span(armFrom)})
			if p.l.PeekIs(COMMA) {
				p.l.Lex()
			}
		}
		p.l.LexExpecting(RBRACE)
		return ast.Case{Discriminant: discr, Arms: arms, Pos: p.span(from)}
	case IF:
		p.l.Lex()
		cond := p.parseExpression()
		then := p.parseStatement()
		return ast.If(cond, then, p.span(from))
	case RETURN:
		p.l.Lex()
		val := p.parseExpression()
		p.l.LexExpecting(EOS)
		return ast.Return{Value: val, Pos: p.span(from)}
	}

	to := p.parseExpression()
	p.l.LexExpecting(EQUALS)
	val := p.parseExpression()
	p.l.LexExpecting(EOS)
	return ast.Assign{To: to, Value: val, Pos: p.span(from)}
}

func (p *Parser) parsePattern() ast.Pattern {
	tok, lit := p.l.LexExpecting(UNDERSCORE, IDENT, INT, MINUS, TRUE, FALSE)

	switch tok.Kind {
	case UNDERSCORE:
		return ast.PWild{Pos: tok.Location}
	case IDENT:
		return ast.PSymbol{Name: ast.Symbol(lit), Pos: tok.Location}
	case MINUS:
		num, lit := p.l.LexExpecting(INT)
		n := p.parseInteger("-"+lit, Join(tok.Location, num.Location))
		return ast.PLiteral{Lit: ast.Lit{Literal: n, Pos: p.span(tok.Location.From)}}
	case INT:
		return ast.PLiteral{Lit: ast.Lit{Literal: p.parseInteger(lit, tok.Location), Pos: tok.Location}}
	}

	return ast.PLiteral{Lit: ast.Lit{Literal: ast.Boolean(tok.Kind == TRUE), Pos: tok.Location}}
}

func (p *Parser) parseInteger(lit string, at Span) ast.Integer {
	parsed, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		panic(errors.InvalidInteger{Text: lit, Location: at})
	}
	return ast.Integer(parsed)
}

func (p *Parser) parseExpression() ast.Expr {
	return p.parseOr()
}

func (p *Parser) binary(from Position, op ast.BinOp, lhs, rhs ast.Expr) ast.Expr {
	return ast.Binary{Op: op, Left: lhs, Right: rhs, Pos: p.span(from)}
}

func (p *Parser) parseOr() ast.Expr {
	from := p.pos()
	lhs := p.parseAnd()
	for p.l.PeekIs(OR) {
		p.l.Lex()
		lhs = p.binary(from, ast.Or, lhs, p.parseAnd())
	}
	return lhs
}

func (p *Parser) parseAnd() ast.Expr {
	from := p.pos()
	lhs := p.parseComparison()
	for p.l.PeekIs(AND) {
		p.l.Lex()
		lhs = p.binary(from, ast.And, lhs, p.parseComparison())
	}
	return lhs
}

var comparisons = map[TokenKind]ast.BinOp{
	EQ:  ast.Eq,
	NEQ: ast.Neq,
	LT:  ast.Lt,
	GT:  ast.Gt,
	LTE: ast.Lte,
	GTE: ast.Gte,
}

func (p *Parser) parseComparison() ast.Expr {
	from := p.pos()
	lhs := p.parseAdditive()
	tok, _ := p.l.Peek()
	if op, ok := comparisons[tok.Kind]; ok {
		p.l.Lex()
		return p.binary(from, op, lhs, p.parseAdditive())
	}
	return lhs
}

func (p *Parser) parseAdditive() ast.Expr {
	from := p.pos()
	lhs := p.parseMultiplicative()
	for p.l.PeekIs(PLUS, MINUS) {
		tok, _ := p.l.Lex()
		op := ast.Add
		if tok.Kind == MINUS {
			op = ast.Sub
		}
		lhs = p.binary(from, op, lhs, p.parseMultiplicative())
	}
	return lhs
}

func (p *Parser) parseMultiplicative() ast.Expr {
	from := p.pos()
	lhs := p.parseUnary()
	for p.l.PeekIs(STAR, SLASH) {
		tok, _ := p.l.Lex()
		op := ast.Mul
		if tok.Kind == SLASH {
			op = ast.Div
		}
		lhs = p.binary(from, op, lhs, p.parseUnary())
	}
	return lhs
}

var unaries = map[TokenKind]ast.UnOp{
	AMP:   ast.Ref,
	STAR:  ast.Deref,
	MINUS: ast.Negate,
}

func (p *Parser) parseUnary() ast.Expr {
	from := p.pos()
	tok, _ := p.l.Peek()
	if op, ok := unaries[tok.Kind]; ok {
		p.l.Lex()
		operand := p.parseUnary()
		return ast.Unary{Op: op, Operand: operand, Pos: p.span(from)}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expr {
	from := p.pos()
	expr := p.parsePrimary()
	for p.l.PeekIs(LBRACKET) {
		p.l.Lex()
		idx := p.parseExpression()
		p.l.LexExpecting(RBRACKET)
		expr = p.binary(from, ast.Proj, expr, idx)
	}
	return expr
}

func (p *Parser) parsePrimary() ast.Expr {
	tok, lit := p.l.LexExpecting(INT, TRUE, FALSE, IDENT, LPAREN)

	switch tok.Kind {
	case INT:
		return ast.Lit{Literal: p.parseInteger(lit, tok.Location), Pos: tok.Location}
	case TRUE, FALSE:
		return ast.Lit{Literal: ast.Boolean(tok.Kind == TRUE), Pos: tok.Location}
	case IDENT:
		if !p.l.PeekIs(LPAREN) {
			return ast.Var{Name: ast.Symbol(lit), Pos: tok.Location}
		}

		p.l.Lex()
		var args []ast.Expr
		if !p.l.PeekIs(RPAREN) {
			for {
				args = append(args, p.parseExpression())
				if p.l.PeekIs(COMMA) {
					p.l.Lex()
					continue
				}
				break
			}
		}
		p.l.LexExpecting(RPAREN)
		return ast.Call{Function: ast.Symbol(lit), Arguments: args, Pos: p.span(tok.Location.From)}
	}

	expr := p.parseExpression()
	p.l.LexExpecting(RPAREN)
	return expr
}
