package parser

import (
	"strings"
	"testing"

	"github.com/alecthomas/repr"
	"github.com/pontaoski/plaia/ast"
	"github.com/pontaoski/plaia/errors"
	"github.com/ztrue/tracerr"
)

func TestParseLiteral(t *testing.T) {
	e, err := ParseExpression("3")
	if err != nil {
		t.Fatal(err)
	}
	lit, ok := e.(ast.Lit)
	if !ok || lit.Literal != ast.Integer(3) {
		t.Fatalf("got %s", repr.String(e))
	}
}

func TestParsePrecedence(t *testing.T) {
	e, err := ParseExpression("f(1, 2, 3) + 4*6")
	if err != nil {
		t.Fatal(err)
	}

	add, ok := e.(ast.Binary)
	if !ok || add.Op != ast.Add {
		t.Fatalf("expected an addition, got %s", repr.String(e))
	}
	call, ok := add.Left.(ast.Call)
	if !ok || call.Function != "f" || len(call.Arguments) != 3 {
		t.Errorf("unexpected left operand %s", repr.String(add.Left))
	}
	if mul, ok := add.Right.(ast.Binary); !ok || mul.Op != ast.Mul {
		t.Errorf("unexpected right operand %s", repr.String(add.Right))
	}
}

func TestParseOperators(t *testing.T) {
	tests := []struct {
		src string
		op  ast.BinOp
	}{
		{"a || b && c", ast.Or},
		{"a && b == c", ast.And},
		{"a + 1 < b * 2", ast.Lt},
		{"a - b - c", ast.Sub},
		{"args[0] + args[1]", ast.Add},
		{"v[1][2]", ast.Proj},
		{"a >= b", ast.Gte},
		{"a != b", ast.Neq},
	}

	for _, test := range tests {
		e, err := ParseExpression(test.src)
		if err != nil {
			t.Errorf("%s: %s", test.src, err)
			continue
		}
		if b, ok := e.(ast.Binary); !ok || b.Op != test.op {
			t.Errorf("%s: got %s", test.src, repr.String(e))
		}
	}
}

func TestParseLeftAssociative(t *testing.T) {
	e, err := ParseExpression("a - b - c")
	if err != nil {
		t.Fatal(err)
	}
	outer := e.(ast.Binary)
	if _, ok := outer.Left.(ast.Binary); !ok {
		t.Errorf("expected (a - b) - c, got %s", repr.String(e))
	}
}

func TestParseUnary(t *testing.T) {
	e, err := ParseExpression("*p - -13")
	if err != nil {
		t.Fatal(err)
	}
	sub := e.(ast.Binary)
	if u, ok := sub.Left.(ast.Unary); !ok || u.Op != ast.Deref {
		t.Errorf("expected a dereference, got %s", repr.String(sub.Left))
	}
	if u, ok := sub.Right.(ast.Unary); !ok || u.Op != ast.Negate {
		t.Errorf("expected a negation, got %s", repr.String(sub.Right))
	}
}

func TestParseBlock(t *testing.T) {
	src := "{ let x: int = 0; let p: int* = &x; *p = *p - 13; let q: u64; }"
	s, err := ParseStatement(src)
	if err != nil {
		t.Fatal(err)
	}

	block := s.(ast.Block)
	if len(block.Stmts) != 4 {
		t.Fatalf("expected 4 statements, got %d", len(block.Stmts))
	}

	decl := block.Stmts[1].(ast.VarDecl)
	if decl.Bind.Name != "p" || ast.TypeString(decl.Bind.Type) != "int*" {
		t.Errorf("unexpected declaration %s", repr.String(decl))
	}
	if got := decl.Pos.Slice(src); got != "let p: int* = &x;" {
		t.Errorf("declaration spans %q", got)
	}

	assign := block.Stmts[2].(ast.Assign)
	if u, ok := assign.To.(ast.Unary); !ok || u.Op != ast.Deref {
		t.Errorf("unexpected assignment target %s", repr.String(assign.To))
	}

	if empty := block.Stmts[3].(ast.VarDecl); empty.Init != nil {
		t.Errorf("expected no initializer, got %s", repr.String(empty.Init))
	}
}

func TestParseTypes(t *testing.T) {
	tests := []string{"int", "bool", "u64**", "(int, bool)", "[int]", "[(i64, bool*)]*"}
	for _, src := range tests {
		s, err := ParseStatement("let x: " + src + ";")
		if err != nil {
			t.Errorf("%s: %s", src, err)
			continue
		}
		if got := ast.TypeString(s.(ast.VarDecl).Bind.Type); got != src {
			t.Errorf("got %s, want %s", got, src)
		}
	}
}

func TestParseIf(t *testing.T) {
	s, err := ParseStatement("if x == 1 { y = 2; }")
	if err != nil {
		t.Fatal(err)
	}

	c, ok := s.(ast.Case)
	if !ok || len(c.Arms) != 1 {
		t.Fatalf("expected a single-arm case, got %s", repr.String(s))
	}
	pat, ok := c.Arms[0].Pattern.(ast.PLiteral)
	if !ok || pat.Lit.Literal != ast.Boolean(true) {
		t.Errorf("expected a literal true pattern, got %s", repr.String(c.Arms[0].Pattern))
	}
}

func TestParseCase(t *testing.T) {
	s, err := ParseStatement("case n { 0 => r = 1;, -1 => { r = 2; } true => {} x => {} _ => {} }")
	if err != nil {
		t.Fatal(err)
	}

	c := s.(ast.Case)
	if len(c.Arms) != 5 {
		t.Fatalf("expected 5 arms, got %d", len(c.Arms))
	}
	if pat := c.Arms[1].Pattern.(ast.PLiteral); pat.Lit.Literal != ast.Integer(-1) {
		t.Errorf("expected -1, got %s", repr.String(pat))
	}
	if _, ok := c.Arms[3].Pattern.(ast.PSymbol); !ok {
		t.Errorf("expected a binding pattern")
	}
	if _, ok := c.Arms[4].Pattern.(ast.PWild); !ok {
		t.Errorf("expected a wildcard pattern")
	}
}

func TestParseModule(t *testing.T) {
	src := `
let counter: int;

def add(a: int, b: int) = return a + b;

def main(args) = {
	let z: int = add(args[0], args[1]);
}
`
	m, err := ParseModule(strings.NewReader(src), "test.plaia")
	if err != nil {
		t.Fatal(err)
	}

	if len(m.Globals) != 1 || m.Globals[0].Name != "counter" {
		t.Errorf("unexpected globals %s", repr.String(m.Globals))
	}
	if len(m.Functions) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(m.Functions))
	}
	if got := m.Functions[0].String(); got != "def add(a: int, b: int)" {
		t.Errorf("got %s", got)
	}
	main := m.Functions[1]
	if main.Name != "main" || main.Params[0].Type != nil {
		t.Errorf("unexpected main %s", repr.String(main))
	}
	if main.Pos.From.Filename != "test.plaia" || main.Pos.From.Line != 6 {
		t.Errorf("unexpected position %s", main.Pos)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src        string
		incomplete bool
	}{
		{"{ let x: int = ", true},
		{"if x", true},
		{"let x: int = 1 1;", false},
		{"x + 1;", false},
	}

	for _, test := range tests {
		_, err := ParseStatement(test.src)
		if err == nil {
			t.Errorf("%q: expected an error", test.src)
			continue
		}
		if IsIncomplete(err) != test.incomplete {
			t.Errorf("%q: IsIncomplete = %v for %s", test.src, !test.incomplete, err)
		}
	}
}

func TestParseUnknownType(t *testing.T) {
	_, err := ParseStatement("let x: string;")
	if _, ok := tracerr.Unwrap(err).(errors.UnknownType); !ok {
		t.Fatalf("expected UnknownType, got %v", err)
	}
}
