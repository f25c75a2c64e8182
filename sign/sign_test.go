package sign

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pontaoski/plaia/ast"
	"github.com/pontaoski/plaia/concrete"
	"github.com/pontaoski/plaia/errors"
	"github.com/pontaoski/plaia/machine"
	"github.com/pontaoski/plaia/parser"
	"github.com/ztrue/tracerr"
)

var operators = []ast.BinOp{
	ast.Add, ast.Sub, ast.Mul, ast.Div,
	ast.Eq, ast.Neq, ast.Lt, ast.Gt, ast.Lte, ast.Gte,
	ast.And, ast.Or,
}

// samples stay small enough that no operator overflows int64.
func samples() []int64 {
	ns := []int64{-1 << 30, -1 << 20}
	for n := int64(-5); n <= 5; n++ {
		ns = append(ns, n)
	}
	return append(ns, 1<<20, 1<<30)
}

// Every concrete result has to be described by the abstract result of the
// operands' signs.
func TestSoundness(t *testing.T) {
	var exact concrete.Algebra
	var abstract Algebra

	for _, op := range operators {
		for _, m := range samples() {
			for _, n := range samples() {
				if op == ast.Div && n == 0 {
					continue
				}
				want, err := exact.Op(op, concrete.Int(m), concrete.Int(n))
				if err != nil {
					t.Fatal(err)
				}
				got, err := abstract.Op(op, Of(SignOf(m)), Of(SignOf(n)))
				if err != nil {
					t.Fatalf("%d %s %d: %s", m, op, n, err)
				}
				if !got.Contains(int64(want.(concrete.Int))) {
					t.Errorf("%d %s %d = %s, abstracted as %s", m, op, n, want, got)
				}
			}
		}
	}
}

func TestUnknownAbsorbs(t *testing.T) {
	var abstract Algebra
	for _, op := range []ast.BinOp{ast.Add, ast.Sub, ast.Div} {
		got, err := abstract.Op(op, Of(Pos), Of(Unknown))
		if err != nil {
			t.Fatal(err)
		}
		if got.Sign != Unknown {
			t.Errorf("+ %s ? = %s", op, got)
		}
	}

	got, _ := abstract.Op(ast.Mul, Of(Zero), Of(Unknown))
	if got.Sign != Zero {
		t.Errorf("0 * ? = %s", got)
	}
}

func TestAnalyzeExpr(t *testing.T) {
	tests := []struct {
		src  string
		want Sign
	}{
		{"0", Zero},
		{"13", Pos},
		{"-13", Neg},
		{"true", Pos},
		{"false", Zero},
		{"3 + 4", Pos},
		{"3 - 4", Unknown},
		{"0 - 4", Neg},
		{"-3 * -4", Pos},
		{"3 * -4", Neg},
		{"3 / 4", Unknown},
		{"0 / 4", Zero},
		{"1 < 2", Unknown},
		{"0 < 2", Pos},
		{"-1 >= 2", Zero},
		{"0 == 0", Pos},
		{"-1 == 1", Zero},
		{"false && 5 > 3", Zero},
	}

	for _, test := range tests {
		e, err := parser.ParseExpression(test.src)
		if err != nil {
			t.Fatal(err)
		}
		got, err := AnalyzeExpr(e)
		if err != nil {
			t.Errorf("%s: %s", test.src, err)
			continue
		}
		if got.Sign != test.want {
			t.Errorf("%s = %s, want %s", test.src, got, test.want)
		}
	}
}

func TestDefiniteDivisionByZero(t *testing.T) {
	e, err := parser.ParseExpression("5 / (3 - 3)")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := AnalyzeExpr(e); err != nil {
		t.Errorf("an unknown divisor is not an error: %s", err)
	}

	e, err = parser.ParseExpression("5 / 0")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := AnalyzeExpr(e); !isDivisionByZero(err) {
		t.Errorf("expected DivisionByZero, got %v", err)
	}
}

func isDivisionByZero(err error) bool {
	_, ok := tracerr.Unwrap(err).(errors.DivisionByZero)
	return ok
}

func analyze(t *testing.T, src string) *Machine {
	mod, err := parser.ParseModule(strings.NewReader(src), "test.plaia")
	if err != nil {
		t.Fatal(err)
	}
	m, _, err := Analyze(mod, Options{Trace: true})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func lookup(t *testing.T, m *Machine, name ast.Symbol) Value {
	v, err := m.Lookup(name)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestPointers(t *testing.T) {
	m := analyze(t, `
def main(args) = {
	let x: int = 0;
	let px: int* = &x;
	*px = 13;
	let y: int = 0;
	let py: int* = &y;
	*py = *py - 13;
}
`)

	if got := lookup(t, m, "x"); got.Sign != Pos {
		t.Errorf("x = %s", got)
	}
	if got := lookup(t, m, "y"); got.Sign != Neg {
		t.Errorf("y = %s", got)
	}
	if got := lookup(t, m, "px"); got != AddrOf(2) {
		t.Errorf("px = %s", got)
	}
}

func TestArgumentsAreUnknown(t *testing.T) {
	m := analyze(t, "def main(args) = { let n: int = args[0]; let sq: int = n * n; }")

	if got := lookup(t, m, "n"); got.Sign != Unknown {
		t.Errorf("n = %s", got)
	}
	if got := lookup(t, m, "sq"); got.Sign != Unknown {
		t.Errorf("sq = %s", got)
	}
}

func TestCaseMayMatch(t *testing.T) {
	m := analyze(t, `
def main(args) = {
	let a: int = 0;
	let b: int = 0;
	case 7 {
		0 => a = 1;
		3 => a = -1;
	}
	case args[0] {
		-2 => b = -1;
		5 => b = 1;
	}
}
`)

	// 7 is positive, so the arm for 3 may match and is taken.
	if got := lookup(t, m, "a"); got.Sign != Neg {
		t.Errorf("a = %s", got)
	}
	// anything may match an unknown discriminant: the first arm wins.
	if got := lookup(t, m, "b"); got.Sign != Neg {
		t.Errorf("b = %s", got)
	}
}

func TestAddressArithmetic(t *testing.T) {
	mod, err := parser.ParseModule(strings.NewReader(
		"def main(args) = { let x: int; let y: int = &x + 1; }"), "test.plaia")
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = Analyze(mod, Options{})
	if _, ok := tracerr.Unwrap(err).(errors.TypeMismatch); !ok {
		t.Fatalf("expected TypeMismatch, got %v", err)
	}
}

func TestRecursiveCallsAreBounded(t *testing.T) {
	mod, err := parser.ParseModule(strings.NewReader(`
def down(n: int) = {
	if n > 0 { return down(n - 1); }
	return 0;
}
def main(args) = return down(3);
`), "test.plaia")
	if err != nil {
		t.Fatal(err)
	}

	// n - 1 of a positive n is unknown, so the guard never becomes false.
	_, _, err = Analyze(mod, Options{Options: machine.Options{MaxDepth: 30}})
	if _, ok := tracerr.Unwrap(err).(errors.StackOverflow); !ok {
		t.Fatalf("expected StackOverflow, got %v", err)
	}
}

func TestPrintTrace(t *testing.T) {
	src := "def main(args) = {\n  let x: int = -4;\n}"
	m := analyze(t, src)

	var buf bytes.Buffer
	if err := PrintTrace(&buf, m, src); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\tx => -\n") {
		t.Errorf("unexpected trace:\n%s", buf.String())
	}
}
