package concrete

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/repr"
	"github.com/pontaoski/plaia/ast"
	"github.com/pontaoski/plaia/errors"
	"github.com/pontaoski/plaia/machine"
	"github.com/pontaoski/plaia/parser"
	"github.com/ztrue/tracerr"
)

func module(t *testing.T, src string) *ast.Module {
	mod, err := parser.ParseModule(strings.NewReader(src), "test.plaia")
	if err != nil {
		t.Fatal(err)
	}
	return mod
}

func exec(t *testing.T, src string) *Machine {
	s, err := parser.ParseStatement(src)
	if err != nil {
		t.Fatal(err)
	}
	m := NewMachine(machine.Options{})
	if err := Exec(m, s, false); err != nil {
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

func TestEvalExpr(t *testing.T) {
	tests := []struct {
		src  string
		want Value
	}{
		{"3", Int(3)},
		{"true", Int(1)},
		{"false", Int(0)},
		{"7 / 2", Int(3)},
		{"-7 / 2", Int(-3)},
		{"1 + 2 * 3", Int(7)},
		{"2 - 5", Int(-3)},
		{"3 == 3", Int(1)},
		{"3 != 3", Int(0)},
		{"1 < 2", Int(1)},
		{"2 <= 1", Int(0)},
		{"2 > 1", Int(1)},
		{"2 >= 3", Int(0)},
		{"true && false", Int(0)},
		{"true || false", Int(1)},
		{"2 && 1", Int(0)},
		{"-(4)", Int(-4)},
	}

	for _, test := range tests {
		e, err := parser.ParseExpression(test.src)
		if err != nil {
			t.Fatal(err)
		}
		got, err := EvalExpr(e)
		if err != nil {
			t.Errorf("%s: %s", test.src, err)
			continue
		}
		if got != test.want {
			t.Errorf("%s = %s, want %s", test.src, got, test.want)
		}
	}
}

func TestEvalExprErrors(t *testing.T) {
	tests := []struct {
		src   string
		check func(error) bool
	}{
		{"1 / 0", func(err error) bool { _, ok := err.(errors.DivisionByZero); return ok }},
		{"1[0]", func(err error) bool { _, ok := err.(errors.TypeMismatch); return ok }},
		{"*1", func(err error) bool { _, ok := err.(errors.TypeMismatch); return ok }},
		{"x", func(err error) bool { _, ok := err.(errors.UnboundName); return ok }},
		{"f(1)", func(err error) bool { _, ok := err.(errors.UnknownFunction); return ok }},
	}

	for _, test := range tests {
		e, err := parser.ParseExpression(test.src)
		if err != nil {
			t.Fatal(err)
		}
		_, err = EvalExpr(e)
		if !test.check(tracerr.Unwrap(err)) {
			t.Errorf("%s: unexpected error %v", test.src, err)
		}
	}
}

func TestProjection(t *testing.T) {
	alg := Algebra{}

	tuple := Tuple{Int(1), Vector{Int(2)}}
	got, err := alg.Op(ast.Proj, tuple, Int(1))
	if err != nil || repr.String(got) != repr.String(Vector{Int(2)}) {
		t.Errorf("got %s, %v", got, err)
	}

	_, err = alg.Op(ast.Proj, Vector{Int(1)}, Int(1))
	if e, ok := err.(errors.IndexOutOfRange); !ok || e.Index != 1 || e.Length != 1 {
		t.Errorf("expected IndexOutOfRange, got %v", err)
	}
	_, err = alg.Op(ast.Proj, Vector{Int(1)}, Int(-1))
	if _, ok := err.(errors.IndexOutOfRange); !ok {
		t.Errorf("expected IndexOutOfRange, got %v", err)
	}
}

func TestPointerScenario(t *testing.T) {
	m := exec(t, "{ let x: int = 0; let p: int* = &x; *p = *p - 13; }")

	if got := lookup(t, m, "x"); got != Int(-13) {
		t.Errorf("x = %s", got)
	}
	if got := lookup(t, m, "p"); got != Addr(1) {
		t.Errorf("p = %s", got)
	}
}

func TestDeclareThenAssign(t *testing.T) {
	m := exec(t, "{let tres : u64 = 3;\nlet ncuatro : u64; ncuatro = 1;\n}")

	if got := lookup(t, m, "tres"); got != Int(3) {
		t.Errorf("tres = %s", got)
	}
	if got := lookup(t, m, "ncuatro"); got != Int(1) {
		t.Errorf("ncuatro = %s", got)
	}
}

func TestMainArguments(t *testing.T) {
	mod := module(t, "def main(args) = { let z: int = args[0] + args[1]; }")

	m, _, err := Run(mod, []string{"2", "3"}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got := lookup(t, m, "z"); got != Int(5) {
		t.Errorf("z = %s", got)
	}

	heap := m.Heap()
	if heap[0] != Int(0) || repr.String(heap[1]) != repr.String(Vector{Int(2), Int(3)}) {
		t.Errorf("unexpected heap %s", repr.String(heap))
	}
}

func TestBadArguments(t *testing.T) {
	mod := module(t, "def main(args) = {}")

	_, _, err := Run(mod, []string{"two"}, Options{})
	if _, ok := tracerr.Unwrap(err).(errors.TypeMismatch); !ok {
		t.Fatalf("expected TypeMismatch, got %v", err)
	}
}

func TestParameterFrame(t *testing.T) {
	mod := module(t, `
def f(a: int) = { let b: int = a; }
def main(args) = { let r: int = f(7); }
`)

	m, _, err := Run(mod, nil, Options{Trace: true})
	if err != nil {
		t.Fatal(err)
	}

	found := false
	for _, snap := range m.Trace() {
		if a, ok := snap.Store["a"]; ok {
			found = true
			if snap.Heap[a] != Int(7) {
				t.Errorf("a = %s", snap.Heap[a])
			}
			if _, ok := snap.Store["r"]; ok {
				t.Error("callee frame sees the caller's names")
			}
		}
	}
	if !found {
		t.Fatal("no snapshot was taken inside f")
	}
}

func TestRecursion(t *testing.T) {
	mod := module(t, `
def fact(n: int) = {
	if n == 0 { return 1; }
	return n * fact(n - 1);
}
def main(args) = return fact(args[0]);
`)

	_, v, err := Run(mod, []string{"10"}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if v != Int(3628800) {
		t.Errorf("fact(10) = %s", v)
	}
}

func TestStackOverflow(t *testing.T) {
	mod := module(t, `
def loop(n: int) = return loop(n + 1);
def main(args) = { let r: int = loop(0); }
`)

	m, _, err := Run(mod, nil, Options{Options: machine.Options{MaxDepth: 50}})
	e, ok := tracerr.Unwrap(err).(errors.StackOverflow)
	if !ok || e.Depth != 50 {
		t.Fatalf("expected StackOverflow, got %v", err)
	}
	if m.Depth() != 1 {
		t.Errorf("depth %d after overflow", m.Depth())
	}
}

func TestDeepStackOverflowIsCheap(t *testing.T) {
	src := "def f(n) = { return f(n); }\ndef main(args) = return f(1);"
	mod := module(t, src)

	start := time.Now()
	_, _, err := Run(mod, nil, Options{Options: machine.Options{MaxDepth: 5000}})
	if e, ok := tracerr.Unwrap(err).(errors.StackOverflow); !ok || e.Depth != 5000 {
		t.Fatalf("expected StackOverflow, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("reporting the overflow took %s", elapsed)
	}
	if e := tracerr.Unwrap(err).(errors.StackOverflow); e.Location.Slice(src) != "f(n)" {
		t.Errorf("overflow reported at %s", e.Location)
	}
}

func TestRedeclarationReadsNewCell(t *testing.T) {
	m := exec(t, "{ let x: int = 5; let x: int = x + 1; }")

	if got := lookup(t, m, "x"); got != Int(1) {
		t.Errorf("x = %s", got)
	}
}

func TestNoMain(t *testing.T) {
	_, _, err := Run(module(t, "let g: int;"), nil, Options{})
	if _, ok := tracerr.Unwrap(err).(errors.NoMainFunction); !ok {
		t.Fatalf("expected NoMainFunction, got %v", err)
	}
}

func TestDanglingCellsStayOnHeap(t *testing.T) {
	mod := module(t, `
def leak(a: int) = { let local: int = a * 2; return &local; }
def main(args) = { let p: int* = leak(21); let v: int = *p; }
`)

	m, _, err := Run(mod, nil, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got := lookup(t, m, "v"); got != Int(42) {
		t.Errorf("v = %s", got)
	}
}

func TestRunTrace(t *testing.T) {
	src := "def main(args) = {\n  let x: int = 0;\n  let p: int* = &x;\n  *p = 13;\n}"

	m, _, err := Run(module(t, src), nil, Options{Trace: true})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := PrintTrace(&buf, m, src); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "Trace:\n") {
		t.Errorf("unexpected header:\n%s", out)
	}
	for _, want := range []string{"\tp => &3\n\tx => 13\n", "*p = 13;\n", "let p: int* = &x;\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("trace output misses %q:\n%s", want, out)
		}
	}
}
