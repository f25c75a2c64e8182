package concrete

import (
	"io"
	"strconv"

	"github.com/pontaoski/plaia/ast"
	"github.com/pontaoski/plaia/errors"
	"github.com/pontaoski/plaia/eval"
	"github.com/pontaoski/plaia/machine"
)

type Machine = machine.Machine[Value]

type Options struct {
	machine.Options
	// Trace records a snapshot before every statement.
	Trace bool
}

func NewMachine(opts machine.Options) *Machine {
	return machine.New[Value](Algebra{}, opts)
}

// ParseArgs turns process arguments into the vector main receives.
func ParseArgs(args []string) (Value, error) {
	vec := make(Vector, 0, len(args))
	for _, arg := range args {
		n, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, errors.TypeMismatch{Expected: "integer argument", Got: strconv.Quote(arg)}
		}
		vec = append(vec, Int(n))
	}
	return vec, nil
}

func recursion(m *Machine, trace bool) eval.Recurse[Value, machine.Addr] {
	if trace {
		return m.Tracer()
	}
	return eval.Direct[Value, machine.Addr]{}
}

// Run executes mod from its main function. The machine is returned even
// when the run fails so its trace can still be inspected.
func Run(mod *ast.Module, args []string, opts Options) (*Machine, Value, error) {
	m := NewMachine(opts.Options)

	p, err := machine.Load(mod)
	if err != nil {
		return m, nil, err
	}
	argv, err := ParseArgs(args)
	if err != nil {
		return m, nil, errors.Wrap(errors.At(err, p.Main.Pos))
	}
	if err := m.Start(p, argv); err != nil {
		return m, nil, err
	}

	val, err := m.Run(p, recursion(m, opts.Trace))
	if opts.Trace {
		m.Record(p.Main.Pos)
	}
	return m, val, err
}

// Exec runs a lone statement in m's current frame, pushing an empty frame
// first when m has none. Like Run, s itself is not traced; a snapshot is
// taken after it instead.
func Exec(m *Machine, s ast.Stmt, trace bool) error {
	if m.Depth() == 0 {
		if err := m.PushFrame(nil); err != nil {
			return errors.Wrap(errors.At(err, ast.SpanOf(s)))
		}
	}

	_, err := eval.Stmt[Value, machine.Addr](m, s, recursion(m, trace))
	if trace {
		m.Record(ast.SpanOf(s))
	}
	return errors.Wrap(err)
}

// EvalExpr evaluates a closed expression on a fresh machine.
func EvalExpr(e ast.Expr) (Value, error) {
	m := NewMachine(machine.Options{})
	if err := m.PushFrame(nil); err != nil {
		return nil, errors.Wrap(err)
	}
	val, err := eval.Expr[Value, machine.Addr](m, e, eval.Direct[Value, machine.Addr]{})
	return val, errors.Wrap(err)
}

func PrintTrace(w io.Writer, m *Machine, src string) error {
	return machine.PrintTrace(w, m.Trace(), src)
}
