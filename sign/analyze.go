package sign

import (
	"io"

	"github.com/pontaoski/plaia/ast"
	"github.com/pontaoski/plaia/errors"
	"github.com/pontaoski/plaia/eval"
	"github.com/pontaoski/plaia/machine"
)

type Machine = machine.Machine[Value]

type Options struct {
	machine.Options
	Trace bool
}

func NewMachine(opts machine.Options) *Machine {
	return machine.New[Value](Algebra{}, opts)
}

// Analyze interprets mod from its main function over signs. The argument
// vector main receives is unknown.
func Analyze(mod *ast.Module, opts Options) (*Machine, Value, error) {
	m := NewMachine(opts.Options)

	p, err := machine.Load(mod)
	if err != nil {
		return m, Value{}, err
	}
	if err := m.Start(p, Of(Unknown)); err != nil {
		return m, Value{}, err
	}

	var rec eval.Recurse[Value, machine.Addr] = eval.Direct[Value, machine.Addr]{}
	if opts.Trace {
		rec = m.Tracer()
	}

	val, err := m.Run(p, rec)
	if opts.Trace {
		m.Record(p.Main.Pos)
	}
	return m, val, err
}

// AnalyzeExpr abstracts a closed expression.
func AnalyzeExpr(e ast.Expr) (Value, error) {
	m := NewMachine(machine.Options{})
	if err := m.PushFrame(nil); err != nil {
		return Value{}, errors.Wrap(err)
	}
	val, err := eval.Expr[Value, machine.Addr](m, e, eval.Direct[Value, machine.Addr]{})
	return val, errors.Wrap(err)
}

func PrintTrace(w io.Writer, m *Machine, src string) error {
	return machine.PrintTrace(w, m.Trace(), src)
}
