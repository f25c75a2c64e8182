package machine

import (
	"github.com/pontaoski/plaia/ast"
	"github.com/pontaoski/plaia/errors"
	"github.com/pontaoski/plaia/eval"
)

// Entry is the name of the function a program starts in.
const Entry ast.Symbol = "main"

// Program is a module split into its entry point and the functions the
// entry point may call. The entry point itself is not callable.
type Program struct {
	Main      *ast.FnDecl
	Functions []*ast.FnDecl
	Globals   []ast.TypeBind
}

func Load(mod *ast.Module) (*Program, error) {
	p := &Program{Globals: mod.Globals}
	for _, fn := range mod.Functions {
		if fn.Name == Entry {
			p.Main = fn
			continue
		}
		p.Functions = append(p.Functions, fn)
	}

	if p.Main == nil {
		return nil, errors.Wrap(errors.At(errors.NoMainFunction{}, mod.Pos))
	}
	return p, nil
}

// Start pushes the entry frame. On a fresh machine the entry frame's
// return cell is address 0 and args lands at address 1. Globals are bound
// in the entry frame after the parameter.
func (m *Machine[V]) Start(p *Program, args V) error {
	m.Declare(p.Functions...)

	if len(p.Main.Params) != 1 {
		return errors.Wrap(errors.At(errors.ArityMismatch{
			Function: string(Entry),
			Expected: len(p.Main.Params),
			Got:      1,
		}, p.Main.Pos))
	}

	err := m.PushFrame([]eval.Binding[V]{{Name: p.Main.Params[0].Name, Value: args}})
	if err != nil {
		return errors.Wrap(errors.At(err, p.Main.Pos))
	}
	for _, global := range p.Globals {
		m.UpdateStore(global.Name, m.Alloc())
	}
	return nil
}

// Run executes the entry body of a started program and returns what it
// left in the entry frame's return cell. The body itself is run by the
// rules directly, so rec sees its statements but not the body as a whole.
func (m *Machine[V]) Run(p *Program, rec eval.Recurse[V, Addr]) (V, error) {
	if _, err := eval.Stmt[V, Addr](m, p.Main.Body, rec); err != nil {
		var none V
		return none, errors.Wrap(err)
	}
	val, err := m.FindHeap(m.ReturnLoc())
	return val, errors.Wrap(errors.At(err, p.Main.Pos))
}
