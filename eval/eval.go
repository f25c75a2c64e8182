package eval

import (
	"fmt"

	"github.com/pontaoski/plaia/ast"
	"github.com/pontaoski/plaia/errors"
)

var zeroLit = ast.Lit{Literal: ast.Integer(0)}

// Expr evaluates e. Operands are evaluated left to right, each exactly
// once; && and || do not short-circuit.
func Expr[V, L any](d Domain[V, L], e ast.Expr, r Recurse[V, L]) (V, error) {
	var none V

	switch expr := e.(type) {
	case ast.Lit:
		return d.InjVal(expr), nil
	case ast.Var:
		loc, err := d.FindStore(expr.Name)
		if err != nil {
			return none, errors.At(err, expr.Pos)
		}
		val, err := d.FindHeap(loc)
		return val, errors.At(err, expr.Pos)
	case ast.Unary:
		switch expr.Op {
		case ast.Ref:
			loc, err := LValue(d, expr.Operand, r)
			if err != nil {
				return none, err
			}
			return d.InjLoc(loc), nil
		case ast.Deref:
			ptr, err := r.Expr(d, expr.Operand)
			if err != nil {
				return none, err
			}
			loc, err := d.UnwrapPtr(ptr)
			if err != nil {
				return none, errors.At(err, expr.Pos)
			}
			val, err := d.FindHeap(loc)
			return val, errors.At(err, expr.Pos)
		case ast.Negate:
			val, err := r.Expr(d, expr.Operand)
			if err != nil {
				return none, err
			}
			neg, err := d.Denote(ast.Sub, d.InjVal(zeroLit), val)
			return neg, errors.At(err, expr.Pos)
		}
	case ast.Binary:
		lhs, err := r.Expr(d, expr.Left)
		if err != nil {
			return none, err
		}
		rhs, err := r.Expr(d, expr.Right)
		if err != nil {
			return none, err
		}
		val, err := d.Denote(expr.Op, lhs, rhs)
		return val, errors.At(err, expr.Pos)
	case ast.Call:
		return Call(d, expr, r)
	}

	panic(fmt.Sprintf("unhandled expression %T", e))
}

// LValue resolves e to the location it names. Only variables and
// dereferences are assignable.
func LValue[V, L any](d Domain[V, L], e ast.Expr, r Recurse[V, L]) (L, error) {
	var none L

	switch expr := e.(type) {
	case ast.Var:
		loc, err := d.FindStore(expr.Name)
		return loc, errors.At(err, expr.Pos)
	case ast.Unary:
		if expr.Op != ast.Deref {
			break
		}
		ptr, err := r.Expr(d, expr.Operand)
		if err != nil {
			return none, err
		}
		loc, err := d.UnwrapPtr(ptr)
		return loc, errors.At(err, expr.Pos)
	}

	return none, errors.At(errors.InvalidLValue{Expr: describe(e)}, ast.SpanOf(e))
}

func describe(e ast.Expr) string {
	switch expr := e.(type) {
	case ast.Lit:
		return "literal " + expr.String()
	case ast.Unary:
		return "unary " + expr.Op.String() + " expression"
	case ast.Binary:
		return "binary " + expr.Op.String() + " expression"
	case ast.Call:
		return "call of " + string(expr.Function)
	}
	return fmt.Sprintf("%T", e)
}

// Call evaluates the arguments, runs the callee's body in a fresh frame
// and reads the result from the frame's return cell.
func Call[V, L any](d Domain[V, L], call ast.Call, r Recurse[V, L]) (V, error) {
	var none V

	args := make([]V, 0, len(call.Arguments))
	for _, arg := range call.Arguments {
		val, err := r.Expr(d, arg)
		if err != nil {
			return none, err
		}
		args = append(args, val)
	}

	fn, err := d.FnDecl(call.Function)
	if err != nil {
		return none, errors.At(err, call.Pos)
	}
	if len(fn.Params) != len(args) {
		return none, errors.At(errors.ArityMismatch{
			Function: string(fn.Name),
			Expected: len(fn.Params),
			Got:      len(args),
		}, call.Pos)
	}

	bindings := make([]Binding[V], len(args))
	for i, param := range fn.Params {
		bindings[i] = Binding[V]{Name: param.Name, Value: args[i]}
	}
	if err := d.PushFrame(bindings); err != nil {
		return none, errors.At(err, call.Pos)
	}

	_, err = r.Stmt(d, fn.Body)
	ret := d.ReturnLoc()
	d.PopFrame()
	if err != nil {
		return none, err
	}

	val, err := d.FindHeap(ret)
	return val, errors.At(err, call.Pos)
}

// Stmt executes s. Blocks run their statements in order and stop early
// only when a return statement ran.
func Stmt[V, L any](d Domain[V, L], s ast.Stmt, r Recurse[V, L]) (Flow, error) {
	switch stmt := s.(type) {
	case ast.Block:
		for _, sub := range stmt.Stmts {
			flow, err := r.Stmt(d, sub)
			if err != nil || flow == Returned {
				return flow, err
			}
		}
		return Next, nil
	case ast.Assign:
		val, err := r.Expr(d, stmt.Value)
		if err != nil {
			return Next, err
		}
		loc, err := LValue(d, stmt.To, r)
		if err != nil {
			return Next, err
		}
		return Next, errors.At(d.UpdateHeap(loc, val), stmt.Pos)
	case ast.VarDecl:
		// The name is bound before the initializer runs, so in
		// `let x = x + 1` the initializer reads the new zero cell, not the
		// x being shadowed.
		loc := d.Alloc()
		d.UpdateStore(stmt.Bind.Name, loc)
		if stmt.Init == nil {
			return Next, nil
		}
		val, err := r.Expr(d, stmt.Init)
		if err != nil {
			return Next, err
		}
		return Next, errors.At(d.UpdateHeap(loc, val), stmt.Pos)
	case ast.Case:
		discr, err := r.Expr(d, stmt.Discriminant)
		if err != nil {
			return Next, err
		}
		for _, arm := range stmt.Arms {
			ok, err := d.DoMatch(arm.Pattern, discr)
			if err != nil {
				return Next, errors.At(err, ast.SpanOf(arm.Pattern))
			}
			if ok {
				return r.Stmt(d, arm.Body)
			}
		}
		return Next, nil
	case ast.Return:
		val, err := r.Expr(d, stmt.Value)
		if err != nil {
			return Next, err
		}
		if err := d.UpdateHeap(d.ReturnLoc(), val); err != nil {
			return Next, errors.At(err, stmt.Pos)
		}
		return Returned, nil
	}

	panic(fmt.Sprintf("unhandled statement %T", s))
}
