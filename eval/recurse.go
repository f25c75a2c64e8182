package eval

import "github.com/pontaoski/plaia/ast"

// Recurse is how the rules in this package descend into subexpressions and
// substatements. Passing a different Recurse changes how evaluation
// proceeds (e.g. tracing every statement) without touching the rules.
type Recurse[V, L any] interface {
	Expr(d Domain[V, L], e ast.Expr) (V, error)
	Stmt(d Domain[V, L], s ast.Stmt) (Flow, error)
}

// Direct recurses straight back into the rules.
type Direct[V, L any] struct{}

func (rec Direct[V, L]) Expr(d Domain[V, L], e ast.Expr) (V, error) {
	return Expr[V, L](d, e, rec)
}

func (rec Direct[V, L]) Stmt(d Domain[V, L], s ast.Stmt) (Flow, error) {
	return Stmt[V, L](d, s, rec)
}

// Traced calls Before ahead of every statement, including the statements
// of called functions, then recurses like Direct.
type Traced[V, L any] struct {
	Before func(d Domain[V, L], s ast.Stmt)
}

func (rec Traced[V, L]) Expr(d Domain[V, L], e ast.Expr) (V, error) {
	return Expr[V, L](d, e, rec)
}

func (rec Traced[V, L]) Stmt(d Domain[V, L], s ast.Stmt) (Flow, error) {
	rec.Before(d, s)
	return Stmt[V, L](d, s, rec)
}
