// Package eval holds the evaluation rules of plaia, written once against
// the Domain interface so that concrete execution and abstract
// interpretation share them.
package eval

import "github.com/pontaoski/plaia/ast"

// Domain is what a value representation V with locations L has to provide
// to be evaluated. Errors returned by a Domain carry no span; the engine
// stamps them with the node being evaluated.
type Domain[V, L any] interface {
	// FindStore resolves a name in the current frame.
	FindStore(x ast.Symbol) (L, error)
	FindHeap(l L) (V, error)
	// Alloc reserves a fresh heap cell holding the zero value.
	Alloc() L
	UpdateStore(x ast.Symbol, l L)
	UpdateHeap(l L, v V) error

	// PushFrame makes a new frame current. Every binding gets a fresh heap
	// cell holding its value before the frame is pushed.
	PushFrame(bindings []Binding[V]) error
	// PopFrame leaves the current frame. Popping the last frame panics.
	PopFrame()
	// ReturnLoc is the cell the current function's result is written to.
	ReturnLoc() L

	Denote(op ast.BinOp, v1, v2 V) (V, error)
	InjVal(lit ast.Lit) V
	InjLoc(l L) V
	UnwrapPtr(v V) (L, error)
	DoMatch(p ast.Pattern, v V) (bool, error)
	FnDecl(name ast.Symbol) (*ast.FnDecl, error)
}

type Binding[V any] struct {
	Name  ast.Symbol
	Value V
}

// Flow reports how a statement finished.
type Flow int

const (
	// Next means execution continues with the following statement.
	Next Flow = iota
	// Returned means a return statement ran and the rest of the function
	// body is skipped.
	Returned
)
