// Package ast holds the abstract syntax of plaia programs. Nodes are built
// once by the parser and never mutated afterwards.
package ast

//go:generate sh -c "cd ../tool && go run . ../ast/nodes.adt ../ast/nodes_gen.go ast"

import "github.com/pontaoski/plaia/types"

// Symbol is a variable or function name. Two symbols are the same name
// exactly when their strings are equal.
type Symbol string

func (s Symbol) String() string {
	return string(s)
}

// Node is implemented by every syntax node that remembers where it came from.
type Node interface {
	Span() types.Span
}

// SpanOf returns the source span of n, or the zero span for nodes that do
// not carry one.
func SpanOf(n interface{}) types.Span {
	if node, ok := n.(Node); ok {
		return node.Span()
	}
	return types.Span{}
}

type TInt struct {
	Name string
}

type TBool struct{}

type TPtr struct {
	Elem Type
}

type TTuple []Type

type TVector struct {
	Elem Type
}

type Integer int64
type Boolean bool

type UnOp int

const (
	Ref UnOp = iota
	Deref
	Negate
)

func (o UnOp) String() string {
	return [...]string{"&", "*", "-"}[o]
}

type BinOp int

const (
	Add BinOp = iota
	Sub
	Mul
	Div

	Eq
	Neq
	Gt
	Lt
	Gte
	Lte

	And
	Or

	Proj
)

func (o BinOp) String() string {
	return [...]string{"+", "-", "*", "/", "==", "!=", ">", "<", ">=", "<=", "&&", "||", "[]"}[o]
}

type Lit struct {
	Literal
	Pos types.Span
}

type Var struct {
	Name Symbol
	Pos  types.Span
}

type Unary struct {
	Op      UnOp
	Operand Expr
	Pos     types.Span
}

type Binary struct {
	Op    BinOp
	Left  Expr
	Right Expr
	Pos   types.Span
}

type Call struct {
	Function  Symbol
	Arguments []Expr
	Pos       types.Span
}

type PWild struct {
	Pos types.Span
}

type PSymbol struct {
	Name Symbol
	Pos  types.Span
}

type PLiteral struct {
	Lit Lit
}

// TypeBind is a name with its declared type. The type may be nil for
// parameters written without an annotation.
type TypeBind struct {
	Name Symbol
	Type Type
	Pos  types.Span
}

// VarDecl declares Bind in the current frame. Init is nil when the
// declaration has no initializer.
type VarDecl struct {
	Bind TypeBind
	Init Expr
	Pos  types.Span
}

type Assign struct {
	To    Expr
	Value Expr
	Pos   types.Span
}

type Block struct {
	Stmts []Stmt
	Pos   types.Span
}

type CaseArm struct {
	Pattern Pattern
	Body    Stmt
	Pos     types.Span
}

type Case struct {
	Discriminant Expr
	Arms         []CaseArm
	Pos          types.Span
}

type Return struct {
	Value Expr
	Pos   types.Span
}

// If is sugar for a case with a single arm matching the literal true.
func If(cond Expr, then Stmt, pos types.Span) Case {
	tt := PLiteral{Lit{Boolean(true), SpanOf(then)}}
	return Case{
		Discriminant: cond,
		Arms:         []CaseArm{{Pattern: tt, Body: then, Pos: SpanOf(then)}},
		Pos:          pos,
	}
}

type FnDecl struct {
	Name   Symbol
	Params []TypeBind
	Body   Stmt
	Pos    types.Span
}

type Module struct {
	Globals   []TypeBind
	Functions []*FnDecl
	Pos       types.Span
}

func (v Lit) Span() types.Span      { return v.Pos }
func (v Var) Span() types.Span      { return v.Pos }
func (v Unary) Span() types.Span    { return v.Pos }
func (v Binary) Span() types.Span   { return v.Pos }
func (v Call) Span() types.Span     { return v.Pos }
func (v PWild) Span() types.Span    { return v.Pos }
func (v PSymbol) Span() types.Span  { return v.Pos }
func (v PLiteral) Span() types.Span { return v.Lit.Pos }
func (v TypeBind) Span() types.Span { return v.Pos }
func (v VarDecl) Span() types.Span  { return v.Pos }
func (v Assign) Span() types.Span   { return v.Pos }
func (v Block) Span() types.Span    { return v.Pos }
func (v CaseArm) Span() types.Span  { return v.Pos }
func (v Case) Span() types.Span     { return v.Pos }
func (v Return) Span() types.Span   { return v.Pos }
func (v *FnDecl) Span() types.Span  { return v.Pos }
func (v *Module) Span() types.Span  { return v.Pos }
