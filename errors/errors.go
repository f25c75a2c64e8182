// Package errors defines every failure the parser and evaluator report.
// Each error remembers the source span it was raised at.
package errors

import (
	"fmt"

	"github.com/pontaoski/plaia/types"
	"github.com/ztrue/tracerr"
)

type ExpectedOneOfKindGotKind struct {
	Expected []types.TokenKind
	Got      types.TokenKind
	Location types.Span
}

func (e ExpectedOneOfKindGotKind) Error() string {
	return fmt.Sprintf("got a %s, expected one of %s. %s", e.Got, e.Expected, e.Location)
}

type UnexpectedCharacter struct {
	Char     rune
	Location types.Span
}

func (e UnexpectedCharacter) Error() string {
	return fmt.Sprintf("unexpected character %q. %s", e.Char, e.Location)
}

type InvalidInteger struct {
	Text     string
	Location types.Span
}

func (e InvalidInteger) Error() string {
	return fmt.Sprintf("invalid integer literal %s. %s", e.Text, e.Location)
}

type UnknownType struct {
	Name     string
	Location types.Span
}

func (e UnknownType) Error() string {
	return fmt.Sprintf("unknown type %s. %s", e.Name, e.Location)
}

type UnboundName struct {
	Name     string
	Location types.Span
}

func (e UnboundName) Error() string {
	return fmt.Sprintf("name %s is not bound in the current frame. %s", e.Name, e.Location)
}

type InvalidLocation struct {
	Address  int
	Location types.Span
}

func (e InvalidLocation) Error() string {
	return fmt.Sprintf("heap address %d is out of range. %s", e.Address, e.Location)
}

type TypeMismatch struct {
	Expected string
	Got      string
	Location types.Span
}

func (e TypeMismatch) Error() string {
	return fmt.Sprintf("expected %s, got %s. %s", e.Expected, e.Got, e.Location)
}

type InvalidLValue struct {
	Expr     string
	Location types.Span
}

func (e InvalidLValue) Error() string {
	return fmt.Sprintf("%s is not assignable. %s", e.Expr, e.Location)
}

type UnknownFunction struct {
	Name     string
	Location types.Span
}

func (e UnknownFunction) Error() string {
	return fmt.Sprintf("function %s is not declared. %s", e.Name, e.Location)
}

type ArityMismatch struct {
	Function string
	Expected int
	Got      int
	Location types.Span
}

func (e ArityMismatch) Error() string {
	return fmt.Sprintf("function %s takes %d arguments, got %d. %s", e.Function, e.Expected, e.Got, e.Location)
}

type DivisionByZero struct {
	Location types.Span
}

func (e DivisionByZero) Error() string {
	return fmt.Sprintf("division by zero. %s", e.Location)
}

type IndexOutOfRange struct {
	Index    int64
	Length   int
	Location types.Span
}

func (e IndexOutOfRange) Error() string {
	return fmt.Sprintf("index %d out of range for length %d. %s", e.Index, e.Length, e.Location)
}

type StackOverflow struct {
	Depth    int
	Location types.Span
}

func (e StackOverflow) Error() string {
	return fmt.Sprintf("call depth exceeded %d frames. %s", e.Depth, e.Location)
}

type NoMainFunction struct {
	Location types.Span
}

func (e NoMainFunction) Error() string {
	return fmt.Sprintf("no main function. %s", e.Location)
}

// UnsupportedPattern is raised for wildcard and binding patterns, which
// parse but have no evaluation rule yet.
type UnsupportedPattern struct {
	Pattern  string
	Location types.Span
}

func (e UnsupportedPattern) Error() string {
	return fmt.Sprintf("%s patterns cannot be matched yet. %s", e.Pattern, e.Location)
}

type locatable interface {
	locate(types.Span) error
}

func (e UnboundName) locate(s types.Span) error        { e.Location = first(e.Location, s); return e }
func (e InvalidLocation) locate(s types.Span) error    { e.Location = first(e.Location, s); return e }
func (e TypeMismatch) locate(s types.Span) error       { e.Location = first(e.Location, s); return e }
func (e InvalidLValue) locate(s types.Span) error      { e.Location = first(e.Location, s); return e }
func (e UnknownFunction) locate(s types.Span) error    { e.Location = first(e.Location, s); return e }
func (e ArityMismatch) locate(s types.Span) error      { e.Location = first(e.Location, s); return e }
func (e DivisionByZero) locate(s types.Span) error     { e.Location = first(e.Location, s); return e }
func (e IndexOutOfRange) locate(s types.Span) error    { e.Location = first(e.Location, s); return e }
func (e StackOverflow) locate(s types.Span) error      { e.Location = first(e.Location, s); return e }
func (e NoMainFunction) locate(s types.Span) error     { e.Location = first(e.Location, s); return e }
func (e UnsupportedPattern) locate(s types.Span) error { e.Location = first(e.Location, s); return e }

func first(cur, s types.Span) types.Span {
	if cur.IsZero() {
		return s
	}
	return cur
}

// At stamps err with the span it surfaced at. An error that already has a
// span keeps it. At does not capture a stack; entry points call Wrap.
func At(err error, s types.Span) error {
	if err == nil {
		return nil
	}
	if l, ok := err.(locatable); ok {
		return l.locate(s)
	}
	return err
}

// Wrap attaches a stack trace to err unless it already carries one.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	return tracerr.Wrap(err)
}
