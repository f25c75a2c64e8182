// Package sign interprets plaia programs over the signs of their integers.
// Results over-approximate: when a sign cannot be derived from the signs
// of the operands alone, the result is Unknown.
package sign

import (
	"fmt"
	"math"

	"github.com/pontaoski/plaia/ast"
	"github.com/pontaoski/plaia/errors"
	"github.com/pontaoski/plaia/machine"
)

type Sign int

const (
	Zero Sign = iota
	Pos
	Neg
	Unknown
	// Address marks a pointer. Addresses are kept exact.
	Address
)

// Value is an abstract integer, or an exact address when Sign is Address.
// The zero Value is Zero.
type Value struct {
	Sign Sign
	Addr machine.Addr
}

func Of(s Sign) Value {
	return Value{Sign: s}
}

func AddrOf(a machine.Addr) Value {
	return Value{Sign: Address, Addr: a}
}

// SignOf abstracts a concrete integer.
func SignOf(n int64) Sign {
	switch {
	case n > 0:
		return Pos
	case n < 0:
		return Neg
	}
	return Zero
}

// Contains reports whether the concrete integer n is described by v.
func (v Value) Contains(n int64) bool {
	return v.Sign == Unknown || v.Sign == SignOf(n)
}

func (s Sign) String() string {
	return [...]string{"0", "+", "-", "?", "&"}[s]
}

func (v Value) String() string {
	if v.Sign == Address {
		return fmt.Sprintf("&%d", int(v.Addr))
	}
	return v.Sign.String()
}

// Algebra implements machine.Algebra over signs. Integers are treated as
// unbounded: int64 overflow is not modelled, so Pos + Pos is Pos even for
// operands whose concrete sum wraps negative.
type Algebra struct{}

var _ machine.Algebra[Value] = Algebra{}

func (Algebra) Zero() Value {
	return Of(Zero)
}

func (Algebra) FromLit(lit ast.Lit) Value {
	switch l := lit.Literal.(type) {
	case ast.Integer:
		return Of(SignOf(int64(l)))
	case ast.Boolean:
		if l {
			return Of(Pos)
		}
		return Of(Zero)
	}
	panic("unhandled")
}

func (Algebra) FromAddr(a machine.Addr) Value {
	return AddrOf(a)
}

func (Algebra) ToAddr(v Value) (machine.Addr, error) {
	if v.Sign != Address {
		return 0, errors.TypeMismatch{Expected: "address", Got: "integer of sign " + v.Sign.String()}
	}
	return v.Addr, nil
}

func add(a, b Sign) Sign {
	switch {
	case a == Zero:
		return b
	case b == Zero:
		return a
	case a == b && a != Unknown:
		return a
	}
	return Unknown
}

func sub(a, b Sign) Sign {
	switch {
	case b == Zero:
		return a
	case b == Pos && (a == Zero || a == Neg):
		return Neg
	case b == Neg && (a == Zero || a == Pos):
		return Pos
	}
	return Unknown
}

func mul(a, b Sign) Sign {
	switch {
	case a == Zero || b == Zero:
		return Zero
	case a == Pos:
		return b
	case b == Pos:
		return a
	case a == Neg && b == Neg:
		return Pos
	}
	return Unknown
}

// div only knows that zero divided by anything non-zero stays zero:
// truncation sends every other quotient with a larger divisor to zero.
func div(a, b Sign) (Sign, error) {
	switch {
	case b == Zero:
		return Unknown, errors.DivisionByZero{}
	case b == Unknown:
		return Unknown, nil
	case a == Zero:
		return Zero, nil
	}
	return Unknown, nil
}

// bounds is the smallest interval containing every integer of sign s.
func bounds(s Sign) (lo, hi int64) {
	switch s {
	case Zero:
		return 0, 0
	case Pos:
		return 1, math.MaxInt64
	case Neg:
		return math.MinInt64, -1
	}
	return math.MinInt64, math.MaxInt64
}

// truth abstracts a boolean result: Pos when it is certainly true, Zero
// when it is certainly false.
func truth(certain, impossible bool) Sign {
	switch {
	case certain:
		return Pos
	case impossible:
		return Zero
	}
	return Unknown
}

func compare(op ast.BinOp, a, b Sign) Sign {
	alo, ahi := bounds(a)
	blo, bhi := bounds(b)

	switch op {
	case ast.Eq:
		return truth(alo == ahi && blo == bhi && alo == blo, ahi < blo || bhi < alo)
	case ast.Neq:
		return truth(ahi < blo || bhi < alo, alo == ahi && blo == bhi && alo == blo)
	case ast.Lt:
		return truth(ahi < blo, alo >= bhi)
	case ast.Gt:
		return truth(bhi < alo, blo >= ahi)
	case ast.Lte:
		return truth(ahi <= blo, alo > bhi)
	case ast.Gte:
		return truth(bhi <= alo, blo > ahi)
	}
	panic("unhandled")
}

// notOne reports whether an integer of sign s can never be the boolean true.
func notOne(s Sign) bool {
	return s == Zero || s == Neg
}

func (Algebra) Op(op ast.BinOp, v1, v2 Value) (Value, error) {
	if v1.Sign == Address || v2.Sign == Address {
		return Value{}, errors.TypeMismatch{Expected: "int", Got: "address"}
	}
	a, b := v1.Sign, v2.Sign

	switch op {
	case ast.Add:
		return Of(add(a, b)), nil
	case ast.Sub:
		return Of(sub(a, b)), nil
	case ast.Mul:
		return Of(mul(a, b)), nil
	case ast.Div:
		s, err := div(a, b)
		return Of(s), err
	case ast.Eq, ast.Neq, ast.Lt, ast.Gt, ast.Lte, ast.Gte:
		return Of(compare(op, a, b)), nil
	case ast.And:
		if notOne(a) || notOne(b) {
			return Of(Zero), nil
		}
		return Of(Unknown), nil
	case ast.Or:
		if notOne(a) && notOne(b) {
			return Of(Zero), nil
		}
		return Of(Unknown), nil
	case ast.Proj:
		return Of(Unknown), nil
	}
	panic("unhandled")
}

// Match follows the first arm that may match: a literal pattern matches
// every abstract value whose sign agrees with the literal's.
func (alg Algebra) Match(p ast.Pattern, v Value) (bool, error) {
	switch pat := p.(type) {
	case ast.PLiteral:
		if v.Sign == Address {
			return false, errors.TypeMismatch{Expected: "int", Got: "address"}
		}
		lit := alg.FromLit(pat.Lit)
		return v.Sign == Unknown || v.Sign == lit.Sign, nil
	case ast.PWild:
		return false, errors.UnsupportedPattern{Pattern: "wildcard"}
	case ast.PSymbol:
		return false, errors.UnsupportedPattern{Pattern: "binding"}
	}
	panic("unhandled")
}
