// Package concrete runs plaia programs on exact integer, address, tuple
// and vector values.
package concrete

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pontaoski/plaia/ast"
	"github.com/pontaoski/plaia/errors"
	"github.com/pontaoski/plaia/machine"
)

type Value interface {
	is_Value()
	String() string
}

// Int also stands in for booleans: 1 is true and 0 is false.
type Int int64

func (v Int) is_Value() {}

type Addr machine.Addr

func (v Addr) is_Value() {}

type Tuple []Value

func (v Tuple) is_Value() {}

type Vector []Value

func (v Vector) is_Value() {}

func (v Int) String() string {
	return strconv.FormatInt(int64(v), 10)
}

func (v Addr) String() string {
	return fmt.Sprintf("&%d", int(v))
}

func join(vs []Value) string {
	var parts []string
	for _, v := range vs {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, ", ")
}

func (v Tuple) String() string {
	return "(" + join(v) + ")"
}

func (v Vector) String() string {
	return "[" + join(v) + "]"
}

func kindOf(v Value) string {
	switch v.(type) {
	case Int:
		return "int"
	case Addr:
		return "address"
	case Tuple:
		return "tuple"
	case Vector:
		return "vector"
	}
	return fmt.Sprintf("%T", v)
}

func bool2int(b bool) Int {
	if b {
		return 1
	}
	return 0
}

// IsTrue reports whether v is the boolean true.
func IsTrue(v Value) bool {
	return v == Int(1)
}

// Algebra gives plaia operators their exact meaning.
type Algebra struct{}

var _ machine.Algebra[Value] = Algebra{}

func (Algebra) Zero() Value {
	return Int(0)
}

func (Algebra) FromLit(lit ast.Lit) Value {
	switch l := lit.Literal.(type) {
	case ast.Integer:
		return Int(l)
	case ast.Boolean:
		return bool2int(bool(l))
	}
	panic("unhandled")
}

func (Algebra) FromAddr(a machine.Addr) Value {
	return Addr(a)
}

func (Algebra) ToAddr(v Value) (machine.Addr, error) {
	a, ok := v.(Addr)
	if !ok {
		return 0, errors.TypeMismatch{Expected: "address", Got: kindOf(v)}
	}
	return machine.Addr(a), nil
}

func project(vs []Value, idx Value) (Value, error) {
	i, ok := idx.(Int)
	if !ok {
		return nil, errors.TypeMismatch{Expected: "int", Got: kindOf(idx)}
	}
	if i < 0 || int64(i) >= int64(len(vs)) {
		return nil, errors.IndexOutOfRange{Index: int64(i), Length: len(vs)}
	}
	return vs[i], nil
}

func (Algebra) Op(op ast.BinOp, v1, v2 Value) (Value, error) {
	if op == ast.Proj {
		switch vs := v1.(type) {
		case Tuple:
			return project(vs, v2)
		case Vector:
			return project(vs, v2)
		}
		return nil, errors.TypeMismatch{Expected: "tuple or vector", Got: kindOf(v1)}
	}

	a, ok := v1.(Int)
	if !ok {
		return nil, errors.TypeMismatch{Expected: "int", Got: kindOf(v1)}
	}
	b, ok := v2.(Int)
	if !ok {
		return nil, errors.TypeMismatch{Expected: "int", Got: kindOf(v2)}
	}

	switch op {
	case ast.Add:
		return a + b, nil
	case ast.Sub:
		return a - b, nil
	case ast.Mul:
		return a * b, nil
	case ast.Div:
		if b == 0 {
			return nil, errors.DivisionByZero{}
		}
		return a / b, nil
	case ast.Eq:
		return bool2int(a == b), nil
	case ast.Neq:
		return bool2int(a != b), nil
	case ast.Lt:
		return bool2int(a < b), nil
	case ast.Gt:
		return bool2int(a > b), nil
	case ast.Lte:
		return bool2int(a <= b), nil
	case ast.Gte:
		return bool2int(a >= b), nil
	case ast.And:
		return bool2int(a == 1 && b == 1), nil
	case ast.Or:
		return bool2int(a == 1 || b == 1), nil
	}
	panic("unhandled")
}

// Match supports literal patterns only: the discriminant has to be equal
// to the literal.
func (alg Algebra) Match(p ast.Pattern, v Value) (bool, error) {
	switch pat := p.(type) {
	case ast.PLiteral:
		eq, err := alg.Op(ast.Eq, alg.FromLit(pat.Lit), v)
		if err != nil {
			return false, err
		}
		return IsTrue(eq), nil
	case ast.PWild:
		return false, errors.UnsupportedPattern{Pattern: "wildcard"}
	case ast.PSymbol:
		return false, errors.UnsupportedPattern{Pattern: "binding"}
	}
	panic("unhandled")
}
