package main

import (
	"github.com/llir/llvm/ir/types"
	"github.com/pontaoski/plaia/ast"
	"github.com/pontaoski/plaia/errors"
)

// Booleans are stored as 0 or 1 in the integer type, like the interpreter
// does. Int32 is only used for the exit status.
var (
	Int64 = LLVMType{Type: types.I64}
	Int32 = LLVMType{Type: types.I32}
)

func codegenType(t ast.Type, at ast.Node) types.Type {
	switch kind := t.(type) {
	case nil:
		return Int64.Type
	case ast.TInt, ast.TBool:
		return Int64.Type
	case ast.TPtr:
		return types.NewPointer(codegenType(kind.Elem, at))
	}

	panic(errors.TypeMismatch{
		Expected: "int, bool or pointer",
		Got:      ast.TypeString(t),
		Location: at.Span(),
	})
}

func typeName(t types.Type) string {
	switch kind := t.(type) {
	case *types.IntType:
		return "int"
	case *types.PointerType:
		return typeName(kind.ElemType) + "*"
	}
	return t.String()
}
