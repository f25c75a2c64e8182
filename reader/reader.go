// Package reader extracts the embedded function table from LLVM IR files
// written by `plaia build`.
package reader

import (
	"bytes"

	"github.com/llir/llvm/asm"
	"github.com/llir/llvm/ir/constant"
	"github.com/ztrue/tracerr"
)

const TypeInfoSymbol = "__plaia_functions"

func ReadTypeInfo(from string) (string, error) {
	m, err := asm.ParseFile(from)
	if err != nil {
		return "", tracerr.Wrap(err)
	}

	for _, g := range m.Globals {
		if g.Name() != TypeInfoSymbol {
			continue
		}
		arr, ok := g.Init.(*constant.CharArray)
		if !ok {
			return "", tracerr.Errorf("%s: %s is not a character array", from, TypeInfoSymbol)
		}
		return string(bytes.TrimRight(arr.X, "\x00")), nil
	}

	return "", tracerr.Errorf("%s: no %s global", from, TypeInfoSymbol)
}
