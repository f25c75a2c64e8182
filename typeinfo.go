package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/pontaoski/plaia/ast"
	"github.com/pontaoski/plaia/machine"
	"github.com/pontaoski/plaia/reader"
	"github.com/ztrue/tracerr"
)

type functionInfo struct {
	Signature string `json:"signature"`
	Arity     int    `json:"arity"`
	// Symbol is the name the function has in the emitted IR.
	Symbol string `json:"symbol"`
}

// functionTable is embedded in every built module so `plaia typeinfo` can
// list what a .ll file defines without the source at hand.
type functionTable struct {
	Package   string                  `json:"package,omitempty"`
	Functions map[string]functionInfo `json:"functions"`
}

func tableOf(pkg string, mod *ast.Module) functionTable {
	t := functionTable{Package: pkg, Functions: make(map[string]functionInfo, len(mod.Functions))}
	for _, fn := range mod.Functions {
		symbol := string(fn.Name)
		if fn.Name == machine.Entry {
			symbol = mainSymbol
		}
		t.Functions[string(fn.Name)] = functionInfo{
			Signature: fn.String(),
			Arity:     len(fn.Params),
			Symbol:    symbol,
		}
	}
	return t
}

// Names lists the functions of t in sorted order.
func (t functionTable) Names() []string {
	names := make([]string, 0, len(t.Functions))
	for name := range t.Functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func embedFunctionTable(t functionTable, m *ir.Module) error {
	data, err := json.Marshal(t)
	if err != nil {
		return tracerr.Wrap(err)
	}

	g := m.NewGlobalDef(reader.TypeInfoSymbol, constant.NewCharArray(append(data, 0)))
	g.Immutable = true
	return nil
}

func readFunctionTable(path string) (functionTable, error) {
	var t functionTable

	data, err := reader.ReadTypeInfo(path)
	if err != nil {
		return t, err
	}
	if err := json.Unmarshal([]byte(data), &t); err != nil {
		return t, tracerr.Errorf("%s: malformed function table: %s", path, err)
	}
	return t, nil
}

func printFunctionTable(w io.Writer, t functionTable) {
	if t.Package != "" {
		fmt.Fprintf(w, "package %s\n", t.Package)
	}
	for _, name := range t.Names() {
		fn := t.Functions[name]
		fmt.Fprintf(w, "\t%s => @%s\n", fn.Signature, fn.Symbol)
	}
}
