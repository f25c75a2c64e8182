package main

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
)

const divideSymbol = "_plaia_div"

// addEntryPoint defines the C-callable @main, which runs the program's
// entry function and exits with its result.
func addEntryPoint(m *ir.Module, entry *ir.Func) *ir.Func {
	opening := m.NewFunc("main", Int32.Type)
	bloc := opening.NewBlock("_entry")

	result := bloc.NewCall(entry)
	bloc.NewRet(bloc.NewTrunc(result, Int32.Type))
	return opening
}

// addDivide defines the division every `/` lowers to. It traps on a zero
// divisor, where the interpreter reports DivisionByZero, and wraps
// MinInt64 / -1 the way the interpreter's int64 division does; sdiv leaves
// both undefined.
func addDivide(m *ir.Module) *ir.Func {
	trap := m.NewFunc("llvm.trap", types.Void)

	fn := m.NewFunc(divideSymbol, Int64.Type,
		ir.NewParam("a", Int64.Type),
		ir.NewParam("b", Int64.Type),
	)
	a, b := fn.Params[0], fn.Params[1]

	entry := fn.NewBlock("entry")
	zero := fn.NewBlock("zero")
	check := fn.NewBlock("check")
	negate := fn.NewBlock("negate")
	divide := fn.NewBlock("divide")

	entry.NewCondBr(entry.NewICmp(enum.IPredEQ, b, constant.NewInt(types.I64, 0)), zero, check)

	zero.NewCall(trap)
	zero.NewUnreachable()

	check.NewCondBr(check.NewICmp(enum.IPredEQ, b, constant.NewInt(types.I64, -1)), negate, divide)

	negate.NewRet(negate.NewSub(constant.NewInt(types.I64, 0), a))

	divide.NewRet(divide.NewSDiv(a, b))
	return fn
}
