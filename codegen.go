package main

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/pontaoski/plaia/ast"
	"github.com/pontaoski/plaia/errors"
	"github.com/pontaoski/plaia/machine"
	"github.com/ztrue/tracerr"
)

// mainSymbol is what the entry function is called in the emitted module;
// the C-callable @main wraps it.
const mainSymbol = "_plaia_main"

type namedThing interface{ isNamedThing() }
type NamedThingImpl struct{}

func (n NamedThingImpl) isNamedThing() {}

// LLVMMutableValue is a stack slot: reading it loads, and &x yields it.
type LLVMMutableValue struct {
	NamedThingImpl
	value.Value
	elem types.Type
}
type LLVMValue struct {
	NamedThingImpl
	value.Value
}
type LLVMType struct {
	NamedThingImpl
	types.Type
}

// argVector stands for main's argument vector, which has no native
// representation.
type argVector struct {
	NamedThingImpl
}

type ctx struct {
	names                  []map[ast.Symbol]namedThing
	entry                  *ir.Func
	forwardDeclarationPass bool
	blocks                 int
	div                    *ir.Func
}

func (c *ctx) pushScope() {
	c.names = append(c.names, make(map[ast.Symbol]namedThing))
}

func (c *ctx) popScope() {
	c.names = c.names[:len(c.names)-1]
}

func (c *ctx) lookup(name ast.Symbol, at ast.Node) namedThing {
	for i := len(c.names) - 1; i >= 0; i-- {
		val, ok := c.names[i][name]
		if ok {
			return val
		}
	}

	panic(errors.UnboundName{Name: string(name), Location: at.Span()})
}

func (c *ctx) top() map[ast.Symbol]namedThing {
	return c.names[len(c.names)-1]
}

func (c *ctx) newBlock(b *ir.Block, kind string) *ir.Block {
	c.blocks++
	return b.Parent.NewBlock(fmt.Sprintf("%s%d", kind, c.blocks))
}

func expectType(want types.Type, v value.Value, at ast.Node) {
	if !want.Equal(v.Type()) {
		panic(errors.TypeMismatch{Expected: typeName(want), Got: typeName(v.Type()), Location: at.Span()})
	}
}

func widen(b *ir.Block, cond value.Value) value.Value {
	return b.NewZExt(cond, Int64.Type)
}

func isTrue(b *ir.Block, v value.Value) value.Value {
	return b.NewICmp(enum.IPredEQ, v, constant.NewInt(types.I64, 1))
}

var predicates = map[ast.BinOp]enum.IPred{
	ast.Eq:  enum.IPredEQ,
	ast.Neq: enum.IPredNE,
	ast.Lt:  enum.IPredSLT,
	ast.Gt:  enum.IPredSGT,
	ast.Lte: enum.IPredSLE,
	ast.Gte: enum.IPredSGE,
}

func codegenLValue(c *ctx, e ast.Expr, b *ir.Block) value.Value {
	switch expr := e.(type) {
	case ast.Var:
		switch v := c.lookup(expr.Name, expr).(type) {
		case LLVMMutableValue:
			return v.Value
		case argVector:
			panic(errors.TypeMismatch{Expected: "int", Got: "vector", Location: expr.Pos})
		}
	case ast.Unary:
		if expr.Op == ast.Deref {
			ptr := codegenExpression(c, expr.Operand, b)
			if _, ok := ptr.Type().(*types.PointerType); !ok {
				panic(errors.TypeMismatch{Expected: "pointer", Got: typeName(ptr.Type()), Location: expr.Pos})
			}
			return ptr
		}
	}

	panic(errors.InvalidLValue{Expr: fmt.Sprintf("%T", e), Location: ast.SpanOf(e)})
}

func codegenExpression(c *ctx, e ast.Expr, b *ir.Block) value.Value {
	switch expr := e.(type) {
	case ast.Lit:
		switch lit := expr.Literal.(type) {
		case ast.Integer:
			return constant.NewInt(types.I64, int64(lit))
		case ast.Boolean:
			if lit {
				return constant.NewInt(types.I64, 1)
			}
			return constant.NewInt(types.I64, 0)
		default:
			panic("unhandled")
		}
	case ast.Var:
		switch v := c.lookup(expr.Name, expr).(type) {
		case LLVMMutableValue:
			return b.NewLoad(v.elem, v.Value)
		case LLVMValue:
			return v.Value
		case argVector:
			panic(errors.TypeMismatch{Expected: "int", Got: "vector", Location: expr.Pos})
		default:
			panic("unhandled")
		}
	case ast.Unary:
		switch expr.Op {
		case ast.Ref:
			return codegenLValue(c, expr.Operand, b)
		case ast.Deref:
			ptr := codegenLValue(c, expr, b)
			return b.NewLoad(ptr.Type().(*types.PointerType).ElemType, ptr)
		case ast.Negate:
			val := codegenExpression(c, expr.Operand, b)
			expectType(Int64.Type, val, expr.Operand.(ast.Node))
			return b.NewSub(constant.NewInt(types.I64, 0), val)
		}
		panic("unhandled")
	case ast.Binary:
		if expr.Op == ast.Proj {
			panic(errors.TypeMismatch{Expected: "int", Got: "tuple or vector", Location: expr.Pos})
		}

		lhs := codegenExpression(c, expr.Left, b)
		rhs := codegenExpression(c, expr.Right, b)
		expectType(Int64.Type, lhs, expr.Left.(ast.Node))
		expectType(Int64.Type, rhs, expr.Right.(ast.Node))

		switch expr.Op {
		case ast.Add:
			return b.NewAdd(lhs, rhs)
		case ast.Sub:
			return b.NewSub(lhs, rhs)
		case ast.Mul:
			return b.NewMul(lhs, rhs)
		case ast.Div:
			return b.NewCall(c.div, lhs, rhs)
		case ast.And:
			return widen(b, b.NewAnd(isTrue(b, lhs), isTrue(b, rhs)))
		case ast.Or:
			return widen(b, b.NewOr(isTrue(b, lhs), isTrue(b, rhs)))
		}
		return widen(b, b.NewICmp(predicates[expr.Op], lhs, rhs))
	case ast.Call:
		thing, ok := c.names[0][expr.Function]
		if !ok {
			panic(errors.UnknownFunction{Name: string(expr.Function), Location: expr.Pos})
		}
		fn := thing.(LLVMValue).Value.(*ir.Func)

		if len(expr.Arguments) != len(fn.Params) {
			panic(errors.ArityMismatch{
				Function: string(expr.Function),
				Expected: len(fn.Params),
				Got:      len(expr.Arguments),
				Location: expr.Pos,
			})
		}

		var args []value.Value
		for idx, arg := range expr.Arguments {
			val := codegenExpression(c, arg, b)
			expectType(fn.Params[idx].Type(), val, arg.(ast.Node))
			args = append(args, val)
		}
		return b.NewCall(fn, args...)
	default:
		panic("unhandled")
	}
}

// codegenStatement emits s into b and returns the block that control
// reaches after s. Statements after a terminated block are unreachable and
// skipped.
func codegenStatement(c *ctx, s ast.Stmt, b *ir.Block) *ir.Block {
	switch stmt := s.(type) {
	case ast.VarDecl:
		typ := codegenType(stmt.Bind.Type, stmt.Bind)
		alloca := b.NewAlloca(typ)
		b.NewStore(constant.NewZeroInitializer(typ), alloca)
		c.top()[stmt.Bind.Name] = LLVMMutableValue{Value: alloca, elem: typ}

		if stmt.Init != nil {
			val := codegenExpression(c, stmt.Init, b)
			expectType(typ, val, stmt.Init.(ast.Node))
			b.NewStore(val, alloca)
		}
		return b
	case ast.Assign:
		val := codegenExpression(c, stmt.Value, b)
		ptr := codegenLValue(c, stmt.To, b)
		expectType(ptr.Type().(*types.PointerType).ElemType, val, stmt.Value.(ast.Node))
		b.NewStore(val, ptr)
		return b
	case ast.Block:
		for _, inner := range stmt.Stmts {
			if b.Term != nil {
				break
			}
			b = codegenStatement(c, inner, b)
		}
		return b
	case ast.Case:
		discr := codegenExpression(c, stmt.Discriminant, b)
		expectType(Int64.Type, discr, stmt.Discriminant.(ast.Node))

		merge := c.newBlock(b, "endcase")
		for _, arm := range stmt.Arms {
			pat, ok := arm.Pattern.(ast.PLiteral)
			if !ok {
				kind := "wildcard"
				if _, binding := arm.Pattern.(ast.PSymbol); binding {
					kind = "binding"
				}
				panic(errors.UnsupportedPattern{Pattern: kind, Location: arm.Pos})
			}

			lit := codegenExpression(c, pat.Lit, b)
			then := c.newBlock(b, "arm")
			next := c.newBlock(b, "next")
			b.NewCondBr(b.NewICmp(enum.IPredEQ, discr, lit), then, next)

			end := codegenStatement(c, arm.Body, then)
			if end.Term == nil {
				end.NewBr(merge)
			}
			b = next
		}
		b.NewBr(merge)
		return merge
	case ast.Return:
		val := codegenExpression(c, stmt.Value, b)
		expectType(Int64.Type, val, stmt.Value.(ast.Node))
		b.NewRet(val)
		return b
	default:
		panic("unhandled")
	}
}

func codegenFunction(c *ctx, fn *ast.FnDecl, m *ir.Module, globals []ast.TypeBind) {
	isMain := fn.Name == machine.Entry

	if c.forwardDeclarationPass {
		if isMain {
			c.entry = m.NewFunc(mainSymbol, Int64.Type)
			return
		}

		var params []*ir.Param
		for _, param := range fn.Params {
			params = append(params, ir.NewParam(string(param.Name), codegenType(param.Type, param)))
		}
		c.top()[fn.Name] = LLVMValue{Value: m.NewFunc(string(fn.Name), Int64.Type, params...)}
		return
	}

	var llfn *ir.Func
	if isMain {
		llfn = c.entry
	} else {
		llfn = c.names[0][fn.Name].(LLVMValue).Value.(*ir.Func)
	}
	bloc := llfn.NewBlock("entry")

	c.pushScope()
	defer c.popScope()

	if isMain {
		if len(fn.Params) != 1 {
			panic(errors.ArityMismatch{Function: string(machine.Entry), Expected: len(fn.Params), Got: 1, Location: fn.Pos})
		}
		c.top()[fn.Params[0].Name] = argVector{}
		for _, global := range globals {
			codegenStatement(c, ast.VarDecl{Bind: global, Pos: global.Pos}, bloc)
		}
	}

	for i, param := range fn.Params {
		if isMain {
			break
		}
		slot := bloc.NewAlloca(llfn.Params[i].Type())
		bloc.NewStore(llfn.Params[i], slot)
		c.top()[param.Name] = LLVMMutableValue{Value: slot, elem: llfn.Params[i].Type()}
	}

	end := codegenStatement(c, fn.Body, bloc)
	if end.Term == nil {
		end.NewRet(constant.NewInt(types.I64, 0))
	}
}

// codegen lowers mod to LLVM IR. pkg names the module in the embedded
// function table.
func codegen(pkg string, mod *ast.Module) (modu *ir.Module, err error) {
	defer func() {
		if v := recover(); v != nil {
			if e, ok := v.(error); ok {
				err = tracerr.Wrap(e)
				return
			}
			panic(v)
		}
	}()

	p, err := machine.Load(mod)
	if err != nil {
		return nil, err
	}

	c := &ctx{
		names: []map[ast.Symbol]namedThing{
			{},
		},
	}

	modu = ir.NewModule()

	c.div = addDivide(modu)

	c.forwardDeclarationPass = true
	for _, fn := range mod.Functions {
		codegenFunction(c, fn, modu, nil)
	}
	c.forwardDeclarationPass = false
	for _, fn := range mod.Functions {
		codegenFunction(c, fn, modu, p.Globals)
	}

	addEntryPoint(modu, c.entry)
	if err := embedFunctionTable(tableOf(pkg, mod), modu); err != nil {
		return nil, err
	}

	return modu, nil
}
