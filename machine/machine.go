// Package machine implements the heap, store and call frames shared by
// every plaia domain. A Machine is parameterized by an Algebra that gives
// meaning to its values.
package machine

import (
	"maps"

	"github.com/pontaoski/plaia/ast"
	"github.com/pontaoski/plaia/errors"
	"github.com/pontaoski/plaia/eval"
	"github.com/pontaoski/plaia/types"
)

// Addr is an index into the heap. Addresses stay valid for the whole run.
type Addr int

type Store map[ast.Symbol]Addr

// Algebra is the value-dependent half of a domain.
type Algebra[V any] interface {
	Zero() V
	Op(op ast.BinOp, v1, v2 V) (V, error)
	FromLit(lit ast.Lit) V
	FromAddr(a Addr) V
	ToAddr(v V) (Addr, error)
	Match(p ast.Pattern, v V) (bool, error)
}

type frame struct {
	store  Store
	result Addr
}

// Snapshot is the state of a machine right before a statement ran.
type Snapshot[V any] struct {
	Heap  []V
	Store Store
	Pos   types.Span
}

const DefaultMaxDepth = 1000

type Options struct {
	// MaxDepth bounds the number of live frames. Zero means DefaultMaxDepth.
	MaxDepth int
}

type Machine[V any] struct {
	alg      Algebra[V]
	heap     []V
	frames   []frame
	decls    map[ast.Symbol]*ast.FnDecl
	trace    []Snapshot[V]
	maxDepth int
}

var _ eval.Domain[int, Addr] = (*Machine[int])(nil)

func New[V any](alg Algebra[V], opts Options) *Machine[V] {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}

	return &Machine[V]{
		alg:      alg,
		decls:    make(map[ast.Symbol]*ast.FnDecl),
		maxDepth: opts.MaxDepth,
	}
}

// Declare makes fns callable by name. A later declaration of the same name
// replaces an earlier one.
func (m *Machine[V]) Declare(fns ...*ast.FnDecl) {
	for _, fn := range fns {
		m.decls[fn.Name] = fn
	}
}

func (m *Machine[V]) top() *frame {
	return &m.frames[len(m.frames)-1]
}

func (m *Machine[V]) inRange(l Addr) bool {
	return l >= 0 && int(l) < len(m.heap)
}

func (m *Machine[V]) FindStore(x ast.Symbol) (Addr, error) {
	if len(m.frames) > 0 {
		if l, ok := m.top().store[x]; ok {
			return l, nil
		}
	}
	return 0, errors.UnboundName{Name: string(x)}
}

func (m *Machine[V]) FindHeap(l Addr) (V, error) {
	if !m.inRange(l) {
		var none V
		return none, errors.InvalidLocation{Address: int(l)}
	}
	return m.heap[l], nil
}

func (m *Machine[V]) Alloc() Addr {
	m.heap = append(m.heap, m.alg.Zero())
	return Addr(len(m.heap) - 1)
}

func (m *Machine[V]) UpdateStore(x ast.Symbol, l Addr) {
	m.top().store[x] = l
}

func (m *Machine[V]) UpdateHeap(l Addr, v V) error {
	if !m.inRange(l) {
		return errors.InvalidLocation{Address: int(l)}
	}
	m.heap[l] = v
	return nil
}

// PushFrame allocates the new frame's return cell, then one cell per
// binding in order.
func (m *Machine[V]) PushFrame(bindings []eval.Binding[V]) error {
	if len(m.frames) >= m.maxDepth {
		return errors.StackOverflow{Depth: m.maxDepth}
	}

	f := frame{store: make(Store, len(bindings)), result: m.Alloc()}
	for _, b := range bindings {
		m.heap = append(m.heap, b.Value)
		f.store[b.Name] = Addr(len(m.heap) - 1)
	}

	m.frames = append(m.frames, f)
	return nil
}

func (m *Machine[V]) PopFrame() {
	if len(m.frames) == 0 {
		panic("machine: pop of an empty frame stack")
	}
	m.frames = m.frames[:len(m.frames)-1]
}

// ReturnLoc is the current frame's return cell, or an invalid address when
// no frame is live.
func (m *Machine[V]) ReturnLoc() Addr {
	if len(m.frames) == 0 {
		return -1
	}
	return m.top().result
}

func (m *Machine[V]) Denote(op ast.BinOp, v1, v2 V) (V, error) {
	return m.alg.Op(op, v1, v2)
}

func (m *Machine[V]) InjVal(lit ast.Lit) V {
	return m.alg.FromLit(lit)
}

func (m *Machine[V]) InjLoc(l Addr) V {
	return m.alg.FromAddr(l)
}

func (m *Machine[V]) UnwrapPtr(v V) (Addr, error) {
	return m.alg.ToAddr(v)
}

func (m *Machine[V]) DoMatch(p ast.Pattern, v V) (bool, error) {
	return m.alg.Match(p, v)
}

func (m *Machine[V]) FnDecl(name ast.Symbol) (*ast.FnDecl, error) {
	fn, ok := m.decls[name]
	if !ok {
		return nil, errors.UnknownFunction{Name: string(name)}
	}
	return fn, nil
}

// Depth is the number of live frames.
func (m *Machine[V]) Depth() int {
	return len(m.frames)
}

// Lookup reads the value bound to x in the current frame.
func (m *Machine[V]) Lookup(x ast.Symbol) (V, error) {
	l, err := m.FindStore(x)
	if err != nil {
		var none V
		return none, err
	}
	return m.FindHeap(l)
}

// Heap returns the live heap. Callers must not modify it.
func (m *Machine[V]) Heap() []V {
	return m.heap
}

// Frame returns a copy of the current frame's store.
func (m *Machine[V]) Frame() Store {
	if len(m.frames) == 0 {
		return Store{}
	}
	return maps.Clone(m.top().store)
}

// Record appends a snapshot of the heap and the current frame to the trace.
func (m *Machine[V]) Record(pos types.Span) {
	heap := make([]V, len(m.heap))
	copy(heap, m.heap)
	m.trace = append(m.trace, Snapshot[V]{Heap: heap, Store: m.Frame(), Pos: pos})
}

func (m *Machine[V]) Trace() []Snapshot[V] {
	return m.trace
}

// Tracer returns a recursion strategy that records a snapshot before every
// statement.
func (m *Machine[V]) Tracer() eval.Traced[V, Addr] {
	return eval.Traced[V, Addr]{
		Before: func(_ eval.Domain[V, Addr], s ast.Stmt) {
			m.Record(ast.SpanOf(s))
		},
	}
}
