package machine

import (
	"fmt"
	"io"
	"sort"

	"github.com/pontaoski/plaia/ast"
)

// Names returns the names bound in s in sorted order.
func (s Store) Names() []ast.Symbol {
	names := make([]ast.Symbol, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// PrintStore writes every binding of store as `name => value`, reading
// values from heap.
func PrintStore[V any](w io.Writer, heap []V, store Store) error {
	for _, name := range store.Names() {
		l := store[name]
		var err error
		if l >= 0 && int(l) < len(heap) {
			_, err = fmt.Fprintf(w, "\t%s => %v\n", name, heap[l])
		} else {
			_, err = fmt.Fprintf(w, "\t%s => <dangling %d>\n", name, l)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// PrintTrace writes every snapshot of trace, followed by the source text
// the snapshot was taken at when src is not empty.
func PrintTrace[V any](w io.Writer, trace []Snapshot[V], src string) error {
	if _, err := fmt.Fprintln(w, "Trace:"); err != nil {
		return err
	}

	for _, snap := range trace {
		if err := PrintStore(w, snap.Heap, snap.Store); err != nil {
			return err
		}
		if src == "" {
			continue
		}
		if _, err := fmt.Fprintln(w, snap.Pos.Slice(src)); err != nil {
			return err
		}
	}
	return nil
}
