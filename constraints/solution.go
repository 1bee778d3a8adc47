package constraints

import (
	"iter"

	"github.com/benbjohnson/immutable"
	"github.com/cottand/phantom/util"
)

// Solution maps every vertex of a solved constraint graph to its ordered list of direct
// supertypes. The order of supertypes is the order the solver found them in the graph,
// and is meaningful to whoever emits type declarations from it.
//
// A Solution is immutable: accessors return copies.
type Solution[V comparable] struct {
	order  *immutable.List[V]
	supers *immutable.Map[V, *immutable.List[V]]
}

// SolutionBuilder accumulates a Solution vertex by vertex
type SolutionBuilder[V comparable] struct {
	order  *immutable.ListBuilder[V]
	supers *immutable.MapBuilder[V, *immutable.List[V]]
}

func NewSolutionBuilder[V comparable]() *SolutionBuilder[V] {
	return &SolutionBuilder[V]{
		order:  immutable.NewListBuilder[V](),
		supers: immutable.NewMapBuilder[V, *immutable.List[V]](util.ComparableHasher[V]()),
	}
}

// Put records the direct supertypes of v. Putting the same vertex twice is a precondition violation.
func (b *SolutionBuilder[V]) Put(v V, supertypes []V) {
	_, exists := b.supers.Get(v)
	Require(!exists, "vertex %v already has a solution entry", v)
	b.order.Append(v)
	b.supers.Set(v, immutable.NewList(supertypes...))
}

func (b *SolutionBuilder[V]) Solution() Solution[V] {
	return Solution[V]{
		order:  b.order.List(),
		supers: b.supers.Map(),
	}
}

func (s Solution[V]) Len() int {
	if s.order == nil {
		return 0
	}
	return s.order.Len()
}

// Vertices returns the solved vertices in graph order
func (s Solution[V]) Vertices() []V {
	out := make([]V, 0, s.Len())
	for v := range s.All() {
		out = append(out, v)
	}
	return out
}

// Supertypes returns the direct supertypes of v, and whether v is part of the solution
func (s Solution[V]) Supertypes(v V) ([]V, bool) {
	if s.supers == nil {
		return nil, false
	}
	list, ok := s.supers.Get(v)
	if !ok {
		return nil, false
	}
	return listSlice(list), true
}

// All iterates vertices in graph order together with their direct supertypes
func (s Solution[V]) All() iter.Seq2[V, []V] {
	return func(yield func(V, []V) bool) {
		if s.order == nil {
			return
		}
		itr := s.order.Iterator()
		for !itr.Done() {
			_, v := itr.Next()
			list, _ := s.supers.Get(v)
			if !yield(v, listSlice(list)) {
				return
			}
		}
	}
}

// AsMap returns the solution as a plain map, losing the vertex order
func (s Solution[V]) AsMap() map[V][]V {
	out := make(map[V][]V, s.Len())
	for v, supers := range s.All() {
		out[v] = supers
	}
	return out
}

func listSlice[V any](list *immutable.List[V]) []V {
	out := make([]V, 0, list.Len())
	itr := list.Iterator()
	for !itr.Done() {
		_, v := itr.Next()
		out = append(out, v)
	}
	return out
}
