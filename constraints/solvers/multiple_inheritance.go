// Package solvers contains the concrete constraint solvers built on constraints.Base
package solvers

import (
	"github.com/cottand/phantom/constraints"
	"github.com/cottand/phantom/graph"
	"github.com/cottand/phantom/internal/log"
)

var logger = log.DefaultLogger.With("section", "solver")

// MultipleInheritance assigns every type of a constraint graph its direct supertypes,
// where a type may have any number of them (as interfaces do).
//
// An edge source -> target means source must be assignable to target. The graph must be
// acyclic. When minimizing, edges implied by another path are dropped, so that each type
// only lists the supertypes it does not already inherit through another one.
type MultipleInheritance[V comparable] struct {
	*constraints.Base[V]
	minimize  bool
	removable constraints.RemovablePolicy[V]
}

type Option[V comparable] func(*MultipleInheritance[V])

// WithMinimize sets whether redundant edges are removed before assembling the solution. Defaults to true.
func WithMinimize[V comparable](minimize bool) Option[V] {
	return func(s *MultipleInheritance[V]) {
		s.minimize = minimize
	}
}

// WithRemovable sets the policy deciding which redundant edges may be removed.
// Defaults to constraints.AlwaysRemovable.
func WithRemovable[V comparable](policy constraints.RemovablePolicy[V]) Option[V] {
	return func(s *MultipleInheritance[V]) {
		s.removable = policy
	}
}

// NewMultipleInheritance returns a solver over g, which it will mutate when minimizing
func NewMultipleInheritance[V comparable](g *graph.Directed[V], opts ...Option[V]) *MultipleInheritance[V] {
	s := &MultipleInheritance[V]{
		minimize:  true,
		removable: constraints.AlwaysRemovable[V],
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.removable == nil {
		s.removable = constraints.AlwaysRemovable[V]
	}
	s.Base = constraints.NewBaseOn(g, s.solve)
	return s
}

// NewEmptyMultipleInheritance returns a solver over an empty graph, to be filled with AddConstraint
func NewEmptyMultipleInheritance[V comparable](opts ...Option[V]) *MultipleInheritance[V] {
	return NewMultipleInheritance(graph.NewDirected[V](), opts...)
}

func (s *MultipleInheritance[V]) solve(g *graph.Directed[V]) (constraints.Solution[V], error) {
	if cycle, found := graph.DetectCycle[V](g); found {
		return constraints.Solution[V]{}, constraints.NewGraphCycle(cycle)
	}

	if s.minimize {
		s.removeRedundantEdges(g)
	}

	builder := constraints.NewSolutionBuilder[V]()
	for _, v := range g.Vertices() {
		builder.Put(v, g.Successors(v))
	}
	return builder.Solution(), nil
}

// removeRedundantEdges drops every removable edge source -> target for which another
// successor of source already reaches target.
//
// Reachability is judged against the closure of the graph as it was before this pass,
// never against the partially reduced graph, and each edge is looked at exactly once.
// When several edges are redundant through overlapping paths, the result is therefore
// not guaranteed to be the smallest equivalent graph.
func (s *MultipleInheritance[V]) removeRedundantEdges(g *graph.Directed[V]) {
	closure := graph.NewSimple[V]()
	graph.AddGraph[V](closure, g)
	graph.CloseTransitively(closure)

	removed := 0
	for _, e := range g.Edges() {
		for _, out := range g.OutEdges(e.Source) {
			neighbor := out.Target
			if neighbor == e.Target {
				continue
			}
			if !s.removableEdge(g, e) {
				continue
			}
			if closure.ContainsEdgeBetween(neighbor, e.Target) {
				g.RemoveEdge(e)
				removed++
				logger.Debug("removed redundant edge", "edge", e, "via", neighbor)
				break
			}
		}
	}
	logger.Debug("minimized constraint graph", "removedEdges", removed, "remainingEdges", g.EdgeCount())
}

func (s *MultipleInheritance[V]) removableEdge(g *graph.Directed[V], e graph.Edge[V]) bool {
	constraints.Require(g.ContainsEdge(e), "edge %v is not part of the constraint graph", e)
	return s.removable(e.Source, e.Target)
}
