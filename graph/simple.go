package graph

import (
	"github.com/cottand/phantom/util"
	"github.com/hashicorp/go-set/v3"
)

// Simple is a directed graph without self loops or parallel edges
type Simple[V comparable] struct {
	g    *Directed[V]
	keys *set.Set[util.Pair[V, V]]
}

func NewSimple[V comparable]() *Simple[V] {
	return &Simple[V]{
		g:    NewDirected[V](),
		keys: set.New[util.Pair[V, V]](0),
	}
}

func (s *Simple[V]) AddVertex(v V) bool {
	return s.g.AddVertex(v)
}

// AddEdge adds source -> target unless it is a self loop or already present.
// The second result reports whether the edge was added.
func (s *Simple[V]) AddEdge(source, target V) (Edge[V], bool) {
	if source == target {
		return Edge[V]{}, false
	}
	if !s.keys.Insert(util.NewPair(source, target)) {
		return Edge[V]{}, false
	}
	return s.g.AddEdge(source, target)
}

func (s *Simple[V]) ContainsEdgeBetween(source, target V) bool {
	return s.keys.Contains(util.NewPair(source, target))
}

func (s *Simple[V]) ContainsVertex(v V) bool { return s.g.ContainsVertex(v) }
func (s *Simple[V]) Successors(v V) []V      { return s.g.Successors(v) }
func (s *Simple[V]) Vertices() []V           { return s.g.Vertices() }
func (s *Simple[V]) Edges() []Edge[V]        { return s.g.Edges() }
func (s *Simple[V]) EdgeCount() int          { return s.g.EdgeCount() }
