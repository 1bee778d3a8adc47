// Package graph implements the small directed-graph surface the constraint solver needs.
//
// Unlike map-backed graph libraries, every enumeration here is stable: vertices come back
// in insertion order, successors of a vertex in the order their edges were added, and
// edge snapshots in creation order. Solutions derived from these graphs list supertypes
// in declaration order, so this ordering is observable downstream.
//
// Graphs are not safe for concurrent mutation.
package graph

import (
	"fmt"
	"slices"
	"sync/atomic"
)

// graphIDs hands out the identity of every Directed, which its edges carry
var graphIDs atomic.Uint64

// Edge is a directed edge from Source to Target. Edges are identified by the graph that
// created them, so two parallel edges between the same vertices are distinct.
type Edge[V comparable] struct {
	Source V
	Target V
	graph  uint64
	id     uint64
}

func (e Edge[V]) String() string {
	return fmt.Sprintf("%v -> %v", e.Source, e.Target)
}

// Builder is implemented by graphs which can be populated vertex by vertex and edge by edge
type Builder[V comparable] interface {
	AddVertex(v V) bool
	AddEdge(source, target V) (Edge[V], bool)
}

var (
	_ Builder[string] = (*Directed[string])(nil)
	_ Builder[string] = (*Simple[string])(nil)
)

type vertexEntry[V comparable] struct {
	out []Edge[V]
}

// Directed is a directed multigraph. Self loops and parallel edges are allowed.
// Vertices are never removed; edges may be.
type Directed[V comparable] struct {
	id       uint64
	order    []V
	vertices map[V]*vertexEntry[V]
	edges    map[uint64]Edge[V]
	nextID   uint64
}

func NewDirected[V comparable]() *Directed[V] {
	return &Directed[V]{
		id:       graphIDs.Add(1),
		vertices: make(map[V]*vertexEntry[V]),
		edges:    make(map[uint64]Edge[V]),
	}
}

// AddVertex adds v if it is not in the graph yet, and reports whether it was added
func (g *Directed[V]) AddVertex(v V) bool {
	if _, ok := g.vertices[v]; ok {
		return false
	}
	g.vertices[v] = &vertexEntry[V]{}
	g.order = append(g.order, v)
	return true
}

func (g *Directed[V]) ContainsVertex(v V) bool {
	_, ok := g.vertices[v]
	return ok
}

// AddEdge adds a new edge from source to target, adding either vertex if missing.
// It always succeeds for a Directed graph.
func (g *Directed[V]) AddEdge(source, target V) (Edge[V], bool) {
	g.AddVertex(source)
	g.AddVertex(target)
	g.nextID++
	e := Edge[V]{Source: source, Target: target, graph: g.id, id: g.nextID}
	g.edges[e.id] = e
	entry := g.vertices[source]
	entry.out = append(entry.out, e)
	return e, true
}

// ContainsEdge reports whether this exact edge is still part of the graph.
// Edges created by another graph are never contained, whatever their endpoints.
func (g *Directed[V]) ContainsEdge(e Edge[V]) bool {
	if e.graph != g.id {
		return false
	}
	live, ok := g.edges[e.id]
	return ok && live == e
}

func (g *Directed[V]) ContainsEdgeBetween(source, target V) bool {
	_, ok := g.EdgeBetween(source, target)
	return ok
}

// EdgeBetween returns the oldest live edge from source to target
func (g *Directed[V]) EdgeBetween(source, target V) (Edge[V], bool) {
	entry, ok := g.vertices[source]
	if !ok {
		return Edge[V]{}, false
	}
	for _, e := range entry.out {
		if e.Target == target {
			return e, true
		}
	}
	return Edge[V]{}, false
}

// RemoveEdge removes e, and reports whether it was present
func (g *Directed[V]) RemoveEdge(e Edge[V]) bool {
	if !g.ContainsEdge(e) {
		return false
	}
	delete(g.edges, e.id)
	entry := g.vertices[e.Source]
	entry.out = slices.DeleteFunc(entry.out, func(other Edge[V]) bool {
		return other.id == e.id
	})
	return true
}

// Successors returns the targets of the out-edges of v, in edge insertion order.
// Parallel edges yield repeated successors. The returned slice is a copy.
func (g *Directed[V]) Successors(v V) []V {
	entry, ok := g.vertices[v]
	if !ok {
		return nil
	}
	succ := make([]V, 0, len(entry.out))
	for _, e := range entry.out {
		succ = append(succ, e.Target)
	}
	return succ
}

// OutEdges returns the out-edges of v, in insertion order. The returned slice is a copy.
func (g *Directed[V]) OutEdges(v V) []Edge[V] {
	entry, ok := g.vertices[v]
	if !ok {
		return nil
	}
	return slices.Clone(entry.out)
}

// Vertices returns all vertices in insertion order. The returned slice is a copy.
func (g *Directed[V]) Vertices() []V {
	return slices.Clone(g.order)
}

// Edges returns a snapshot of the live edges in creation order.
// Mutating the graph afterward does not affect the snapshot.
func (g *Directed[V]) Edges() []Edge[V] {
	edges := make([]Edge[V], 0, len(g.edges))
	for _, e := range g.edges {
		edges = append(edges, e)
	}
	slices.SortFunc(edges, func(a, b Edge[V]) int {
		switch {
		case a.id < b.id:
			return -1
		case a.id > b.id:
			return 1
		}
		return 0
	})
	return edges
}

func (g *Directed[V]) VertexCount() int { return len(g.order) }
func (g *Directed[V]) EdgeCount() int   { return len(g.edges) }

// AddGraph copies every vertex and edge of src into dst, in src's order.
// Edges dst refuses (for example parallel edges in a Simple graph) are skipped.
func AddGraph[V comparable](dst Builder[V], src *Directed[V]) {
	for _, v := range src.order {
		dst.AddVertex(v)
	}
	for _, e := range src.Edges() {
		dst.AddEdge(e.Source, e.Target)
	}
}
