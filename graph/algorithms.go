package graph

import (
	"github.com/cottand/phantom/internal/log"
	"github.com/cottand/phantom/util"
	"github.com/hashicorp/go-set/v3"
)

var logger = log.DefaultLogger.With("section", "graph")

// Successorer is any graph which can enumerate the successors of a vertex
type Successorer[V comparable] interface {
	Successors(v V) []V
	Vertices() []V
}

type dfsFrame[V comparable] struct {
	vertex V
	succ   []V
	next   int
}

// DetectCycle reports whether g contains a directed cycle. When it does, it returns one
// witness cycle as a vertex path [v0, v1, ..., vn] where each consecutive pair and the
// pair (vn, v0) are edges of g. A self loop yields a single-vertex path.
func DetectCycle[V comparable](g Successorer[V]) ([]V, bool) {
	const (
		unvisited = iota
		onPath
		done
	)
	state := make(map[V]int)

	for _, root := range g.Vertices() {
		if state[root] != unvisited {
			continue
		}
		stack := util.Stack[*dfsFrame[V]]{}
		stack.Push(&dfsFrame[V]{vertex: root, succ: g.Successors(root)})
		state[root] = onPath

		for stack.Len() > 0 {
			top, _ := stack.Peek()
			if top.next >= len(top.succ) {
				state[top.vertex] = done
				stack.Pop()
				continue
			}
			w := top.succ[top.next]
			top.next++

			switch state[w] {
			case onPath:
				cycle := cycleFromPath(stack.Items(), w)
				logger.Debug("found cycle", "length", len(cycle), "at", w)
				return cycle, true
			case unvisited:
				state[w] = onPath
				stack.Push(&dfsFrame[V]{vertex: w, succ: g.Successors(w)})
			}
		}
	}
	return nil, false
}

// cycleFromPath returns the suffix of the DFS path starting at w
func cycleFromPath[V comparable](path []*dfsFrame[V], w V) []V {
	var cycle []V
	for i := len(path) - 1; i >= 0; i-- {
		cycle = append(cycle, path[i].vertex)
		if path[i].vertex == w {
			break
		}
	}
	for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
		cycle[i], cycle[j] = cycle[j], cycle[i]
	}
	return cycle
}

// Reachable returns every vertex reachable from 'from' by a path of one or more edges.
// 'from' itself is included only if it lies on a cycle.
func Reachable[V comparable](g Successorer[V], from V) *set.Set[V] {
	reached := set.New[V](0)
	work := util.Stack[V]{}
	for _, w := range g.Successors(from) {
		if reached.Insert(w) {
			work.Push(w)
		}
	}
	for work.Len() > 0 {
		v, _ := work.Pop()
		for _, w := range g.Successors(v) {
			if reached.Insert(w) {
				work.Push(w)
			}
		}
	}
	return reached
}

// CloseTransitively adds to s an edge u -> w for every pair where w is reachable from u
// and u != w, so that afterward adjacency in s equals reachability in the original s.
// Reachability is computed on the graph as it was before any edge is added.
func CloseTransitively[V comparable](s *Simple[V]) {
	vertices := s.Vertices()
	reach := make([]*set.Set[V], len(vertices))
	for i, v := range vertices {
		reach[i] = Reachable[V](s, v)
	}
	added := 0
	for i, v := range vertices {
		for _, w := range vertices {
			if reach[i].Contains(w) {
				if _, ok := s.AddEdge(v, w); ok {
					added++
				}
			}
		}
	}
	logger.Debug("closed graph transitively", "vertices", len(vertices), "addedEdges", added)
}
