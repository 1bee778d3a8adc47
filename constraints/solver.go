// Package constraints holds the lifecycle shared by constraint solvers over a directed
// type-dependency graph, along with the errors they report.
//
// A solver is used in two phases. It is first configured with a graph (either
// pre-built, or populated through AddConstraint) and then solved once. Solving either
// produces an immutable Solution or fails with an error matching ErrUnsatisfiable,
// in which case no partial solution is kept.
package constraints

import (
	"github.com/cottand/phantom/graph"
	"github.com/cottand/phantom/internal/log"
)

var logger = log.DefaultLogger.With("section", "solver")

// Solver is implemented by every constraint solver
type Solver[V comparable] interface {
	// Solve solves the constraint graph, or returns the solution found by a previous successful call
	Solve() (Solution[V], error)
	// Solution returns the solution of the last successful Solve, if any
	Solution() (Solution[V], bool)
}

// Hook is the solving step specific to a concrete solver. It may mutate g.
type Hook[V comparable] func(g *graph.Directed[V]) (Solution[V], error)

// Base implements Solver by validating the solver state and delegating to a Hook
type Base[V comparable] struct {
	graph    *graph.Directed[V]
	hook     Hook[V]
	solution Solution[V]
	solved   bool
}

var _ Solver[string] = (*Base[string])(nil)

// NewBase returns a Base over a fresh, empty graph, to be populated with AddConstraint
func NewBase[V comparable](hook Hook[V]) *Base[V] {
	return NewBaseOn(graph.NewDirected[V](), hook)
}

// NewBaseOn returns a Base which solves g. g is owned by the solver from here on,
// and must not be solved concurrently by anyone else.
func NewBaseOn[V comparable](g *graph.Directed[V], hook Hook[V]) *Base[V] {
	Require(g != nil, "solver needs a graph")
	Require(hook != nil, "solver needs a solving hook")
	return &Base[V]{graph: g, hook: hook}
}

// AddConstraint records that source must be assignable to target
func (b *Base[V]) AddConstraint(source, target V) graph.Edge[V] {
	Require(!b.solved, "cannot add constraint %v -> %v to an already solved graph", source, target)
	e, _ := b.graph.AddEdge(source, target)
	return e
}

// AddVertex records a type with no constraints of its own, so that it still gets a solution entry
func (b *Base[V]) AddVertex(v V) {
	Require(!b.solved, "cannot add vertex %v to an already solved graph", v)
	b.graph.AddVertex(v)
}

// Graph returns the live graph. After a successful Solve it reflects any edges the solver removed.
func (b *Base[V]) Graph() *graph.Directed[V] {
	return b.graph
}

func (b *Base[V]) Solve() (Solution[V], error) {
	if b.solved {
		return b.solution, nil
	}
	logger.Debug("solving constraints", "vertices", b.graph.VertexCount(), "edges", b.graph.EdgeCount())
	solution, err := b.hook(b.graph)
	if err != nil {
		logger.Debug("constraints are unsatisfiable", "err", err)
		return Solution[V]{}, err
	}
	b.solution = solution
	b.solved = true
	return solution, nil
}

func (b *Base[V]) Solution() (Solution[V], bool) {
	return b.solution, b.solved
}
