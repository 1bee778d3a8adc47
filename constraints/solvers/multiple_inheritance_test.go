package solvers_test

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/cottand/phantom/constraints"
	"github.com/cottand/phantom/constraints/solvers"
	"github.com/cottand/phantom/graph"
	"github.com/cottand/phantom/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func edges(pairs ...[2]string) *graph.Directed[string] {
	g := graph.NewDirected[string]()
	for _, p := range pairs {
		g.AddEdge(p[0], p[1])
	}
	return g
}

func redundantDAG() *graph.Directed[string] {
	return edges([2]string{"A", "B"}, [2]string{"B", "C"}, [2]string{"A", "C"})
}

func TestCycleIsUnsatisfiable(t *testing.T) {
	for _, minimize := range []bool{true, false} {
		t.Run(fmt.Sprintf("minimize=%v", minimize), func(t *testing.T) {
			g := edges([2]string{"A", "B"}, [2]string{"B", "C"}, [2]string{"C", "A"})
			s := solvers.NewMultipleInheritance(g, solvers.WithMinimize[string](minimize))

			_, err := s.Solve()
			require.Error(t, err)
			assert.True(t, errors.Is(err, constraints.ErrUnsatisfiable))

			var cycleErr *constraints.GraphCycleError[string]
			require.True(t, errors.As(err, &cycleErr))
			assert.ElementsMatch(t, []string{"A", "B", "C"}, cycleErr.Cycle)
			assert.Equal(t, constraints.GraphCycle, cycleErr.Code())

			_, solved := s.Solution()
			assert.False(t, solved, "no partial solution after failure")
			assert.Equal(t, 3, g.EdgeCount(), "graph must not be mutated before the cycle check")
		})
	}
}

func TestMinimizeRemovesImpliedEdge(t *testing.T) {
	s := solvers.NewMultipleInheritance(redundantDAG(), solvers.WithMinimize[string](true))

	solution, err := s.Solve()
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"A": {"B"},
		"B": {"C"},
		"C": {},
	}, solution.AsMap())
	assert.Equal(t, []string{"A", "B", "C"}, solution.Vertices())
}

func TestMinimizeIsTheDefault(t *testing.T) {
	s := solvers.NewMultipleInheritance(redundantDAG())

	solution, err := s.Solve()
	require.NoError(t, err)
	supers, ok := solution.Supertypes("A")
	require.True(t, ok)
	assert.Equal(t, []string{"B"}, supers)
}

func TestWithoutMinimizeKeepsInputOrder(t *testing.T) {
	s := solvers.NewMultipleInheritance(redundantDAG(), solvers.WithMinimize[string](false))

	solution, err := s.Solve()
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"A": {"B", "C"},
		"B": {"C"},
		"C": {},
	}, solution.AsMap())
}

func TestSupertypeOrderIsNotSorted(t *testing.T) {
	g := edges([2]string{"T", "Zeta"}, [2]string{"T", "Alpha"}, [2]string{"T", "Mid"})

	solution, err := solvers.NewMultipleInheritance(g).Solve()
	require.NoError(t, err)
	supers, _ := solution.Supertypes("T")
	assert.Equal(t, []string{"Zeta", "Alpha", "Mid"}, supers)
}

func TestNonRemovableEdgeSurvives(t *testing.T) {
	policy := constraints.KeepEdges(util.NewPair("A", "C"))
	s := solvers.NewMultipleInheritance(redundantDAG(), solvers.WithRemovable[string](policy))

	solution, err := s.Solve()
	require.NoError(t, err)
	supers, _ := solution.Supertypes("A")
	assert.Equal(t, []string{"B", "C"}, supers)
}

func TestPolicyIsOnlyAskedAboutRedundantCandidates(t *testing.T) {
	var asked []string
	policy := func(source, target string) bool {
		asked = append(asked, source+"->"+target)
		return true
	}
	s := solvers.NewMultipleInheritance(redundantDAG(), solvers.WithRemovable[string](policy))

	_, err := s.Solve()
	require.NoError(t, err)
	// A->B is asked about (A has the other neighbor C) but C does not reach B
	assert.Equal(t, []string{"A->B", "A->C"}, asked)
}

func TestIsolatedVerticesGetEmptyEntries(t *testing.T) {
	s := solvers.NewEmptyMultipleInheritance[string]()
	s.AddVertex("Lonely")
	s.AddConstraint("A", "B")

	solution, err := s.Solve()
	require.NoError(t, err)
	assert.Equal(t, []string{"Lonely", "A", "B"}, solution.Vertices())
	supers, ok := solution.Supertypes("Lonely")
	assert.True(t, ok)
	assert.Empty(t, supers)

	_, ok = solution.Supertypes("Unknown")
	assert.False(t, ok)
}

func TestSolveTwiceReturnsSameSolution(t *testing.T) {
	s := solvers.NewMultipleInheritance(redundantDAG())
	first, err := s.Solve()
	require.NoError(t, err)
	second, err := s.Solve()
	require.NoError(t, err)
	assert.Equal(t, first.AsMap(), second.AsMap())

	stored, ok := s.Solution()
	assert.True(t, ok)
	assert.Equal(t, first.AsMap(), stored.AsMap())
}

func TestAddConstraintAfterSolvePanics(t *testing.T) {
	s := solvers.NewEmptyMultipleInheritance[string]()
	s.AddConstraint("A", "B")
	_, err := s.Solve()
	require.NoError(t, err)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, constraints.ErrPrecondition))
		assert.False(t, errors.Is(err, constraints.ErrUnsatisfiable))
	}()
	s.AddConstraint("B", "C")
}

func TestOverlappingWitnessesAreJudgedAgainstOriginalClosure(t *testing.T) {
	// diamond with a shortcut: A -> D is implied by both B and C
	g := edges(
		[2]string{"A", "B"},
		[2]string{"A", "C"},
		[2]string{"A", "D"},
		[2]string{"B", "D"},
		[2]string{"C", "D"},
	)
	solution, err := solvers.NewMultipleInheritance(g).Solve()
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"A": {"B", "C"},
		"B": {"D"},
		"C": {"D"},
		"D": {},
	}, solution.AsMap())
}

func reachability(g *graph.Directed[int]) map[int][]int {
	out := make(map[int][]int)
	for _, v := range g.Vertices() {
		out[v] = graph.Reachable[int](g, v).Slice()
	}
	return out
}

func TestMinimizePreservesReachability(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 42))
	for round := 0; round < 50; round++ {
		n := 2 + rng.IntN(12)
		g := graph.NewDirected[int]()
		for v := 0; v < n; v++ {
			g.AddVertex(v)
		}
		// edges only go from lower to higher vertices, so the graph is acyclic
		for from := 0; from < n; from++ {
			for to := from + 1; to < n; to++ {
				if rng.IntN(3) == 0 {
					g.AddEdge(from, to)
				}
			}
		}
		before := reachability(g)
		edgesBefore := g.EdgeCount()

		_, err := solvers.NewMultipleInheritance(g).Solve()
		require.NoError(t, err)

		after := reachability(g)
		for v, reach := range before {
			assert.ElementsMatch(t, reach, after[v], "round %d: reachability of %d changed", round, v)
		}
		assert.LessOrEqual(t, g.EdgeCount(), edgesBefore)
	}
}
