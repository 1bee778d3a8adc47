package phantom

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/cottand/phantom/constraints"
	"github.com/cottand/phantom/dataflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chain = `
types:
  - name: A
    supertypes: [B, C]
  - name: B
    supertypes: [C]
`

func testFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, data := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(data)}
	}
	return fsys
}

func loadAndSolve(t *testing.T, data string, minimize bool) map[string][]string {
	t.Helper()
	c, err := LoadConstraints(testFS(map[string]string{"c.yaml": data}), "c.yaml")
	require.NoError(t, err)
	solution, err := Solve(c, minimize)
	require.NoError(t, err)
	return solution.AsMap()
}

func TestSolveChain(t *testing.T) {
	assert.Equal(t, map[string][]string{
		"A": {"B"},
		"B": {"C"},
		"C": {},
	}, loadAndSolve(t, chain, true))
}

func TestSolveChainWithoutMinimizing(t *testing.T) {
	assert.Equal(t, map[string][]string{
		"A": {"B", "C"},
		"B": {"C"},
		"C": {},
	}, loadAndSolve(t, chain, false))
}

func TestFixedEdgesSurviveMinimization(t *testing.T) {
	assert.Equal(t, map[string][]string{
		"A": {"B", "C"},
		"B": {"C"},
		"C": {},
	}, loadAndSolve(t, chain+"fixed:\n  - [A, C]\n", true))
}

func TestSolveCycle(t *testing.T) {
	c, err := ParseConstraints(strings.NewReader(`
types:
  - name: A
    supertypes: [B]
  - name: B
    supertypes: [A]
`))
	require.NoError(t, err)
	_, err = Solve(c, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, constraints.ErrUnsatisfiable))

	var coded constraints.CodedError
	require.True(t, errors.As(err, &coded))
	assert.Equal(t, constraints.GraphCycle, coded.Code())
}

func TestParseConstraintsRejectsBadInput(t *testing.T) {
	testCases := map[string]string{
		"unknown field":     "types: []\nsupers: []\n",
		"missing name":      "types:\n  - supertypes: [B]\n",
		"duplicate type":    "types:\n  - name: A\n  - name: A\n",
		"empty supertype":   "types:\n  - name: A\n    supertypes: ['']\n",
		"undeclared fixed":  "types:\n  - name: A\n    supertypes: [B]\nfixed:\n  - [B, A]\n",
		"malformed fixed":   "types:\n  - name: A\n    supertypes: [B]\nfixed:\n  - [A]\n",
		"not a mapping":     "- A\n",
		"supertypes scalar": "types:\n  - name: A\n    supertypes: B\n",
	}
	for name, data := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConstraints(strings.NewReader(data))
			assert.Error(t, err)
		})
	}
}

func TestParseEmptyConstraints(t *testing.T) {
	c, err := ParseConstraints(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, c.Graph.VertexCount())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadConstraints(testFS(nil), "missing.yaml")
	assert.Error(t, err)
}

func TestDuplicateSupertypeIsIgnored(t *testing.T) {
	c, err := ParseConstraints(strings.NewReader("types:\n  - name: A\n    supertypes: [B, B]\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, c.Graph.EdgeCount())
}

func TestWriteSolutionRoundTrips(t *testing.T) {
	c, err := ParseConstraints(strings.NewReader(chain))
	require.NoError(t, err)
	solution, err := Solve(c, true)
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, WriteSolution(buf, solution))
	out := buf.String()
	assert.Contains(t, out, "name: A")
	assert.Contains(t, out, "supertypes: [B]")
	assert.Contains(t, out, "supertypes: []")
	assert.NotContains(t, out, "fixed")

	reloaded, err := ParseConstraints(strings.NewReader(out))
	require.NoError(t, err)
	again, err := Solve(reloaded, true)
	require.NoError(t, err)
	assert.Equal(t, solution.AsMap(), again.AsMap())
	assert.Equal(t, solution.Vertices(), again.Vertices())
}

func TestFromRequirements(t *testing.T) {
	list := dataflow.ObjectLeaf("java/util/ArrayList")
	r := &dataflow.Requirements{}
	r.Require(dataflow.FromLeaf(list), "java/util/List")
	r.Require(dataflow.FromLeaf(list), "java/util/Collection")
	r.Require(dataflow.FromLeaf(dataflow.ObjectLeaf("java/util/List")), "java/util/Collection")

	solution, err := Solve(FromRequirements(r), true)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"java/util/ArrayList":  {"java/util/List"},
		"java/util/List":       {"java/util/Collection"},
		"java/util/Collection": {},
	}, solution.AsMap())
}

func TestMergeDescriptors(t *testing.T) {
	v, err := MergeDescriptors("Ljava/lang/String;", "Lnull;", "Ljava/lang/Integer;", "Ljava/lang/String;")
	require.NoError(t, err)
	assert.Equal(t, dataflow.Merged, v.Kind())
	assert.Equal(t, 2, v.Leaves().Len())

	v, err = MergeDescriptors("I", "F")
	require.NoError(t, err)
	assert.Same(t, dataflow.UninitializedValue(), v)

	_, err = MergeDescriptors("I", "Lbroken")
	assert.Error(t, err)
	_, err = MergeDescriptors()
	assert.Error(t, err)
}
