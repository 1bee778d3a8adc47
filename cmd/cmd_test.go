package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const diamond = `types:
  - name: D
    supertypes: [B, C, A]
  - name: B
    supertypes: [A]
  - name: C
    supertypes: [A]
`

func writeConstraints(t *testing.T, data string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "constraints.yaml")
	require.NoError(t, os.WriteFile(p, []byte(data), 0o644))
	return p
}

func resetSolveFlags(t *testing.T) {
	t.Cleanup(func() {
		*solveOutPath = ""
		*noMinimize = false
	})
}

func TestSolveToStdout(t *testing.T) {
	resetSolveFlags(t)
	out := &bytes.Buffer{}
	SolveCmd.SetOut(out)
	SolveCmd.SetArgs([]string{writeConstraints(t, diamond)})
	require.NoError(t, SolveCmd.Execute())

	assert.Contains(t, out.String(), "name: D")
	assert.Contains(t, out.String(), "supertypes: [B, C]")
	assert.NotContains(t, out.String(), "[B, C, A]")
}

func TestSolveToFileWithoutMinimizing(t *testing.T) {
	resetSolveFlags(t)
	target := filepath.Join(t.TempDir(), "solution.yaml")
	SolveCmd.SetArgs([]string{"--no-minimize", "--out", target, writeConstraints(t, diamond)})
	require.NoError(t, SolveCmd.Execute())

	written, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(written), "supertypes: [B, C, A]")
}

func TestSolveReportsCycleWithCode(t *testing.T) {
	resetSolveFlags(t)
	SolveCmd.SetOut(&bytes.Buffer{})
	SolveCmd.SetErr(&bytes.Buffer{})
	SolveCmd.SetArgs([]string{writeConstraints(t, "types:\n  - name: A\n    supertypes: [A]\n")})
	err := SolveCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "(E002)")
}

func TestMergePrintsLeaves(t *testing.T) {
	out := &bytes.Buffer{}
	MergeCmd.SetOut(out)
	MergeCmd.SetArgs([]string{"Ljava/lang/String;", "Lnull;", "Ljava/lang/Integer;"})
	require.NoError(t, MergeCmd.Execute())

	assert.Contains(t, out.String(), "kind:   merged")
	assert.Contains(t, out.String(), "width:  1")
	assert.Contains(t, out.String(), "leaves: {Ljava/lang/Integer;, Ljava/lang/String;}")
}

func TestMergeRejectsBadDescriptor(t *testing.T) {
	MergeCmd.SetOut(&bytes.Buffer{})
	MergeCmd.SetErr(&bytes.Buffer{})
	MergeCmd.SetArgs([]string{"Q"})
	assert.Error(t, MergeCmd.Execute())
}
