// Package phantom loads subtyping constraints, solves them into a type hierarchy and
// writes the hierarchy back out.
package phantom

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/cottand/phantom/constraints"
	"github.com/cottand/phantom/constraints/solvers"
	"github.com/cottand/phantom/dataflow"
	"github.com/cottand/phantom/graph"
	"github.com/cottand/phantom/internal/log"
	"github.com/cottand/phantom/util"
	"github.com/hashicorp/go-set/v3"
	"gopkg.in/yaml.v3"
)

var logger = log.DefaultLogger.With("section", "phantom")

// typeDecl is one entry of a constraint file: name must be assignable to each of supertypes
type typeDecl struct {
	Name       string   `yaml:"name"`
	Supertypes []string `yaml:"supertypes,flow"`
}

type constraintFile struct {
	Types []typeDecl `yaml:"types"`
	// Fixed edges are never dropped when minimizing
	Fixed [][]string `yaml:"fixed,omitempty,flow"`
}

// Constraints is a constraint graph together with the edges that must survive minimization
type Constraints struct {
	Graph *graph.Directed[string]
	Fixed []util.Pair[string, string]
}

func NewConstraints() *Constraints {
	return &Constraints{Graph: graph.NewDirected[string]()}
}

// FromRequirements builds constraints out of the assignability requirements collected
// while analysing code
func FromRequirements(r *dataflow.Requirements) *Constraints {
	c := NewConstraints()
	added := r.Into(c.Graph)
	logger.Debug("built constraints from requirements", "requirements", r.Len(), "edges", added)
	return c
}

// Policy returns the removable-edge policy which keeps c.Fixed
func (c *Constraints) Policy() constraints.RemovablePolicy[string] {
	return constraints.KeepEdges(c.Fixed...)
}

// LoadConstraints reads the constraint file at path in fsys
func LoadConstraints(fsys fs.FS, path string) (*Constraints, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open constraint file: %w", err)
	}
	defer f.Close()

	c, err := ParseConstraints(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParseConstraints decodes a constraint file. Unknown fields are rejected, and every
// fixed edge must be declared under types.
func ParseConstraints(r io.Reader) (*Constraints, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file constraintFile
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("could not decode constraints: %w", err)
	}

	c := NewConstraints()
	declared := set.New[string](len(file.Types))
	for i, decl := range file.Types {
		if decl.Name == "" {
			return nil, fmt.Errorf("type %d has no name", i)
		}
		if !declared.Insert(decl.Name) {
			return nil, fmt.Errorf("type %s is declared more than once", decl.Name)
		}
		c.Graph.AddVertex(decl.Name)
		for _, super := range decl.Supertypes {
			if super == "" {
				return nil, fmt.Errorf("type %s has an empty supertype", decl.Name)
			}
			if c.Graph.ContainsEdgeBetween(decl.Name, super) {
				logger.Warn("duplicate supertype ignored", "type", decl.Name, "supertype", super)
				continue
			}
			c.Graph.AddEdge(decl.Name, super)
		}
	}

	for _, edge := range file.Fixed {
		if len(edge) != 2 {
			return nil, fmt.Errorf("fixed edge %v must name exactly a type and a supertype", edge)
		}
		if !c.Graph.ContainsEdgeBetween(edge[0], edge[1]) {
			return nil, fmt.Errorf("fixed edge %s -> %s is not declared under types", edge[0], edge[1])
		}
		c.Fixed = append(c.Fixed, util.NewPair(edge[0], edge[1]))
	}

	logger.Debug("loaded constraints", "types", c.Graph.VertexCount(), "edges", c.Graph.EdgeCount(), "fixed", len(c.Fixed))
	return c, nil
}

// Solve assigns every type of c its direct supertypes. c.Graph is mutated when minimizing.
func Solve(c *Constraints, minimize bool) (constraints.Solution[string], error) {
	solver := solvers.NewMultipleInheritance(c.Graph,
		solvers.WithMinimize[string](minimize),
		solvers.WithRemovable(c.Policy()),
	)
	solution, err := solver.Solve()
	if err != nil {
		return constraints.Solution[string]{}, fmt.Errorf("could not solve constraints: %w", err)
	}
	return solution, nil
}

// WriteSolution renders solution as a constraint file, one entry per type in solution order
func WriteSolution(w io.Writer, solution constraints.Solution[string]) error {
	file := constraintFile{Types: make([]typeDecl, 0, solution.Len())}
	for v, supers := range solution.All() {
		file.Types = append(file.Types, typeDecl{Name: v, Supertypes: supers})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&file); err != nil {
		return fmt.Errorf("could not encode solution: %w", err)
	}
	return enc.Close()
}
