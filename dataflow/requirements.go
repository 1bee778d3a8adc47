package dataflow

import (
	"slices"

	"github.com/cottand/phantom/graph"
	"github.com/cottand/phantom/util"
	"github.com/hashicorp/go-set/v3"
)

// Requirement states that whatever a slot holds must be assignable to Target,
// an internal class name
type Requirement struct {
	Value  *CompoundValue
	Target string
}

// sources returns the class names of the leaves of the value, sorted by descriptor.
// Null, arrays, primitives and uninitialized slots have none.
func (r Requirement) sources() []string {
	if r.Value == nil || !r.Value.IsReference() {
		return nil
	}
	isClass := func(l Leaf) bool {
		_, ok := l.ClassName()
		return ok
	}
	className := func(l Leaf) string {
		name, _ := l.ClassName()
		return name
	}
	return slices.Collect(util.MapIter(util.FilterIter(slices.Values(r.Value.LeafSlice()), isClass), className))
}

// Requirements collects assignability facts observed during dataflow analysis, in order,
// and lowers them to constraint graph edges
type Requirements struct {
	reqs []Requirement
}

// Require records that v must be assignable to target
func (r *Requirements) Require(v *CompoundValue, target string) {
	r.reqs = append(r.reqs, Requirement{Value: v, Target: target})
}

func (r *Requirements) Len() int {
	return len(r.reqs)
}

// Edges lowers every requirement to one edge per class in its value's leaf-set.
// Self edges are dropped and duplicates are kept once, at their first occurrence.
func (r *Requirements) Edges() []util.Pair[string, string] {
	seen := set.New[util.Pair[string, string]](len(r.reqs))
	var out []util.Pair[string, string]
	for _, req := range r.reqs {
		for _, source := range req.sources() {
			e := util.NewPair(source, req.Target)
			if source != req.Target && seen.Insert(e) {
				out = append(out, e)
			}
		}
	}
	return out
}

// Into adds the edges of r to g and returns how many were added
func (r *Requirements) Into(g graph.Builder[string]) int {
	added := 0
	for _, e := range r.Edges() {
		if _, ok := g.AddEdge(e.Unpack()); ok {
			added++
		}
	}
	logger.Debug("lowered requirements to constraints", "requirements", len(r.reqs), "edges", added)
	return added
}
