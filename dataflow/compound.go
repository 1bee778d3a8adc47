// Package dataflow holds the value lattice used when analysing instruction sequences.
//
// Each storage slot (local variable or operand stack entry) at a program point holds a
// CompoundValue: the join of every Leaf type observed for that slot along the paths
// reaching the point. Merge computes that join where control flow meets.
package dataflow

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/benbjohnson/immutable"
	"github.com/cottand/phantom/constraints"
	"github.com/cottand/phantom/internal/log"
)

var logger = log.DefaultLogger.With("section", "dataflow")

type Kind int

const (
	// Simple values wrap exactly one Leaf
	Simple Kind = iota
	// Merged values are the union of two reference values neither of which subsumes the other
	Merged
)

func (k Kind) String() string {
	switch k {
	case Simple:
		return "simple"
	case Merged:
		return "merged"
	}
	return "unknown"
}

// CompoundValue is an immutable element of the merge lattice.
//
// Its leaf-set is empty exactly when it is the null constant; the uninitialized
// sentinel never appears in the leaf-set of a Merged value.
type CompoundValue struct {
	kind Kind

	// Simple
	leaf Leaf

	// Merged
	left, right *CompoundValue

	leaves immutable.Set[Leaf]
	hash   uint64
}

var emptyLeaves = immutable.NewSet[Leaf](leafHasher{})

var uninitializedValue = FromLeaf(Uninitialized)

// UninitializedValue is the shared CompoundValue wrapping Uninitialized, which every
// merge of non-reference values collapses to
func UninitializedValue() *CompoundValue {
	return uninitializedValue
}

// FromLeaf wraps l in a Simple value
func FromLeaf(l Leaf) *CompoundValue {
	leaves := emptyLeaves
	if l != Null {
		leaves = leaves.Add(l)
	}
	return &CompoundValue{
		kind:   Simple,
		leaf:   l,
		leaves: leaves,
		hash:   l.Hash(),
	}
}

// Merge returns the join of left and right. It never mutates either operand, and returns
// one of them unchanged whenever it already is the join.
//
// Merging anything with a non-reference value yields UninitializedValue, unless both
// operands are equal. Merging reference values of different widths is a precondition
// violation.
func Merge(left, right *CompoundValue) *CompoundValue {
	constraints.Require(left != nil && right != nil, "cannot merge nil values (%v, %v)", left, right)

	if left.Equal(right) {
		return left
	}

	if !left.IsReference() || !right.IsReference() {
		// a primitive mismatch is not rejected here, it collapses like an uninitialized slot
		return uninitializedValue
	}

	if left.IsEmpty() || right.contains(left) {
		return right
	}

	if right.IsEmpty() || left.contains(right) {
		return left
	}

	merged := newMerged(left, right)
	logger.Debug("merged values", "left", left, "right", right, "leaves", merged.leaves.Len())
	return merged
}

func newMerged(left, right *CompoundValue) *CompoundValue {
	constraints.Require(left.Width() == right.Width(),
		"cannot merge values of different widths: %v (%d) and %v (%d)", left, left.Width(), right, right.Width())
	constraints.Require(left.IsReference(), "cannot merge non-reference value %v", left)
	constraints.Require(right.IsReference(), "cannot merge non-reference value %v", right)

	leaves := left.leaves
	itr := right.leaves.Iterator()
	for !itr.Done() {
		l, _ := itr.Next()
		leaves = leaves.Add(l)
	}

	var hash uint64
	itr = leaves.Iterator()
	for !itr.Done() {
		l, _ := itr.Next()
		constraints.Require(l != Uninitialized, "uninitialized value participates in merge of %v and %v", left, right)
		hash += l.Hash()
	}

	// leaf-sets strictly grow, which bounds merge depth by the number of distinct leaves
	constraints.Require(leaves.Len() > 1, "merged value of %v and %v has fewer than two leaves", left, right)
	constraints.Require(leaves.Len() > left.leaves.Len() && leaves.Len() > right.leaves.Len(),
		"merge of %v and %v does not grow the leaf-set", left, right)

	return &CompoundValue{
		kind:   Merged,
		left:   left,
		right:  right,
		leaves: leaves,
		hash:   hash,
	}
}

func (c *CompoundValue) Kind() Kind {
	return c.kind
}

// Width is the number of slots the value occupies. Both children of a Merged value agree on it.
func (c *CompoundValue) Width() int {
	if c.kind == Merged {
		return c.left.Width()
	}
	return c.leaf.Width()
}

func (c *CompoundValue) IsReference() bool {
	if c.kind == Merged {
		return true
	}
	return c.leaf.IsReference()
}

// AsLeaf returns the wrapped Leaf of a Simple value
func (c *CompoundValue) AsLeaf() (Leaf, bool) {
	if c.kind == Merged {
		return Leaf{}, false
	}
	return c.leaf, true
}

// IsEmpty reports whether the leaf-set is empty, which is the case only for the null constant
func (c *CompoundValue) IsEmpty() bool {
	return c.leaves.Len() == 0
}

// Leaves returns the leaf-set
func (c *CompoundValue) Leaves() immutable.Set[Leaf] {
	return c.leaves
}

// LeafSlice returns the leaf-set sorted by descriptor
func (c *CompoundValue) LeafSlice() []Leaf {
	out := c.leaves.Items()
	slices.SortFunc(out, func(a, b Leaf) int {
		return strings.Compare(a.desc, b.desc)
	})
	return out
}

// Children returns the two operands a Merged value was built from
func (c *CompoundValue) Children() (left, right *CompoundValue, ok bool) {
	if c.kind != Merged {
		return nil, nil, false
	}
	return c.left, c.right, true
}

func (c *CompoundValue) contains(other *CompoundValue) bool {
	if other.leaves.Len() > c.leaves.Len() {
		return false
	}
	itr := other.leaves.Iterator()
	for !itr.Done() {
		l, _ := itr.Next()
		if !c.leaves.Has(l) {
			return false
		}
	}
	return true
}

// Equal compares Simple values by their Leaf and Merged values by their leaf-sets,
// regardless of the order they were merged in
func (c *CompoundValue) Equal(other *CompoundValue) bool {
	if c == other {
		return true
	}
	if c == nil || other == nil || c.kind != other.kind {
		return false
	}
	if c.kind == Simple {
		return c.leaf == other.leaf
	}
	return c.hash == other.hash && c.leaves.Len() == other.leaves.Len() && c.contains(other)
}

// Hash is consistent with Equal
func (c *CompoundValue) Hash() uint64 {
	return c.hash
}

func (c *CompoundValue) String() string {
	if c == nil {
		return "<nil>"
	}
	if c.kind == Merged {
		return "(" + c.left.String() + "," + c.right.String() + ")"
	}
	return c.leaf.String()
}

func (c *CompoundValue) LogValue() slog.Value {
	return slog.StringValue(c.String())
}
