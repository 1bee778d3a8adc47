package constraints

import (
	"github.com/cottand/phantom/util"
	"github.com/hashicorp/go-set/v3"
)

// RemovablePolicy decides whether the edge source -> target may be dropped when it is
// implied by other paths of the constraint graph
type RemovablePolicy[V comparable] func(source, target V) bool

// AlwaysRemovable accepts every edge
func AlwaysRemovable[V comparable](V, V) bool {
	return true
}

// KeepEdges returns a policy which refuses to remove the given edges and accepts every other one
func KeepEdges[V comparable](keep ...util.Pair[V, V]) RemovablePolicy[V] {
	fixed := set.From(keep)
	return func(source, target V) bool {
		return !fixed.Contains(util.NewPair(source, target))
	}
}
