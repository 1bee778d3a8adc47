package phantom

import (
	"fmt"

	"github.com/cottand/phantom/dataflow"
)

// MergeDescriptors folds dataflow.Merge over the values of the given type descriptors, left to right
func MergeDescriptors(descs ...string) (*dataflow.CompoundValue, error) {
	if len(descs) == 0 {
		return nil, fmt.Errorf("nothing to merge")
	}
	var acc *dataflow.CompoundValue
	for _, desc := range descs {
		leaf, err := dataflow.LeafOf(desc)
		if err != nil {
			return nil, fmt.Errorf("could not parse descriptor: %w", err)
		}
		if acc == nil {
			acc = dataflow.FromLeaf(leaf)
			continue
		}
		acc = dataflow.Merge(acc, dataflow.FromLeaf(leaf))
	}
	logger.Debug("merged descriptors", "count", len(descs), "result", acc)
	return acc, nil
}
