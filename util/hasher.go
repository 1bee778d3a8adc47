package util

import (
	"github.com/benbjohnson/immutable"
	"hash/maphash"
)

// ComparableHasher returns an immutable.Hasher for any comparable type,
// for keys that immutable.NewHasher cannot handle (structs, pointers, interfaces)
func ComparableHasher[A comparable]() immutable.Hasher[A] {
	return comparableHasher[A]{seed: maphash.MakeSeed()}
}

type comparableHasher[A comparable] struct {
	seed maphash.Seed
}

func (h comparableHasher[A]) Hash(key A) uint32 {
	return uint32(maphash.Comparable(h.seed, key))
}

func (h comparableHasher[A]) Equal(a, b A) bool {
	return a == b
}
