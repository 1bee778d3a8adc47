package dataflow

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/cottand/phantom/util"
)

// Leaf is an atomic runtime type as seen by dataflow analysis: a primitive stack
// category, a reference type, or one of the sentinels Uninitialized and Null.
//
// Leaf values are comparable with ==, immutable, and safe to share.
type Leaf struct {
	desc string
	wide bool
}

var (
	// Uninitialized is a slot which does not hold a determinate value yet
	Uninitialized = Leaf{}
	// Null is the type of the null constant
	Null = Leaf{desc: "Lnull;"}
	// ReturnAddress is the type of a subroutine return address
	ReturnAddress = Leaf{desc: "A"}

	Int    = Leaf{desc: "I"}
	Float  = Leaf{desc: "F"}
	Long   = Leaf{desc: "J", wide: true}
	Double = Leaf{desc: "D", wide: true}
)

// LeafOf returns the Leaf for a field type descriptor such as "I", "Ljava/lang/Object;" or "[J".
// Sub-int primitives (Z, B, C, S) share the int stack category.
func LeafOf(desc string) (Leaf, error) {
	if desc == "" {
		return Leaf{}, fmt.Errorf("empty type descriptor")
	}
	switch desc[0] {
	case 'Z', 'B', 'C', 'S', 'I':
		if len(desc) == 1 {
			return Int, nil
		}
	case 'F':
		if len(desc) == 1 {
			return Float, nil
		}
	case 'J':
		if len(desc) == 1 {
			return Long, nil
		}
	case 'D':
		if len(desc) == 1 {
			return Double, nil
		}
	case 'L':
		name, rest := util.StringTakeUntil(desc[1:], ';')
		if name != "" && rest == "" && strings.HasSuffix(desc, ";") {
			return Leaf{desc: desc}, nil
		}
	case '[':
		elem := strings.TrimLeft(desc, "[")
		if _, err := LeafOf(elem); err == nil && elem != Null.desc {
			return Leaf{desc: desc}, nil
		}
	}
	return Leaf{}, fmt.Errorf("invalid type descriptor %q", desc)
}

// MustLeaf is like LeafOf but panics on an invalid descriptor
func MustLeaf(desc string) Leaf {
	l, err := LeafOf(desc)
	if err != nil {
		panic(err)
	}
	return l
}

// ObjectLeaf returns the reference Leaf for an internal class name such as "java/lang/String"
func ObjectLeaf(internalName string) Leaf {
	return Leaf{desc: "L" + internalName + ";"}
}

// Descriptor returns the type descriptor of l, or the empty string for Uninitialized
func (l Leaf) Descriptor() string {
	return l.desc
}

// Width is the number of stack or local slots a value of this type occupies
func (l Leaf) Width() int {
	if l.wide {
		return 2
	}
	return 1
}

func (l Leaf) IsReference() bool {
	return l.desc != "" && (l.desc[0] == 'L' || l.desc[0] == '[')
}

func (l Leaf) IsUninitialized() bool {
	return l == Uninitialized
}

func (l Leaf) IsNull() bool {
	return l == Null
}

// ClassName returns the internal name of the class of a non-null, non-array reference
func (l Leaf) ClassName() (string, bool) {
	if l == Null || l.desc == "" || l.desc[0] != 'L' {
		return "", false
	}
	return l.desc[1 : len(l.desc)-1], true
}

// Hash is the FNV-1a hash of the descriptor
func (l Leaf) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(l.desc))
	return h.Sum64()
}

func (l Leaf) String() string {
	if l == Uninitialized {
		return "."
	}
	return l.desc
}

type leafHasher struct{}

func (leafHasher) Hash(l Leaf) uint32 {
	return uint32(l.Hash())
}

func (leafHasher) Equal(a, b Leaf) bool {
	return a == b
}
