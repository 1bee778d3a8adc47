package util

import "fmt"

// Pair is an ordered pair, comparable whenever both element types are
type Pair[A, B any] struct {
	Fst A
	Snd B
}

func NewPair[A, B any](fst A, snd B) Pair[A, B] {
	return Pair[A, B]{
		Fst: fst,
		Snd: snd,
	}
}

// Unpack returns both elements, so that a Pair can be destructured in a single assignment
func (p Pair[A, B]) Unpack() (A, B) {
	return p.Fst, p.Snd
}

func (p Pair[A, B]) String() string {
	return fmt.Sprintf("(%v, %v)", p.Fst, p.Snd)
}

// Copyable is implemented by mutable values that can produce an independent copy of themselves
type Copyable[A any] interface {
	Copy() A
}
