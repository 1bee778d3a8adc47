package dataflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cottand/phantom/constraints"
	"github.com/cottand/phantom/util"
)

var (
	ErrIncompatibleFrames = errors.New("incompatible frames")
	ErrStackUnderflow     = errors.New("cannot pop operand off an empty stack")
)

// Frame is the state of the local variables and the operand stack at one program point
type Frame struct {
	locals []*CompoundValue
	stack  []*CompoundValue
}

var _ util.Copyable[*Frame] = (*Frame)(nil)

// NewFrame returns a frame with nLocals uninitialized locals and an empty stack
func NewFrame(nLocals int) *Frame {
	locals := make([]*CompoundValue, nLocals)
	for i := range locals {
		locals[i] = uninitializedValue
	}
	return &Frame{locals: locals}
}

func (f *Frame) Locals() int    { return len(f.locals) }
func (f *Frame) StackSize() int { return len(f.stack) }

func (f *Frame) Local(i int) *CompoundValue {
	constraints.Require(i >= 0 && i < len(f.locals), "local %d out of range [0, %d)", i, len(f.locals))
	return f.locals[i]
}

func (f *Frame) SetLocal(i int, v *CompoundValue) {
	constraints.Require(i >= 0 && i < len(f.locals), "local %d out of range [0, %d)", i, len(f.locals))
	constraints.Require(v != nil, "cannot store nil in local %d", i)
	f.locals[i] = v
}

// Stack returns the i-th operand from the bottom of the stack
func (f *Frame) Stack(i int) *CompoundValue {
	constraints.Require(i >= 0 && i < len(f.stack), "stack slot %d out of range [0, %d)", i, len(f.stack))
	return f.stack[i]
}

func (f *Frame) Push(v *CompoundValue) {
	constraints.Require(v != nil, "cannot push nil")
	f.stack = append(f.stack, v)
}

func (f *Frame) Pop() (*CompoundValue, error) {
	if len(f.stack) == 0 {
		return nil, ErrStackUnderflow
	}
	top := f.stack[len(f.stack)-1]
	f.stack = f.stack[:len(f.stack)-1]
	return top, nil
}

func (f *Frame) ClearStack() {
	f.stack = f.stack[:0]
}

// Merge joins other into f slot by slot, and reports whether any slot of f changed.
// Frames must agree on the number of locals and on the stack height.
func (f *Frame) Merge(other *Frame) (changed bool, err error) {
	if len(f.locals) != len(other.locals) {
		return false, fmt.Errorf("%w: %d locals against %d", ErrIncompatibleFrames, len(f.locals), len(other.locals))
	}
	if len(f.stack) != len(other.stack) {
		return false, fmt.Errorf("%w: stack heights %d and %d", ErrIncompatibleFrames, len(f.stack), len(other.stack))
	}
	changed = mergeSlots(f.locals, other.locals)
	changed = mergeSlots(f.stack, other.stack) || changed
	return changed, nil
}

func mergeSlots(into, from []*CompoundValue) (changed bool) {
	for i := range into {
		merged := Merge(into[i], from[i])
		if !merged.Equal(into[i]) {
			into[i] = merged
			changed = true
		}
	}
	return changed
}

// Copy returns a frame with the same slots. Values are immutable, so they are shared.
func (f *Frame) Copy() *Frame {
	return &Frame{
		locals: append([]*CompoundValue(nil), f.locals...),
		stack:  append([]*CompoundValue(nil), f.stack...),
	}
}

func (f *Frame) String() string {
	sb := &strings.Builder{}
	for _, v := range f.locals {
		sb.WriteString(v.String())
	}
	sb.WriteString(" ")
	for _, v := range f.stack {
		sb.WriteString(v.String())
	}
	return sb.String()
}
