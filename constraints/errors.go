package constraints

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
)

type ErrCode int

const (
	None ErrCode = iota
	Unsatisfiable
	GraphCycle
	Precondition
)

var (
	// ErrUnsatisfiable is matched by every error meaning no solution exists for a constraint graph
	ErrUnsatisfiable = errors.New("unsatisfiable constraints")
	// ErrPrecondition is matched by every PreconditionError
	ErrPrecondition = errors.New("precondition violated")
)

// CodedError is implemented by all errors of this package
type CodedError interface {
	error
	Code() ErrCode
}

func FormatWithCode(e CodedError) string {
	return fmt.Sprintf("(E%03d) %s", e.Code(), e.Error())
}

// GraphCycleError reports that the constraint graph has a cycle, so no
// single-inheritance-compatible hierarchy exists
type GraphCycleError[V comparable] struct {
	// Cycle is one witness cycle: each vertex has an edge to the next, and the last to the first
	Cycle []V
}

func (e *GraphCycleError[V]) Error() string {
	if len(e.Cycle) == 0 {
		return "constraint graph contains a cycle"
	}
	steps := make([]string, 0, len(e.Cycle)+1)
	for _, v := range e.Cycle {
		steps = append(steps, fmt.Sprint(v))
	}
	steps = append(steps, fmt.Sprint(e.Cycle[0]))
	return fmt.Sprintf("constraint graph contains a cycle: %s", strings.Join(steps, " -> "))
}

func (e *GraphCycleError[V]) Code() ErrCode { return GraphCycle }
func (e *GraphCycleError[V]) Unwrap() error { return ErrUnsatisfiable }
func (e *GraphCycleError[V]) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("code", int(e.Code())),
		slog.Int("length", len(e.Cycle)),
		slog.String("msg", e.Error()),
	)
}

// NewGraphCycle returns a GraphCycleError carrying the stack it was created at
func NewGraphCycle[V comparable](cycle []V) error {
	return errors.WithStack(&GraphCycleError[V]{Cycle: cycle})
}

// PreconditionError signals misuse of this module by its caller, such as querying an edge
// which is not in the graph, or merging values which can never be merged.
//
// It is raised with panic and never returned, as it denotes a bug upstream rather than
// an analysis outcome.
type PreconditionError struct {
	Reason string
	cause  error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition violated: %s", e.Reason)
}
func (e *PreconditionError) Code() ErrCode { return Precondition }
func (e *PreconditionError) Unwrap() error { return ErrPrecondition }

// StackTrace returns the stack captured when the precondition failed
func (e *PreconditionError) StackTrace() errors.StackTrace {
	var tracer interface{ StackTrace() errors.StackTrace }
	if errors.As(e.cause, &tracer) {
		return tracer.StackTrace()
	}
	return nil
}

// Violated panics with a *PreconditionError built from format and args
func Violated(format string, args ...any) {
	reason := fmt.Sprintf(format, args...)
	panic(&PreconditionError{Reason: reason, cause: errors.New(reason)})
}

// Require panics with a *PreconditionError unless cond holds
func Require(cond bool, format string, args ...any) {
	if !cond {
		Violated(format, args...)
	}
}
