//go:build js && wasm

package phantom

import (
	"errors"
	"fmt"
	"strings"
	"syscall/js"

	"github.com/cottand/phantom/constraints"
)

// SolveAndShowHierarchy solves the constraint file passed as the first argument,
// minimizing unless the second argument is false.
//
// output: { error: string } | { hierarchy: string }
func SolveAndShowHierarchy(_ js.Value, args []js.Value) (ret any) {
	errorObj := func(err string) any {
		return js.ValueOf(map[string]any{
			"error": err,
		})
	}
	defer func() {
		if r := recover(); r != nil {
			ret = errorObj("solver panicked: " + fmt.Sprint(r))
		}
	}()

	minimize := true
	if len(args) > 1 && args[1].Type() == js.TypeBoolean {
		minimize = args[1].Bool()
	}

	c, err := ParseConstraints(strings.NewReader(args[0].String()))
	if err != nil {
		return errorObj(err.Error())
	}
	solution, err := Solve(c, minimize)
	if err != nil {
		var coded constraints.CodedError
		if errors.As(err, &coded) {
			return errorObj(constraints.FormatWithCode(coded))
		}
		return errorObj(err.Error())
	}

	sb := &strings.Builder{}
	if err := WriteSolution(sb, solution); err != nil {
		return errorObj(err.Error())
	}
	return js.ValueOf(map[string]any{
		"hierarchy": sb.String(),
	})
}

// MergeAndShowValue merges the descriptors passed as arguments and
// shows the resulting value
func MergeAndShowValue(_ js.Value, args []js.Value) (ret any) {
	defer func() {
		if r := recover(); r != nil {
			ret = "merge panicked: " + fmt.Sprint(r)
		}
	}()

	descs := make([]string, 0, len(args))
	for _, arg := range args {
		descs = append(descs, arg.String())
	}
	v, err := MergeDescriptors(descs...)
	if err != nil {
		return fmt.Sprintf("could not merge: %s", err)
	}
	return v.String()
}
