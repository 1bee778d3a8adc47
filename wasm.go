//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/cottand/phantom/phantom"
)

func main() {
	js.Global().Set("SolveAndShowHierarchy", js.FuncOf(phantom.SolveAndShowHierarchy))
	js.Global().Set("MergeAndShowValue", js.FuncOf(phantom.MergeAndShowValue))

	// wait indefinitely so that Go does not terminate execution
	// and the function remains available
	<-make(chan struct{})
}
