//go:build !(js || wasm)

package main

import (
	"os"

	"github.com/cottand/phantom/cmd"
	"github.com/spf13/cobra"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "phantom [subcommand]",
	Short:        "phantom 👻\n infers the subtyping hierarchy of types that are used but never declared",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(cmd.SolveCmd)
	rootCmd.AddCommand(cmd.MergeCmd)
}
