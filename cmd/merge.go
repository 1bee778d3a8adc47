package cmd

import (
	"fmt"
	"log/slog"

	"github.com/cottand/phantom/dataflow"
	"github.com/cottand/phantom/internal/log"
	"github.com/cottand/phantom/phantom"
	"github.com/cottand/phantom/util"
	"github.com/spf13/cobra"
)

var MergeCmd = &cobra.Command{
	Use:          "merge descriptor descriptor...",
	Short:        "Merge the values of field type descriptors as the dataflow analysis would",
	Example:      "phantom merge Ljava/lang/String; Ljava/lang/Integer; Lnull;",
	RunE:         runMerge,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

var mergeLogLevel *int

func init() {
	mergeLogLevel = MergeCmd.Flags().IntP("log-level", "l", int(slog.LevelWarn), "log level")
}

func runMerge(cmd *cobra.Command, args []string) error {
	log.SetLevel(slog.Level(*mergeLogLevel))

	v, err := phantom.MergeDescriptors(args...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "value:  %s\n", v)
	_, _ = fmt.Fprintf(out, "kind:   %s\n", v.Kind())
	_, _ = fmt.Fprintf(out, "width:  %d\n", v.Width())
	_, _ = fmt.Fprintf(out, "leaves: {%s}\n", util.JoinSorted(v.LeafSlice(), dataflow.Leaf.Descriptor, ", "))
	return nil
}
