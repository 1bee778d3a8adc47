package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cottand/phantom/constraints"
	"github.com/cottand/phantom/internal/log"
	"github.com/cottand/phantom/phantom"
	"github.com/spf13/cobra"
)

var logger = log.DefaultLogger.With("section", "cmd")

var SolveCmd = &cobra.Command{
	Use:          "solve file.yaml",
	Short:        "Solve a constraint file into a type hierarchy",
	RunE:         runSolve,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
}

var (
	solveOutPath *string
	noMinimize   *bool
	logLevel     *int
)

func init() {
	solveOutPath = SolveCmd.Flags().StringP("out", "o", "", "output path, stdout if empty")
	noMinimize = SolveCmd.Flags().Bool("no-minimize", false, "keep supertypes already inherited through another supertype")
	logLevel = SolveCmd.Flags().IntP("log-level", "l", int(slog.LevelWarn), "log level")
}

func runSolve(cmd *cobra.Command, args []string) error {
	log.SetLevel(slog.Level(*logLevel))

	target, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("could not get absolute path of target: %w", err)
	}

	c, err := phantom.LoadConstraints(os.DirFS(filepath.Dir(target)), filepath.Base(target))
	if err != nil {
		return err
	}

	solution, err := phantom.Solve(c, !*noMinimize)
	if err != nil {
		var coded constraints.CodedError
		if errors.As(err, &coded) {
			return fmt.Errorf("%s: %s", args[0], constraints.FormatWithCode(coded))
		}
		return err
	}
	logger.Info("solved constraints", "types", solution.Len(), "minimized", !*noMinimize)

	return writeTo(cmd.OutOrStdout(), *solveOutPath, func(w io.Writer) error {
		return phantom.WriteSolution(w, solution)
	})
}

// writeTo calls write on stdout, or on the file at path when it is not empty
func writeTo(stdout io.Writer, path string, write func(io.Writer) error) (err error) {
	if path == "" {
		return write(stdout)
	}
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("could not write to file: %w", closeErr)
		}
	}()
	return write(f)
}
