package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/kmonadfmt/pkg/errors"
	"github.com/matzehuels/kmonadfmt/pkg/pipeline"
	"github.com/matzehuels/kmonadfmt/pkg/source"
)

// fmtCommand creates the fmt command.
func (c *CLI) fmtCommand() *cobra.Command {
	var (
		check   bool
		stdout  bool
		noCache bool
		jobs    int
	)

	cmd := &cobra.Command{
		Use:   "fmt [paths...]",
		Short: "Align (deflayer) blocks to the (defsrc) grid",
		Long: `Align every (deflayer) block with as many keys as (defsrc) to the (defsrc) column grid.

Directories are searched recursively for files with a configured extension
(default .kbd); "dir/..." is accepted as well. Use "-" to read standard input
and write the result to standard output.

Layers with a different number of keys are left untouched and reported.
Comments between the keys of a formatted layer are removed.`,
		Example: `  kmonadfmt fmt config.kbd
  kmonadfmt fmt --check ./...
  cat config.kbd | kmonadfmt fmt -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			mode := pipeline.ModeWrite
			switch {
			case check:
				mode = pipeline.ModeCheck
			case stdout:
				mode = pipeline.ModeStdout
			}

			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return err
			}
			defer runner.Close()
			if jobs > 0 {
				runner.Jobs = jobs
			}

			prog := newProgress(c.Logger)
			var results []pipeline.FileResult
			if len(args) == 1 && args[0] == stdinPath {
				src, err := readSource(cmd, stdinPath)
				if err != nil {
					return errs.Wrap(errs.ErrCodeInvalidInput, err, "read standard input")
				}
				if mode == pipeline.ModeWrite {
					mode = pipeline.ModeStdout
				}
				results = []pipeline.FileResult{runner.FormatSource(cmd.Context(), "<stdin>", src, mode)}
			} else {
				paths, err := source.Collect(args, c.config().Extensions)
				if err != nil {
					return err
				}
				if len(paths) == 0 {
					printInfo("No %s files found", strings.Join(c.config().Extensions, ", "))
					return nil
				}
				results, err = runner.Run(cmd.Context(), paths, mode)
				if err != nil {
					return err
				}
			}
			prog.done(fmt.Sprintf("Processed %d files", len(results)))

			return report(cmd.OutOrStdout(), results, mode)
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "report unformatted files without changing them")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "print formatted text instead of rewriting files")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "ignore clean-file markers")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "files formatted in parallel (default: config, then CPU count)")
	cmd.MarkFlagsMutuallyExclusive("check", "stdout")

	return cmd
}

// report prints the outcome of a fmt run and returns an error when any file
// failed or, in check mode, needs formatting.
func report(out io.Writer, results []pipeline.FileResult, mode pipeline.Mode) error {
	sum := pipeline.Summarize(results)

	for _, r := range results {
		if r.Err != nil {
			printError("%s: %s", r.Path, errs.UserMessage(r.Err))
			continue
		}
		if len(r.Skipped) > 0 {
			printWarning("%s: skipped layers with a different key count: %s", r.Path, strings.Join(r.Skipped, ", "))
		}
		switch mode {
		case pipeline.ModeStdout:
			if _, err := io.WriteString(out, r.Output); err != nil {
				return err
			}
		case pipeline.ModeWrite:
			if r.Changed {
				printFile(r.Path)
			}
		}
	}

	if mode == pipeline.ModeCheck && (sum.Changed > 0 || sum.Failed > 0) {
		var flagged []pipeline.FileResult
		for _, r := range results {
			if r.Changed || r.Err != nil {
				flagged = append(flagged, r)
			}
		}
		fmt.Fprintln(statusOut, checkReport(flagged))
	}
	printStats(sum.Files, sum.Changed, sum.Cached)

	switch {
	case sum.Failed > 0:
		return errs.New(errs.ErrCodeInvalidInput, "%d of %d files could not be formatted", sum.Failed, sum.Files)
	case mode == pipeline.ModeCheck && sum.Changed > 0:
		printNextStep("Fix with", "kmonadfmt fmt")
		return errs.New(errs.ErrCodeNotFormatted, "%d of %d files are not formatted", sum.Changed, sum.Files)
	case mode == pipeline.ModeWrite:
		printSuccess("Formatted %d files", sum.Changed)
	}
	return nil
}
