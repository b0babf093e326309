package cli

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/kmonadfmt/pkg/errors"
	"github.com/matzehuels/kmonadfmt/pkg/format"
)

// widthCommand creates the width command.
func (c *CLI) widthCommand() *cobra.Command {
	var (
		width       int
		interactive bool
		stdout      bool
	)

	cmd := &cobra.Command{
		Use:   "width <file>",
		Short: "Pad every (defsrc) key to a fixed column width",
		Long: `Rewrite the (defsrc) block so that every key occupies the same number of
columns, keeping the block's line breaks. Fails without changes if a key
does not fit.

Run "kmonadfmt fmt" afterwards to realign the layers.`,
		Example: `  kmonadfmt width -w 6 config.kbd
  kmonadfmt width -i config.kbd`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			src, err := readSource(cmd, path)
			if err != nil {
				return err
			}

			f := c.formatter()
			if !cmd.Flags().Changed("width") {
				width = c.config().Width
			}
			if err := errs.ValidateWidth(width); err != nil {
				return err
			}
			if interactive {
				chosen, err := pickWidth(cmd, f, src, width)
				if err != nil || chosen == 0 {
					return err
				}
				width = chosen
			}

			res, err := f.SetSourceWidth(src, width)
			if err != nil {
				return err
			}
			out, err := res.Apply(src)
			if err != nil {
				return errs.Wrap(errs.ErrCodeInternal, err, "apply edits")
			}

			if stdout {
				_, err := io.WriteString(cmd.OutOrStdout(), out)
				return err
			}
			if out == src {
				printInfo("%s already uses width %d", path, width)
				return nil
			}
			if err := writeSource(cmd, path, out); err != nil {
				return err
			}
			if path != stdinPath {
				printSuccess("Set (defsrc) width to %d", width)
				printFile(path)
				printNextStep("Realign layers", "kmonadfmt fmt "+path)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&width, "width", "w", 0, "column width (default: config)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick the width interactively with a preview")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "print the result instead of rewriting the file")

	return cmd
}

// pickWidth runs the width picker. It returns 0 when the user quits.
func pickWidth(cmd *cobra.Command, f *format.Formatter, src string, current int) (int, error) {
	preview := func(w int) (string, error) {
		res, err := f.SetSourceWidth(src, w)
		if err != nil || len(res.Edits) == 0 {
			return "", err
		}
		return res.Edits[0].NewText, nil
	}
	final, err := tea.NewProgram(NewWidthModel(current, preview),
		tea.WithInput(cmd.InOrStdin()), tea.WithOutput(statusOut)).Run()
	if err != nil {
		return 0, err
	}
	return final.(WidthModel).Selected, nil
}
