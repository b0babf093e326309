package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kmonadfmt/pkg/align"
	errs "github.com/matzehuels/kmonadfmt/pkg/errors"
)

// layerCommand creates the layer command.
func (c *CLI) layerCommand() *cobra.Command {
	var (
		placeholder string
		name        string
		appendLayer bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "layer <file>",
		Short: "Generate a new (deflayer) block",
		Long: `Print the keys of a new layer with one item per (defsrc) key.

The placeholder selects the item: "copy" repeats the (defsrc) keys, "_" is
passthrough, "XX" blocks the key, and any other single token is repeated
as is. With --name the whole (deflayer) block is printed, and with --append
it is added to the end of the file, which is then formatted.`,
		Example: `  kmonadfmt layer config.kbd
  kmonadfmt layer -p XX -n nav config.kbd
  kmonadfmt layer -n nav --append config.kbd`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if appendLayer && name == "" {
				return errs.New(errs.ErrCodeInvalidInput, "--append needs a layer --name")
			}
			src, err := readSource(cmd, path)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("placeholder") {
				placeholder = c.config().Placeholder
			}
			if interactive {
				p, err := pickPlaceholder(cmd)
				if err != nil || p == "" {
					return err
				}
				placeholder = string(p)
			}

			f := c.formatter()
			p := align.Placeholder(placeholder)
			if appendLayer {
				res, err := f.InsertLayer(src, name, p)
				if err != nil {
					return err
				}
				out, err := res.Apply(src)
				if err != nil {
					return errs.Wrap(errs.ErrCodeInternal, err, "apply edits")
				}
				if err := writeSource(cmd, path, out); err != nil {
					return err
				}
				if path != stdinPath {
					printSuccess("Added layer %s", StyleHighlight.Render(name))
					printDetail("%s", res.Info)
				}
				return nil
			}

			if name != "" {
				if err := errs.ValidateLayerName(name); err != nil {
					return err
				}
			}
			body, err := f.NewLayer(src, p)
			if err != nil {
				return err
			}
			if name != "" {
				body = "(deflayer " + name + "\n" + body + "\n)"
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), body)
			return err
		},
	}

	cmd.Flags().StringVarP(&placeholder, "placeholder", "p", "", `item for every key: "copy", "_", "XX" or any token (default: config)`)
	cmd.Flags().StringVarP(&name, "name", "n", "", "layer name")
	cmd.Flags().BoolVarP(&appendLayer, "append", "a", false, "append the layer to the file and format it")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick the placeholder interactively")

	return cmd
}

// pickPlaceholder runs the placeholder picker. It returns "" when the user
// quits.
func pickPlaceholder(cmd *cobra.Command) (align.Placeholder, error) {
	final, err := tea.NewProgram(NewPlaceholderModel(),
		tea.WithInput(cmd.InOrStdin()), tea.WithOutput(statusOut)).Run()
	if err != nil {
		return "", err
	}
	if sel := final.(PlaceholderModel).Selected; sel != nil {
		return *sel, nil
	}
	return "", nil
}
