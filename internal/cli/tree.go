package cli

import (
	"os"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/kmonadfmt/pkg/errors"
	"github.com/matzehuels/kmonadfmt/pkg/render/dot"
	"github.com/matzehuels/kmonadfmt/pkg/sexpr"
)

// Tree output formats.
const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPNG = "png"
	formatPDF = "pdf"
)

// treeCommand creates the tree command.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		output   string
		outFmt   string
		detailed bool
		maxDepth int
		scale    float64
	)

	cmd := &cobra.Command{
		Use:   "tree <file>",
		Short: "Render the parsed expression tree",
		Long: `Render the s-expression tree of a configuration as Graphviz DOT, SVG, PNG
or PDF. PNG and PDF output need rsvg-convert from librsvg.
Useful to see how keys, strings and tap-macros were tokenized.`,
		Example: `  kmonadfmt tree config.kbd | dot -Tpng > tree.png
  kmonadfmt tree --format svg -o tree.svg config.kbd`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch outFmt {
			case formatDOT, formatSVG, formatPNG, formatPDF:
			default:
				return errs.New(errs.ErrCodeUnsupported, "unknown format %q (want dot, svg, png or pdf)", outFmt)
			}
			src, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			doc, err := sexpr.NewParser().Parse(src)
			if err != nil {
				return err
			}

			data := []byte(dot.ToDOT(doc, dot.Options{Detailed: detailed, MaxDepth: maxDepth}))
			if outFmt != formatDOT {
				if data, err = dot.RenderSVG(cmd.Context(), string(data)); err != nil {
					return err
				}
			}
			switch outFmt {
			case formatPNG:
				data, err = dot.ToPNG(cmd.Context(), data, scale)
			case formatPDF:
				data, err = dot.ToPDF(cmd.Context(), data)
			}
			if err != nil {
				return err
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			printSuccess("Rendered %s", outFmt)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&outFmt, "format", "f", formatDOT, "output format: dot, svg, png or pdf")
	cmd.Flags().Float64Var(&scale, "scale", 2, "PNG scale factor")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show spans and token kinds")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "limit nesting depth (0 = all)")

	return cmd
}
