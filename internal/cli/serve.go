package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/kmonadfmt/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the formatter over HTTP",
		Long: `Start an HTTP server for editor integrations.

Endpoints take the document text as JSON and return edits:

  POST /v1/format   align layers
  POST /v1/width    set the (defsrc) column width
  POST /v1/layer    generate or append a layer
  GET  /healthz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config()
			if addr == "" {
				addr = cfg.Server.Addr
			}
			printInfo("Serving on %s", StyleHighlight.Render("http://"+addr))
			return server.New(cfg, c.Logger).ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: config)")

	return cmd
}
