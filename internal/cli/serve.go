package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/orgtree/pkg/config"
	"github.com/matzehuels/orgtree/pkg/server"
	"github.com/matzehuels/orgtree/pkg/source"
)

// serveCommand creates the HTTP API command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the organization tree over HTTP",
		Long: `Serve the organization tree over HTTP.

  GET  /api/v1/tree   build from the configured source
  POST /api/v1/tree   build from a JSON document in the request body
  GET  /healthz       liveness probe

Both tree endpoints accept ?inactive=true, ?detailed=true and ?format=.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Server.Addr
			}

			// Without a configured source only POST is served.
			var loader source.Loader
			if cfg.Source.Kind != source.KindFile || cfg.Source.Path != "" {
				l, closeLoader, err := newLoader(ctx, cfg, "", c.Logger)
				if err != nil {
					return err
				}
				defer closeLoader()
				loader = l
			}

			runner, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			return server.New(runner, loader, c.Logger).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, "+config.DefaultAddr+")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}
