package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodegraph/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve exposes compaction and rendering over HTTP. Documents posted to
/v1/graphs are kept in the configured store (memory or mongo) and can be
compacted and rendered by ID.`,
		Example: `  nodegraph serve --addr :9090
  nodegraph serve --store mongo --mongo-uri mongodb://db:27017 --cache redis`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, cfg)
			if err != nil {
				return err
			}
			defer runner.Close()

			st, err := newStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			logger.Debug("backends ready", "cache", cfg.Cache, "store", cfg.Store)
			printInfo("Listening on %s", StyleLink.Render(serverURL(cfg.Addr)))
			return server.New(runner, st, logger).ListenAndServe(ctx, cfg.Addr)
		},
	}

	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().String("store", "memory", "document store: memory, mongo")
	cmd.Flags().String("mongo-uri", "mongodb://localhost:27017", "mongo connection string")
	cmd.Flags().String("mongo-db", "nodegraph", "mongo database")

	return cmd
}

// serverURL turns a listen address into a browsable URL.
func serverURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
