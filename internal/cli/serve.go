package cli

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/ironsheep/image-nodes/internal/metrics"
	"github.com/ironsheep/image-nodes/internal/server"
	"github.com/ironsheep/image-nodes/internal/workflow"
)

// serveCommand creates the MCP server command.
func (c *CLI) serveCommand() *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the node catalog as MCP tools over stdio",
		Long: `Serve reads JSON-RPC requests from stdin and writes responses to stdout.
Logs go to stderr. With --metrics-addr, Prometheus metrics are served on
/metrics and a liveness probe on /healthz.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			if metricsAddr == "" {
				metricsAddr = c.cfg.Metrics.Addr
			}

			assets, err := c.openAssets()
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			rec := metrics.NewRecorder(reg)

			if metricsAddr != "" {
				go func() {
					c.Logger.Info("Serving metrics", "addr", metricsAddr)
					if err := metrics.Serve(ctx, metricsAddr, reg); err != nil {
						c.Logger.Error("Metrics server stopped", "err", err)
					}
				}()
			}

			srv := server.New(c.catalog, assets, server.Options{
				Runner:  &workflow.Runner{Metrics: rec},
				Metrics: rec,
				Logger:  c.Logger,
				Version: version,
			})
			c.Logger.Debug("Starting MCP server", "version", version, "nodes", len(c.catalog.Descriptors()))
			return srv.RunIO(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "address for the Prometheus endpoint, e.g. :9090")
	return cmd
}
