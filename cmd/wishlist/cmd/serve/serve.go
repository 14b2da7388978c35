// Package serve provides the command that runs the wishlist HTTP API.
package serve

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/wishlist/cmd/application"
	"github.com/agentstation/wishlist/internal/server"
)

// NewCommand creates the serve command. defaults is read when the command
// runs, after configuration has been loaded.
func NewCommand(app application.Application, defaults func() server.Config) *cobra.Command {
	var (
		host        string
		port        int
		cors        bool
		corsOrigins []string
		noMetrics   bool
	)

	cmd := &cobra.Command{
		Use:     "serve",
		GroupID: "server",
		Short:   "Serve the wishlist over HTTP",
		Long: `Serve starts the wishlist REST API with WebSocket and SSE change
streams and a Prometheus /metrics endpoint. It shuts down gracefully on
SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := defaults()
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			cfg.CORSEnabled = cors || len(corsOrigins) > 0
			cfg.CORSOrigins = corsOrigins
			cfg.MetricsEnabled = !noMetrics

			srv, err := server.New(app, cfg)
			if err != nil {
				return err
			}
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "bind address (default from config, localhost)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from config, 8080)")
	cmd.Flags().BoolVar(&cors, "cors", false, "enable CORS for all origins")
	cmd.Flags().StringSliceVar(&corsOrigins, "cors-origins", nil, "allowed CORS origins (implies --cors)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")
	return cmd
}
