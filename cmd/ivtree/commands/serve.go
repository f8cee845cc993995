package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/ivtree/internal/observability"
	"github.com/Sumatoshi-tech/ivtree/internal/server"
)

func newServeCommand(opts *Options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve interval queries over HTTP",
		Long: `Serve interval queries over HTTP until interrupted.

Routes:
  GET /v1/intervals?low=&high=   intervals intersecting [low, high]
  GET /v1/intervals?point=       intervals containing point
  GET /v1/stats                  tree statistics
  GET /healthz, /readyz          liveness and readiness
  GET /metrics                   Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := opts.start(observability.ModeServe)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			if addr != "" {
				a.cfg.Server.Addr = addr
			}

			red, err := observability.NewREDMetrics(a.providers.Meter)
			if err != nil {
				return err
			}

			srv := server.New(nil, server.Options{
				Addr:            a.cfg.Server.Addr,
				ReadTimeout:     a.cfg.Server.ReadTimeout,
				WriteTimeout:    a.cfg.Server.WriteTimeout,
				ShutdownTimeout: a.cfg.Server.ShutdownTimeout,
				Logger:          a.logger,
				Tracer:          a.providers.Tracer,
				RED:             red,
				MetricsHandler:  a.providers.MetricsHandler,
			})

			// Bind first so health checks answer while the index builds.
			err = srv.Listen(ctx)
			if err != nil {
				return err
			}

			ix, err := a.loadIndex(ctx)
			if err != nil {
				return err
			}

			srv.SetIndex(ix)

			return srv.Serve(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")

	return cmd
}
