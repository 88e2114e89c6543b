package commands

import (
	"github.com/spf13/cobra"

	"github.com/pdrpinto/astar-hanoi/internal/server"
	"github.com/pdrpinto/astar-hanoi/internal/solver"
	"github.com/pdrpinto/astar-hanoi/internal/store"
	"github.com/pdrpinto/astar-hanoi/internal/telemetry"
)

func newServeCommand(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the solver over HTTP",
		Long: `Serve exposes POST /v1/solve, the recorded runs under /v1/runs and
/v1/stats, a health check on /healthz and Prometheus metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr != "" {
				a.cfg.Server.Addr = addr
			}

			tracer, err := telemetry.NewTracer(a.cfg.Tracing, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() {
				if err := tracer.Shutdown(ctx); err != nil {
					a.logger.Warn().Err(err).Msg("Tracer shutdown failed")
				}
			}()

			metrics := telemetry.NewMetrics(a.cfg.Metrics)
			runner := &solver.Runner{Logger: a.logger, Metrics: metrics, Tracer: tracer}

			var runs server.RunStore
			if a.cfg.Store.Path != "" {
				s, err := store.Open(ctx, a.cfg.Store.Path)
				if err != nil {
					return err
				}
				defer s.Close()
				runner.Recorder = s
				runs = s
			}

			return server.New(a.cfg, runner, runs, metrics, a.logger).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}
