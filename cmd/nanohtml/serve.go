package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/nanohtml/internal/config"
	"github.com/vango-dev/nanohtml/pkg/server"
)

func serveCmd(g *globals) *cobra.Command {
	var (
		addr      string
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the playground server",
		Long: `Start the playground server.

The server renders nano documents posted to /api/encode, serves the
playground demos under /demos and a live preview WebSocket at /ws.

Examples:
  nanohtml serve
  nanohtml serve --addr 0.0.0.0:9000
  curl -d '{"p": "Hi"}' localhost:8080/api/encode`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}

			sc := server.DefaultConfig()
			sc.Address = cfg.Server.Address
			sc.MaxBodyBytes = cfg.Server.MaxBodyBytes
			sc.Metrics = cfg.MetricsEnabled() && !noMetrics
			sc.Options = cfg.TransformerOptions()
			sc.Logger = slog.Default()
			if addr != "" {
				sc.Address = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := cmd.OutOrStdout()
			printBanner(w)
			info(w, "Playground running at http://%s", sc.Address)
			info(w, "Press Ctrl+C to stop")

			return server.New(sc).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from "+config.ConfigFileName+")")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "Do not expose /metrics")

	return cmd
}
