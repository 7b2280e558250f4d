package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formkit/pkg/server"
)

func serveCmd(g *globals) *cobra.Command {
	var (
		addr      string
		staticDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the forms API and the static client",
		Long: `Serve the forms API under /api, Prometheus metrics under /metrics and
the static client build for every other path. The server shuts down
gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, reg, err := g.setup(cmd)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if staticDir != "" {
				cfg.StaticDir = staticDir
			}

			srv := server.New(reg,
				server.WithLogger(logger),
				server.WithStaticDir(cfg.StaticDir),
				server.WithCORSOrigins(cfg.CORSOrigins...),
				server.WithShutdownTimeout(cfg.ShutdownTimeout),
				server.WithMetrics(cfg.Metrics),
			)

			ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx, cfg.Addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&staticDir, "static", "", "static client directory (overrides config)")

	return cmd
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
